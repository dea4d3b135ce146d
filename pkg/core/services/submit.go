package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/pkg/core/model"
	"github.com/nicetransit/operator-signup/pkg/mirror"
	"github.com/nicetransit/operator-signup/pkg/store"
)

// SignupMirror is the slice of the mirror the submit flow needs.
type SignupMirror interface {
	ToLog(ctx context.Context, category model.Category, date string, s model.Signup) *mirror.Error
	ToDaily(ctx context.Context, category model.Category, date string, s model.Signup) *mirror.Error
}

// SubmitRequest carries one operator's filled-in signup form. OperatorName
// is resolved from the roster before submission; the remaining fields come
// straight from the form.
type SubmitRequest struct {
	Category     model.Category
	Date         string
	OperatorID   string
	OperatorName string
	ShiftTime    string
	WorkInterest string
	WorkChoice   string
	Phone        string
	Notes        string
}

// SubmitResult reports the stored record and any mirror writes that failed.
// Mirror failures never fail the submission; they are here so callers can
// see them and tests can pin the behaviour.
type SubmitResult struct {
	Signup   *model.Signup
	LogErr   *mirror.Error
	DailyErr *mirror.Error
}

// SubmitSignup validates the form, appends the signup to the durable store,
// then mirrors it to the log sheet and the daily sheet. Only validation and
// the local append can fail the submission; a dead network after the append
// still leaves the operator signed up.
func SubmitSignup(
	ctx context.Context,
	signupStore store.SignupStore,
	m SignupMirror,
	logger *zap.Logger,
	req SubmitRequest,
) (*SubmitResult, error) {
	logger.Debug("Starting signup submission",
		zap.String("category", string(req.Category)),
		zap.String("date", req.Date),
	)

	if errs := ValidateSubmission(req); len(errs) > 0 {
		return nil, errs
	}

	record, err := signupStore.Append(ctx, req.Category, req.Date, req.OperatorName, additionalInfo(req))
	if err != nil {
		return nil, fmt.Errorf("failed to save signup: %w", err)
	}
	logger.Info("Signup saved",
		zap.String("id", record.ID),
		zap.String("category", string(req.Category)),
		zap.String("date", req.Date),
		zap.String("operator", record.OperatorName),
	)

	result := &SubmitResult{Signup: record}

	if merr := m.ToLog(ctx, req.Category, req.Date, *record); merr != nil {
		result.LogErr = merr
		logger.Error("Failed to mirror signup to log sheet",
			zap.String("id", record.ID),
			zap.Error(merr),
		)
	}

	if merr := m.ToDaily(ctx, req.Category, req.Date, *record); merr != nil {
		result.DailyErr = merr
		logger.Error("Failed to mirror signup to daily sheet",
			zap.String("id", record.ID),
			zap.Error(merr),
		)
	}

	return result, nil
}

// additionalInfo shapes the category's extra fields for storage. RDO keeps
// its phone number key even when empty; the notes key only exists when
// something was written.
func additionalInfo(req SubmitRequest) map[string]string {
	switch req.Category {
	case model.CategoryRDO:
		return map[string]string{
			model.FieldOperatorID:  req.OperatorID,
			model.FieldWorkChoice:  req.WorkChoice,
			model.FieldPhoneNumber: req.Phone,
		}
	case model.CategorySpareWork, model.CategoryExtraWork:
		return map[string]string{
			model.FieldShiftTime:      req.ShiftTime,
			model.FieldOperatorID:     req.OperatorID,
			model.FieldWorkInterested: req.WorkInterest,
		}
	}

	info := map[string]string{}
	if req.Notes != "" {
		info[model.FieldNotes] = req.Notes
	}
	return info
}
