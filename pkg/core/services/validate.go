package services

import (
	"strings"

	"github.com/nicetransit/operator-signup/pkg/core/model"
)

// FieldError describes one invalid form field, with the message shown on
// the tablet.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects the per-field problems of one submission. It is
// returned as the error from SubmitSignup so handlers can render each field.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "invalid signup: " + strings.Join(msgs, "; ")
}

// ByField indexes the messages for JSON responses.
func (v ValidationErrors) ByField() map[string]string {
	fields := make(map[string]string, len(v))
	for _, fe := range v {
		fields[fe.Field] = fe.Message
	}
	return fields
}

// ValidateSubmission checks the category's required fields. RDO needs an
// operator ID and a choice of work; spare and extra work need an operator
// ID, a shift time and the work the operator is interested in. Whitespace
// does not count as filled in.
func ValidateSubmission(req SubmitRequest) ValidationErrors {
	var errs ValidationErrors

	switch req.Category {
	case model.CategoryRDO:
		if strings.TrimSpace(req.OperatorID) == "" {
			errs = append(errs, FieldError{model.FieldOperatorID, "Please enter your ID number."})
		}
		if strings.TrimSpace(req.WorkChoice) == "" {
			errs = append(errs, FieldError{model.FieldWorkChoice, "Please enter your choice of work."})
		}
	case model.CategorySpareWork, model.CategoryExtraWork:
		if strings.TrimSpace(req.OperatorID) == "" {
			errs = append(errs, FieldError{model.FieldOperatorID, "Please enter your ID number."})
		}
		if req.ShiftTime == "" {
			errs = append(errs, FieldError{model.FieldShiftTime, "Please select a shift time."})
		}
		if strings.TrimSpace(req.WorkInterest) == "" {
			msg := "Please enter the work you're interested in."
			if req.Category == model.CategorySpareWork {
				msg = "Please enter the spare work you're interested in."
			}
			errs = append(errs, FieldError{model.FieldWorkInterested, msg})
		}
	}

	return errs
}
