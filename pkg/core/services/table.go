package services

import (
	"github.com/nicetransit/operator-signup/pkg/core/model"
)

// SignupTable is a ready-to-render view of one clipboard partition, shaped
// per category the way the tablet shows it.
type SignupTable struct {
	Headers []string
	Rows    [][]string
}

// Fillers for records that never carried a field. A recorded-but-empty
// value stays empty; only a missing key gets the filler.
const (
	fillerNoID   = "Not provided"
	fillerNoWork = "Not specified"
)

// tableTimeLayout is the 12-hour clock shown on the fallback table.
const tableTimeLayout = "03:04 PM"

// BuildSignupTable shapes a partition's signups for display. RDO shows the
// choice of work and, when anyone left one, a phone column; spare and extra
// work show the shift and work interest; anything else falls back to name
// and signup time.
func BuildSignupTable(category model.Category, signups []model.Signup) SignupTable {
	switch category {
	case model.CategoryRDO:
		return rdoTable(signups)
	case model.CategorySpareWork, model.CategoryExtraWork:
		return shiftTable(signups)
	}
	return fallbackTable(signups)
}

func rdoTable(signups []model.Signup) SignupTable {
	hasPhone := false
	for _, s := range signups {
		if s.Field(model.FieldPhoneNumber) != "" {
			hasPhone = true
			break
		}
	}

	headers := []string{"ID #", "Operator Name", "Choice of Work"}
	if hasPhone {
		headers = append(headers, "Phone #")
	}

	rows := make([][]string, 0, len(signups))
	for _, s := range signups {
		row := []string{
			fieldOrFiller(s, model.FieldOperatorID, fillerNoID),
			s.OperatorName,
			fieldOrFiller(s, model.FieldWorkChoice, fillerNoWork),
		}
		if hasPhone {
			row = append(row, s.Field(model.FieldPhoneNumber))
		}
		rows = append(rows, row)
	}

	return SignupTable{Headers: headers, Rows: rows}
}

func shiftTable(signups []model.Signup) SignupTable {
	headers := []string{"Shift", "ID #", "Operator Name", "Work Interested IN"}

	rows := make([][]string, 0, len(signups))
	for _, s := range signups {
		rows = append(rows, []string{
			fieldOrFiller(s, model.FieldShiftTime, fillerNoWork),
			fieldOrFiller(s, model.FieldOperatorID, fillerNoID),
			s.OperatorName,
			fieldOrFiller(s, model.FieldWorkInterested, fillerNoWork),
		})
	}

	return SignupTable{Headers: headers, Rows: rows}
}

func fallbackTable(signups []model.Signup) SignupTable {
	hasNotes := false
	for _, s := range signups {
		if s.Field(model.FieldNotes) != "" {
			hasNotes = true
			break
		}
	}

	headers := []string{"Operator Name", "Signup Time"}
	if hasNotes {
		headers = append(headers, "Notes")
	}

	rows := make([][]string, 0, len(signups))
	for _, s := range signups {
		row := []string{
			s.OperatorName,
			s.SignupTime.Format(tableTimeLayout),
		}
		if hasNotes {
			row = append(row, s.Field(model.FieldNotes))
		}
		rows = append(rows, row)
	}

	return SignupTable{Headers: headers, Rows: rows}
}

func fieldOrFiller(s model.Signup, key, filler string) string {
	if !s.HasField(key) {
		return filler
	}
	return s.Field(key)
}
