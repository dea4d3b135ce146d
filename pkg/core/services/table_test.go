package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicetransit/operator-signup/pkg/core/model"
)

func tableSignup(name string, extra map[string]string) model.Signup {
	return model.Signup{
		ID:           "rec-" + name,
		OperatorName: name,
		SignupTime:   time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Extra:        extra,
	}
}

func TestBuildSignupTableRDO(t *testing.T) {
	signups := []model.Signup{
		tableSignup("Jordan Smith", map[string]string{
			model.FieldOperatorID:  "5371",
			model.FieldWorkChoice:  "Run 42",
			model.FieldPhoneNumber: "555-0101",
		}),
		tableSignup("Alex Chen", map[string]string{
			model.FieldOperatorID:  "88",
			model.FieldPhoneNumber: "",
		}),
	}

	table := BuildSignupTable(model.CategoryRDO, signups)

	assert.Equal(t, []string{"ID #", "Operator Name", "Choice of Work", "Phone #"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"5371", "Jordan Smith", "Run 42", "555-0101"}, table.Rows[0])
	assert.Equal(t, []string{"88", "Alex Chen", "Not specified", ""}, table.Rows[1],
		"missing choice of work gets the filler, recorded-but-empty phone stays empty")
}

func TestBuildSignupTableRDOWithoutPhones(t *testing.T) {
	signups := []model.Signup{
		tableSignup("Jordan Smith", map[string]string{
			model.FieldOperatorID: "5371",
			model.FieldWorkChoice: "Run 42",
		}),
	}

	table := BuildSignupTable(model.CategoryRDO, signups)

	assert.Equal(t, []string{"ID #", "Operator Name", "Choice of Work"}, table.Headers)
	assert.Equal(t, []string{"5371", "Jordan Smith", "Run 42"}, table.Rows[0])
}

func TestBuildSignupTableShiftCategories(t *testing.T) {
	signups := []model.Signup{
		tableSignup("Jordan Smith", map[string]string{
			model.FieldShiftTime:      "AM",
			model.FieldOperatorID:     "5371",
			model.FieldWorkInterested: "Anything early",
		}),
		tableSignup("Sam Ortiz", map[string]string{
			model.FieldShiftTime: "PM",
		}),
	}

	for _, category := range []model.Category{model.CategorySpareWork, model.CategoryExtraWork} {
		table := BuildSignupTable(category, signups)

		assert.Equal(t, []string{"Shift", "ID #", "Operator Name", "Work Interested IN"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, []string{"AM", "5371", "Jordan Smith", "Anything early"}, table.Rows[0])
		assert.Equal(t, []string{"PM", "Not provided", "Sam Ortiz", "Not specified"}, table.Rows[1])
	}
}

func TestBuildSignupTableFallback(t *testing.T) {
	signups := []model.Signup{
		tableSignup("Jordan Smith", map[string]string{model.FieldNotes: "left early"}),
		tableSignup("Sam Ortiz", nil),
	}

	table := BuildSignupTable(model.Category("LEGACY"), signups)

	assert.Equal(t, []string{"Operator Name", "Signup Time", "Notes"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Jordan Smith", "02:30 PM", "left early"}, table.Rows[0])
	assert.Equal(t, []string{"Sam Ortiz", "02:30 PM", ""}, table.Rows[1])
}

func TestBuildSignupTableFallbackWithoutNotes(t *testing.T) {
	table := BuildSignupTable(model.Category("LEGACY"), []model.Signup{
		tableSignup("Sam Ortiz", nil),
	})

	assert.Equal(t, []string{"Operator Name", "Signup Time"}, table.Headers)
	assert.Equal(t, []string{"Sam Ortiz", "02:30 PM"}, table.Rows[0])
}

func TestBuildSignupTableEmptyPartition(t *testing.T) {
	table := BuildSignupTable(model.CategorySpareWork, nil)

	assert.Equal(t, []string{"Shift", "ID #", "Operator Name", "Work Interested IN"}, table.Headers)
	assert.Empty(t, table.Rows)
}
