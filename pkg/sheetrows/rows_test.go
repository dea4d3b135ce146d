package sheetrows

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rosterRow struct {
	ID        string `sheet:"ID #"`
	FirstName string `sheet:"First Name"`
	Seniority int    `sheet:"Seniority"`
	Internal  string // untagged, stays out of the sheet
}

func TestHeader(t *testing.T) {
	header := Header[rosterRow]()
	assert.Equal(t, []interface{}{"ID #", "First Name", "Seniority"}, header)
}

func TestRow(t *testing.T) {
	row := Row(rosterRow{ID: "5371", FirstName: "Jordan", Seniority: 12, Internal: "hidden"})
	assert.Equal(t, []interface{}{"5371", "Jordan", 12}, row)
}

func TestUnmarshal(t *testing.T) {
	values := [][]interface{}{
		{"First Name", "Seniority", "ID #", "Hire Date"},
		{"Jordan", "12", "5371", "2014-03-01"},
		{"Sam", "", float64(88), "2021-07-15"},
	}

	rows, err := Unmarshal[rosterRow](values)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "5371", rows[0].ID)
	assert.Equal(t, "Jordan", rows[0].FirstName)
	assert.Equal(t, 12, rows[0].Seniority)

	// Numeric cell coerced, empty int cell left at zero
	assert.Equal(t, "88", rows[1].ID)
	assert.Equal(t, 0, rows[1].Seniority)
}

func TestUnmarshal_ShortRows(t *testing.T) {
	values := [][]interface{}{
		{"ID #", "First Name", "Seniority"},
		{"5371"},
	}

	rows, err := Unmarshal[rosterRow](values)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "5371", rows[0].ID)
	assert.Equal(t, "", rows[0].FirstName)
}

func TestUnmarshal_MissingColumn(t *testing.T) {
	values := [][]interface{}{
		{"ID #", "First Name"}, // no Seniority
		{"5371", "Jordan"},
	}

	_, err := Unmarshal[rosterRow](values)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Seniority")
}

func TestUnmarshal_HeaderOnly(t *testing.T) {
	rows, err := Unmarshal[rosterRow]([][]interface{}{
		{"ID #", "First Name", "Seniority"},
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUnmarshal_NoHeader(t *testing.T) {
	_, err := Unmarshal[rosterRow]([][]interface{}{})
	assert.Error(t, err)
}

func TestUnmarshal_BadCell(t *testing.T) {
	values := [][]interface{}{
		{"ID #", "First Name", "Seniority"},
		{"5371", "Jordan", "twelve"},
	}

	_, err := Unmarshal[rosterRow](values)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2, column Seniority")
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "", CellText(nil))
	assert.Equal(t, "plain", CellText("plain"))
	assert.Equal(t, "5371", CellText(float64(5371)))
	assert.Equal(t, "true", CellText(true))
}

func TestSetFieldValue_String(t *testing.T) {
	type TestStruct struct {
		Name string
	}

	var s TestStruct
	field := reflect.ValueOf(&s).Elem().Field(0)

	err := setFieldValue(field, "test value")
	assert.NoError(t, err)
	assert.Equal(t, "test value", s.Name)
}

func TestSetFieldValue_Int(t *testing.T) {
	type TestStruct struct {
		Count int
	}

	var s TestStruct
	field := reflect.ValueOf(&s).Elem().Field(0)

	err := setFieldValue(field, "42")
	assert.NoError(t, err)
	assert.Equal(t, 42, s.Count)
}

func TestSetFieldValue_EmptyInt(t *testing.T) {
	type TestStruct struct {
		Count int
	}

	var s TestStruct
	field := reflect.ValueOf(&s).Elem().Field(0)

	err := setFieldValue(field, "")
	assert.NoError(t, err)
	assert.Equal(t, 0, s.Count)
}

func TestSetFieldValue_Bool(t *testing.T) {
	type TestStruct struct {
		Active bool
	}

	var s TestStruct
	field := reflect.ValueOf(&s).Elem().Field(0)

	err := setFieldValue(field, "true")
	assert.NoError(t, err)
	assert.True(t, s.Active)

	err = setFieldValue(field, "false")
	assert.NoError(t, err)
	assert.False(t, s.Active)
}

func TestSetFieldValue_InvalidInt(t *testing.T) {
	type TestStruct struct {
		Count int
	}

	var s TestStruct
	field := reflect.ValueOf(&s).Elem().Field(0)

	err := setFieldValue(field, "not a number")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse int")
}
