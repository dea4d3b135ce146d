// Package sheetrows maps worksheet rows onto plain structs. A struct field
// tagged `sheet:"Column Header"` binds to the column carrying that header in
// the worksheet's first row, so readers survive column reordering and writers
// keep the column layout defined in exactly one place.
package sheetrows

import (
	"fmt"
	"reflect"
	"strconv"
)

const tagName = "sheet"

// Header returns the header row for T: one cell per tagged field, in field
// order. Untagged fields are skipped.
func Header[T any]() []interface{} {
	var model T
	t := reflect.TypeOf(model)

	header := make([]interface{}, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		column := t.Field(i).Tag.Get(tagName)
		if column == "" {
			continue
		}
		header = append(header, column)
	}
	return header
}

// Row renders v as a worksheet row, cells in the same order Header reports.
func Row[T any](v T) []interface{} {
	t := reflect.TypeOf(v)
	val := reflect.ValueOf(v)

	row := make([]interface{}, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get(tagName) == "" {
			continue
		}
		row = append(row, val.Field(i).Interface())
	}
	return row
}

// Unmarshal parses raw worksheet values into structs. The first row must be
// the header row; every tagged column of T has to appear in it, in any order.
// Data rows shorter than the header leave the missing fields at their zero
// values. A header with no data rows yields an empty slice.
func Unmarshal[T any](values [][]interface{}) ([]T, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	columnIndexes := make(map[string]int, len(values[0]))
	for i, cell := range values[0] {
		columnIndexes[CellText(cell)] = i
	}

	var model T
	t := reflect.TypeOf(model)

	type binding struct {
		fieldIndex  int
		columnIndex int
		column      string
	}
	bindings := make([]binding, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		column := t.Field(i).Tag.Get(tagName)
		if column == "" {
			continue
		}
		colIdx, ok := columnIndexes[column]
		if !ok {
			return nil, fmt.Errorf("missing column %q in header row", column)
		}
		bindings = append(bindings, binding{fieldIndex: i, columnIndex: colIdx, column: column})
	}

	results := make([]T, 0, len(values)-1)
	for rowIdx, row := range values[1:] {
		result := reflect.New(t).Elem()

		for _, b := range bindings {
			if b.columnIndex >= len(row) || row[b.columnIndex] == nil {
				continue
			}
			if err := setFieldValue(result.Field(b.fieldIndex), CellText(row[b.columnIndex])); err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", rowIdx+2, b.column, err)
			}
		}

		results = append(results, result.Interface().(T))
	}

	return results, nil
}

// CellText renders a sheet cell as text. Values usually arrive as strings,
// but unformatted numeric cells come back from the API as float64.
func CellText(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// setFieldValue converts a cell's text to the field's Go type and sets it.
// Empty cells leave numeric and bool fields at zero rather than erroring.
func setFieldValue(field reflect.Value, cell string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(cell)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cell == "" {
			field.SetInt(0)
		} else {
			intVal, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse int: %w", err)
			}
			field.SetInt(intVal)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if cell == "" {
			field.SetUint(0)
		} else {
			uintVal, err := strconv.ParseUint(cell, 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse uint: %w", err)
			}
			field.SetUint(uintVal)
		}

	case reflect.Float32, reflect.Float64:
		if cell == "" {
			field.SetFloat(0)
		} else {
			floatVal, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return fmt.Errorf("failed to parse float: %w", err)
			}
			field.SetFloat(floatVal)
		}

	case reflect.Bool:
		if cell == "" {
			field.SetBool(false)
		} else {
			boolVal, err := strconv.ParseBool(cell)
			if err != nil {
				return fmt.Errorf("failed to parse bool: %w", err)
			}
			field.SetBool(boolVal)
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
