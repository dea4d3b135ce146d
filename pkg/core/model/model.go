package model

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies one of the signup clipboards operators can join.
type Category string

const (
	CategorySpareWork Category = "SPARE_WORK"
	CategoryExtraWork Category = "EXTRA_WORK"
	CategoryRDO       Category = "RDO"
)

// Categories returns all signup categories in presentation order.
func Categories() []Category {
	return []Category{CategorySpareWork, CategoryExtraWork, CategoryRDO}
}

func (c Category) IsValid() bool {
	return c == CategorySpareWork || c == CategoryExtraWork || c == CategoryRDO
}

// ParseCategory converts a wire value into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown signup category %q", s)
	}
	return c, nil
}

// Title is the heading shown on the category's signup screen.
func (c Category) Title() string {
	switch c {
	case CategorySpareWork:
		return "Spare Work Sign Up"
	case CategoryExtraWork:
		return "Extra Work Sign Up"
	case CategoryRDO:
		return "RDO Sign Up"
	}
	return string(c)
}

// TabName is the worksheet tab the category's rows land on in a daily sheet.
func (c Category) TabName() string {
	switch c {
	case CategorySpareWork:
		return "Spare Work"
	case CategoryExtraWork:
		return "Extra Work"
	case CategoryRDO:
		return "RDO"
	}
	return string(c)
}

// LogLabel is the short clipboard-type label written to the signup log sheet.
func (c Category) LogLabel() string {
	switch c {
	case CategorySpareWork:
		return "SPARE"
	case CategoryExtraWork:
		return "EXTRA"
	case CategoryRDO:
		return "RDO"
	}
	return string(c)
}

// CategoryFromLogLabel reverses LogLabel. Unknown labels return false.
func CategoryFromLogLabel(label string) (Category, bool) {
	for _, c := range Categories() {
		if c.LogLabel() == label {
			return c, true
		}
	}
	return "", false
}

// FormFields lists the inputs the category's signup form collects, in
// display order. The operator picker fills operator_id. Categories outside
// the three clipboards fall back to a bare notes box.
func (c Category) FormFields() []string {
	switch c {
	case CategoryRDO:
		return []string{FieldOperatorID, FieldWorkChoice, FieldPhoneNumber}
	case CategorySpareWork, CategoryExtraWork:
		return []string{FieldOperatorID, FieldShiftTime, FieldWorkInterested}
	}
	return []string{FieldNotes}
}

// Keys used in a signup's additional info map.
const (
	FieldOperatorID     = "operator_id"
	FieldShiftTime      = "shift_time"
	FieldWorkChoice     = "work_choice"
	FieldWorkInterested = "work_interested"
	FieldPhoneNumber    = "phone_number"
	FieldNotes          = "notes"
)

// Signup is one recorded signature on a clipboard partition.
type Signup struct {
	ID           string            `json:"id"`
	OperatorName string            `json:"operator_name"`
	SignupTime   time.Time         `json:"signup_time"`
	Extra        map[string]string `json:"additional_info"`
}

// Field returns the named additional-info value, or "" when absent.
func (s Signup) Field(key string) string {
	if s.Extra == nil {
		return ""
	}
	return s.Extra[key]
}

// HasField reports whether the named key was recorded, even with an
// empty value. Presence matters for work requested on RDO signups.
func (s Signup) HasField(key string) bool {
	_, ok := s.Extra[key]
	return ok
}

// WorkRequested resolves the single "work" value for log rows: the RDO
// choice of work when recorded, otherwise the spare/extra work interest.
func (s Signup) WorkRequested() string {
	if s.HasField(FieldWorkChoice) {
		return s.Field(FieldWorkChoice)
	}
	return s.Field(FieldWorkInterested)
}

// Operator is one row from the operator roster sheet.
type Operator struct {
	ID        string
	FirstName string
	LastName  string
	Status    string
}

// Active reports whether the operator may sign up. Status comparison is
// case-insensitive and tolerant of padding in the sheet.
func (o Operator) Active() bool {
	return strings.ToLower(strings.TrimSpace(o.Status)) == "active" && o.ID != ""
}

func (o Operator) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// Display is the picker label shown on the tablet: "1234 - First Last".
func (o Operator) Display() string {
	return o.ID + " - " + o.FullName()
}

// Roster is the in-memory index of active operators.
type Roster struct {
	// DisplayList holds picker labels in sheet order, duplicates included.
	DisplayList []string
	// ByID maps operator ID to the operator. Later sheet rows win.
	ByID map[string]Operator
	// DisplayToID maps a picker label back to its operator ID.
	DisplayToID map[string]string
}

// EmptyRoster returns a roster with initialised maps and no operators.
func EmptyRoster() Roster {
	return Roster{
		DisplayList: []string{},
		ByID:        map[string]Operator{},
		DisplayToID: map[string]string{},
	}
}

// Lookup resolves a picker label to its operator.
func (r Roster) Lookup(display string) (Operator, bool) {
	id, ok := r.DisplayToID[display]
	if !ok {
		return Operator{}, false
	}
	op, ok := r.ByID[id]
	return op, ok
}

func (r Roster) Len() int {
	return len(r.DisplayList)
}
