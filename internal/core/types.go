// Package core provides the validation-and-state engine for the roster editor.
// This package has no UI dependencies and can be used by any frontend.
package core

import "strings"

// PageSize is the number of records shown per page.
const PageSize = 100

// Gender values accepted by the validator.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// RecordID identifies a record for its whole lifetime.
// It is assigned once at ingestion and never reused.
type RecordID string

// Field names an editable column of a Record.
type Field string

const (
	FieldNIC       Field = "nic"
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldGender    Field = "gender"
	FieldAge       Field = "age"
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldNIC, FieldFirstName, FieldLastName, FieldGender, FieldAge}

// Label returns the column heading for the field.
func (f Field) Label() string {
	switch f {
	case FieldNIC:
		return "NIC"
	case FieldFirstName:
		return "First Name"
	case FieldLastName:
		return "Last Name"
	case FieldGender:
		return "Gender"
	case FieldAge:
		return "Age"
	default:
		return string(f)
	}
}

// ParseField resolves a field name as sent by a client.
// Matching is case-insensitive and accepts snake_case aliases.
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nic", "id":
		return FieldNIC, true
	case "firstname", "first_name":
		return FieldFirstName, true
	case "lastname", "last_name":
		return FieldLastName, true
	case "gender":
		return FieldGender, true
	case "age":
		return FieldAge, true
	}
	return "", false
}

// ValidationErrors maps a field to a human-readable message.
// A record is valid iff its ValidationErrors is empty.
type ValidationErrors map[Field]string

// Valid reports whether there are no errors.
func (e ValidationErrors) Valid() bool {
	return len(e) == 0
}

// Record is one person row.
type Record struct {
	ID        RecordID         `json:"id"`
	NIC       string           `json:"nic"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Gender    string           `json:"gender"`
	Age       string           `json:"age"`
	Errors    ValidationErrors `json:"errors"`
}

// Valid reports whether the record carries no validation errors.
func (r Record) Valid() bool {
	return r.Errors.Valid()
}

// Get returns the value of a field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldNIC:
		return r.NIC
	case FieldFirstName:
		return r.FirstName
	case FieldLastName:
		return r.LastName
	case FieldGender:
		return r.Gender
	case FieldAge:
		return r.Age
	}
	return ""
}

// With returns a copy of r with field f set to value.
// The second result is false if f is not an editable field.
func (r Record) With(f Field, value string) (Record, bool) {
	switch f {
	case FieldNIC:
		r.NIC = value
	case FieldFirstName:
		r.FirstName = value
	case FieldLastName:
		r.LastName = value
	case FieldGender:
		r.Gender = value
	case FieldAge:
		r.Age = value
	default:
		return r, false
	}
	return r, true
}

// Values returns the editable field values in Fields order.
func (r Record) Values() []string {
	return []string{r.NIC, r.FirstName, r.LastName, r.Gender, r.Age}
}

// Selection is a set of selected record ids.
// Values reachable from a State are never mutated; use clone before writing.
type Selection map[RecordID]struct{}

// Has reports whether id is selected.
func (s Selection) Has(id RecordID) bool {
	_, ok := s[id]
	return ok
}

func (s Selection) clone() Selection {
	out := make(Selection, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// State is one immutable snapshot of the editor.
type State struct {
	Records     []Record
	CurrentPage int
	Selected    Selection
}

// NewState returns the empty initial state.
func NewState() State {
	return State{Selected: Selection{}}
}

// IsSelected reports whether the record with the given id is selected.
func (s State) IsSelected(id RecordID) bool {
	return s.Selected.Has(id)
}

// Record returns the record with the given id.
func (s State) Record(id RecordID) (Record, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Records[i], true
	}
	return Record{}, false
}

// SelectedIDs returns the selected ids in record order.
func (s State) SelectedIDs() []RecordID {
	ids := make([]RecordID, 0, len(s.Selected))
	for _, r := range s.Records {
		if s.Selected.Has(r.ID) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// SelectedRecords returns the selected records in record order.
func (s State) SelectedRecords() []Record {
	out := make([]Record, 0, len(s.Selected))
	for _, r := range s.Records {
		if s.Selected.Has(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

func (s State) indexOf(id RecordID) int {
	for i := range s.Records {
		if s.Records[i].ID == id {
			return i
		}
	}
	return -1
}
