package core

// validation.go checks person records against per-field and dataset-wide rules.
//
// Validation happens in two passes over the full record set:
//  1. BuildIndexes collects every NIC and name pair
//  2. ValidateRow checks each record on its own plus its index cardinality
//
// Every edit reruns both passes through Revalidate. A single edit can change
// the uniqueness verdict of rows that were not touched, so nothing is patched
// incrementally.

import (
	"math"
	"strconv"
	"strings"
)

// Messages attached to ValidationErrors. They are stable and distinct per rule.
const (
	MsgNICRequired       = "NIC is required"
	MsgNICUnique         = "NIC must be unique"
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgNameUnique        = "Name combination must be unique"
	MsgGenderRequired    = "Gender is required"
	MsgGenderInvalid     = "Must be M or F"
	MsgAgeRequired       = "Age is required"
	MsgAgeInvalid        = "Must be a whole number > 0"
)

// ValidateRow validates one record against the dataset indexes.
// The record's own id is part of the index, so a key is duplicated only when
// two or more ids share it.
func ValidateRow(r Record, idx Indexes) ValidationErrors {
	errs := ValidationErrors{}

	nic := strings.TrimSpace(r.NIC)
	if nic == "" {
		errs[FieldNIC] = MsgNICRequired
	} else if idx.ByNIC.Count(normalizeKey(nic)) > 1 {
		errs[FieldNIC] = MsgNICUnique
	}

	first := strings.TrimSpace(r.FirstName)
	last := strings.TrimSpace(r.LastName)
	if first == "" {
		errs[FieldFirstName] = MsgFirstNameRequired
	}
	if last == "" {
		errs[FieldLastName] = MsgLastNameRequired
	}
	if first != "" && last != "" && idx.ByName.Count(nameKey(first, last)) > 1 {
		errs[FieldFirstName] = MsgNameUnique
		errs[FieldLastName] = MsgNameUnique
	}

	// Only the empty string is unset. Whitespace is a value and fails the
	// format checks.
	if r.Gender == "" {
		errs[FieldGender] = MsgGenderRequired
	} else if r.Gender != GenderMale && r.Gender != GenderFemale {
		errs[FieldGender] = MsgGenderInvalid
	}

	if r.Age == "" {
		errs[FieldAge] = MsgAgeRequired
	} else if _, ok := ParseAge(r.Age); !ok {
		errs[FieldAge] = MsgAgeInvalid
	}

	return errs
}

// Revalidate returns a copy of records with every Errors map recomputed
// against the whole set. The input slice and its records are not modified.
func Revalidate(records []Record) []Record {
	idx := BuildIndexes(records)

	out := make([]Record, len(records))
	for i, r := range records {
		r.Errors = ValidateRow(r, idx)
		out[i] = r
	}
	return out
}

// ParseAge returns the value of a valid age cell: a finite whole number
// greater than zero. Decimal spellings of integers such as "30.0" and "3e1"
// are accepted. There is no upper bound; storage layers apply their own.
func ParseAge(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) {
		return 0, false
	}
	return f, true
}
