package core

import "strings"

// DuplicateIndex maps a normalized key to the ids of every record sharing it,
// in record order.
type DuplicateIndex map[string][]RecordID

// Count returns how many records share key.
func (d DuplicateIndex) Count(key string) int {
	return len(d[key])
}

// Indexes are the lookup structures used for dataset-wide uniqueness checks.
// They are rebuilt from scratch on every validation pass.
type Indexes struct {
	ByNIC  DuplicateIndex
	ByName DuplicateIndex
}

// BuildIndexes scans records once and indexes them by NIC and by name pair.
//
// A record is indexed by NIC only when its normalized NIC is non-empty, and by
// name pair only when at least one half of the name is non-empty, so blank
// values never collide with each other.
func BuildIndexes(records []Record) Indexes {
	idx := Indexes{
		ByNIC:  make(DuplicateIndex, len(records)),
		ByName: make(DuplicateIndex, len(records)),
	}

	for _, r := range records {
		if nic := normalizeKey(r.NIC); nic != "" {
			idx.ByNIC[nic] = append(idx.ByNIC[nic], r.ID)
		}
		if strings.TrimSpace(r.FirstName) != "" || strings.TrimSpace(r.LastName) != "" {
			key := nameKey(r.FirstName, r.LastName)
			idx.ByName[key] = append(idx.ByName[key], r.ID)
		}
	}

	return idx
}

// normalizeKey trims and lowercases a value for duplicate detection.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// nameKey builds the composite first|last key.
func nameKey(first, last string) string {
	return normalizeKey(first) + "|" + normalizeKey(last)
}
