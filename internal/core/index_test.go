package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildIndexes(t *testing.T) {
	records := []Record{
		rec("a", " NIC1 ", "Ann", "Lee", "F", "30"),
		rec("b", "nic1", "Bob", "Ray", "M", "25"),
		rec("c", "", "ANN", " lee", "F", "40"),
		rec("d", "NIC4", "", "", "M", "50"),
		rec("e", "NIC5", "", "Solo", "M", "50"),
	}

	idx := BuildIndexes(records)

	wantNIC := DuplicateIndex{
		"nic1": {"a", "b"},
		"nic4": {"d"},
		"nic5": {"e"},
	}
	if diff := cmp.Diff(wantNIC, idx.ByNIC); diff != "" {
		t.Errorf("ByNIC mismatch (-want +got):\n%s", diff)
	}

	wantName := DuplicateIndex{
		"ann|lee": {"a", "c"},
		"bob|ray": {"b"},
		"|solo":   {"e"},
	}
	if diff := cmp.Diff(wantName, idx.ByName); diff != "" {
		t.Errorf("ByName mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIndexes_BlankNamesNeverCollide(t *testing.T) {
	records := []Record{
		rec("a", "N1", "", "", "F", "30"),
		rec("b", "N2", " ", "", "F", "30"),
	}

	idx := BuildIndexes(records)
	if len(idx.ByName) != 0 {
		t.Errorf("ByName = %v, want empty", idx.ByName)
	}
}

func TestDuplicateIndex_Count(t *testing.T) {
	d := DuplicateIndex{"k": {"a", "b"}}
	if got := d.Count("k"); got != 2 {
		t.Errorf("Count(k) = %d, want 2", got)
	}
	if got := d.Count("missing"); got != 0 {
		t.Errorf("Count(missing) = %d, want 0", got)
	}
}
