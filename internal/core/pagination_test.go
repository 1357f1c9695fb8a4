package core

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 100, 1},
		{1, 100, 1},
		{100, 100, 1},
		{101, 100, 2},
		{2000, 100, 20},
		{5, 0, 1},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestPageOf(t *testing.T) {
	records := validRecords(250)

	tests := []struct {
		name      string
		page      int
		wantLen   int
		wantFirst RecordID
	}{
		{"first page", 0, 100, "id-0000"},
		{"middle page", 1, 100, "id-0100"},
		{"last partial page", 2, 50, "id-0200"},
		{"past the end", 3, 0, ""},
		{"negative", -1, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageOf(records, tt.page, PageSize)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].ID != tt.wantFirst {
				t.Errorf("first id = %s, want %s", got[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestPageOf_Empty(t *testing.T) {
	s := NewState()
	if got := s.PageRecords(); len(got) != 0 {
		t.Errorf("PageRecords() len = %d, want 0", len(got))
	}
	if got := s.TotalPages(); got != 1 {
		t.Errorf("TotalPages() = %d, want 1", got)
	}
}

func TestPageOf_AppendDoesNotClobberNextPage(t *testing.T) {
	records := validRecords(3)
	page := PageOf(records, 0, 2)
	_ = append(page, Record{ID: "intruder"})

	if records[2].ID != "id-0002" {
		t.Errorf("records[2].ID = %s, want id-0002", records[2].ID)
	}
}

func TestState_PageAllSelected(t *testing.T) {
	s := loaded([]Record{
		rec("a", "N1", "Ann", "Lee", "F", "30"),
		rec("b", "N2", "Bob", "Ray", "M", "0"),
	})
	if s.PageAllSelected() {
		t.Error("PageAllSelected() = true with nothing selected")
	}

	s = Reduce(s, SelectPageAll{IDs: ValidIDs(s.PageRecords())})
	if !s.PageAllSelected() {
		t.Error("PageAllSelected() = false after selecting every valid row")
	}

	invalidOnly := loaded([]Record{rec("x", "", "", "", "", "")})
	if invalidOnly.PageAllSelected() {
		t.Error("PageAllSelected() = true on a page without valid rows")
	}
}

func TestState_Stats(t *testing.T) {
	s := loaded(append(scenarioRecords(), rec("R4", "NIC4", "Cy", "Doe", "M", "41")))
	s = Reduce(s, ToggleSelect{ID: "R4", KnownValid: true})

	got := s.Stats()
	want := Stats{Total: 4, Valid: 1, Invalid: 3, Selected: 1}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestState_SelectedRecordsInRecordOrder(t *testing.T) {
	s := loaded(validRecords(5))
	s = Reduce(s, ToggleSelect{ID: "id-0003", KnownValid: true})
	s = Reduce(s, ToggleSelect{ID: "id-0001", KnownValid: true})

	got := s.SelectedRecords()
	if len(got) != 2 || got[0].ID != "id-0001" || got[1].ID != "id-0003" {
		t.Errorf("SelectedRecords() ids = %v, want [id-0001 id-0003]", s.SelectedIDs())
	}
}
