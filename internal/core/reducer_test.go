package core

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func validRecords(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = rec(
			fmt.Sprintf("id-%04d", i),
			fmt.Sprintf("NIC%04d", i),
			fmt.Sprintf("First%d", i),
			fmt.Sprintf("Last%d", i),
			GenderFemale,
			"30",
		)
	}
	return out
}

func loaded(records []Record) State {
	return Reduce(NewState(), Load{Records: records})
}

// cloneState deep-copies a state so later mutation of s would show up as a diff.
func cloneState(s State) State {
	out := State{
		Records:     make([]Record, len(s.Records)),
		CurrentPage: s.CurrentPage,
		Selected:    s.Selected.clone(),
	}
	for i, r := range s.Records {
		errs := make(ValidationErrors, len(r.Errors))
		for f, msg := range r.Errors {
			errs[f] = msg
		}
		r.Errors = errs
		out.Records[i] = r
	}
	return out
}

// assertSelectionInvariant fails if any selected id is not a valid record.
func assertSelectionInvariant(t *testing.T, s State) {
	t.Helper()
	for id := range s.Selected {
		r, ok := s.Record(id)
		if !ok {
			t.Errorf("selected id %s has no record", id)
			continue
		}
		if !r.Valid() {
			t.Errorf("selected id %s is invalid: %v", id, r.Errors)
		}
	}
}

// ============================================================================
// LOAD
// ============================================================================

func TestReduce_LoadResetsPageAndSelection(t *testing.T) {
	s := loaded(validRecords(250))
	s = Reduce(s, SetPage{Page: 2})
	s = Reduce(s, ToggleSelect{ID: "id-0000", KnownValid: true})

	s = Reduce(s, Load{Records: scenarioRecords()})

	if s.CurrentPage != 0 {
		t.Errorf("CurrentPage = %d, want 0", s.CurrentPage)
	}
	if len(s.Selected) != 0 {
		t.Errorf("Selected = %v, want empty", s.Selected)
	}
	if len(s.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(s.Records))
	}
	if s.Records[1].Errors[FieldNIC] != MsgNICUnique {
		t.Errorf("R2 NIC error = %q, want %q", s.Records[1].Errors[FieldNIC], MsgNICUnique)
	}
}

func TestReduce_LoadKeepsOrder(t *testing.T) {
	in := validRecords(5)
	s := loaded(in)

	for i, r := range s.Records {
		if r.ID != in[i].ID {
			t.Errorf("Records[%d].ID = %s, want %s", i, r.ID, in[i].ID)
		}
	}
}

// ============================================================================
// UPDATE_CELL
// ============================================================================

func TestReduce_UpdateCellEditPropagates(t *testing.T) {
	s := loaded([]Record{
		rec("A", "NIC-A", "Ann", "Lee", "F", "30"),
		rec("B", "NIC-B", "Bob", "Ray", "M", "25"),
	})
	s = Reduce(s, ToggleSelect{ID: "B", KnownValid: true})

	s = Reduce(s, UpdateCell{ID: "A", Field: FieldNIC, Value: "NIC-B"})

	for _, id := range []RecordID{"A", "B"} {
		r, _ := s.Record(id)
		if r.Errors[FieldNIC] != MsgNICUnique {
			t.Errorf("%s NIC error = %q, want %q", id, r.Errors[FieldNIC], MsgNICUnique)
		}
	}
	if s.IsSelected("B") {
		t.Error("B still selected after becoming invalid")
	}
}

func TestReduce_UpdateCellScenarioFix(t *testing.T) {
	s := loaded(scenarioRecords())
	before := byID(s.Records)

	s = Reduce(s, UpdateCell{ID: "R2", Field: FieldNIC, Value: "NIC2"})
	after := byID(s.Records)

	if _, ok := after["R1"].Errors[FieldNIC]; ok {
		t.Errorf("R1 still has NIC error %q", after["R1"].Errors[FieldNIC])
	}
	if _, ok := after["R2"].Errors[FieldNIC]; ok {
		t.Errorf("R2 still has NIC error %q", after["R2"].Errors[FieldNIC])
	}
	if !after["R2"].Valid() {
		t.Errorf("R2 errors = %v, want none", after["R2"].Errors)
	}

	for _, id := range []RecordID{"R1", "R3"} {
		for _, f := range []Field{FieldFirstName, FieldLastName, FieldAge} {
			if before[id].Errors[f] != after[id].Errors[f] {
				t.Errorf("%s %s error changed from %q to %q", id, f, before[id].Errors[f], after[id].Errors[f])
			}
		}
	}
}

func TestReduce_UpdateCellKeepsPageAndValidSelection(t *testing.T) {
	s := loaded(validRecords(150))
	s = Reduce(s, SetPage{Page: 1})
	s = Reduce(s, ToggleSelect{ID: "id-0001", KnownValid: true})

	s = Reduce(s, UpdateCell{ID: "id-0120", Field: FieldFirstName, Value: "Renamed"})

	if s.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", s.CurrentPage)
	}
	if !s.IsSelected("id-0001") {
		t.Error("id-0001 lost its selection after an unrelated edit")
	}
	r, _ := s.Record("id-0120")
	if r.FirstName != "Renamed" {
		t.Errorf("FirstName = %q, want %q", r.FirstName, "Renamed")
	}
}

func TestReduce_UpdateCellUnknownIDOrField(t *testing.T) {
	s := loaded(validRecords(3))

	tests := []struct {
		name string
		a    UpdateCell
	}{
		{"unknown id", UpdateCell{ID: "nope", Field: FieldAge, Value: "1"}},
		{"unknown field", UpdateCell{ID: "id-0000", Field: "email", Value: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(s, tt.a)
			if diff := cmp.Diff(s, got); diff != "" {
				t.Errorf("state changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduce_UpdateCellDoesNotMutateInput(t *testing.T) {
	s := loaded(validRecords(2))
	s = Reduce(s, ToggleSelect{ID: "id-0000", KnownValid: true})
	snapshot := cloneState(s)

	_ = Reduce(s, UpdateCell{ID: "id-0000", Field: FieldAge, Value: "-1"})

	if diff := cmp.Diff(snapshot, s); diff != "" {
		t.Errorf("input state mutated (-want +got):\n%s", diff)
	}
}

// ============================================================================
// SET_PAGE
// ============================================================================

func TestReduce_SetPageOnlyMovesPage(t *testing.T) {
	s := loaded(validRecords(250))
	s = Reduce(s, ToggleSelect{ID: "id-0005", KnownValid: true})

	got := Reduce(s, SetPage{Page: 2})

	if got.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", got.CurrentPage)
	}
	if diff := cmp.Diff(s.Selected, got.Selected); diff != "" {
		t.Errorf("Selected changed (-want +got):\n%s", diff)
	}
	if len(got.PageRecords()) != 50 {
		t.Errorf("page 2 has %d records, want 50", len(got.PageRecords()))
	}
}

func TestReduce_PaginationStability(t *testing.T) {
	s := loaded(validRecords(250))
	s = Reduce(s, ToggleSelect{ID: "id-0007", KnownValid: true})
	s = Reduce(s, SetPage{Page: 1})
	s = Reduce(s, SetPage{Page: 0})

	if !s.IsSelected("id-0007") {
		t.Error("selection lost after paging away and back")
	}
}

// ============================================================================
// TOGGLE_SELECT
// ============================================================================

func TestReduce_ToggleSelect(t *testing.T) {
	s := loaded(validRecords(3))

	s = Reduce(s, ToggleSelect{ID: "id-0001", KnownValid: true})
	if !s.IsSelected("id-0001") {
		t.Fatal("id-0001 not selected after first toggle")
	}

	s = Reduce(s, ToggleSelect{ID: "id-0001", KnownValid: true})
	if s.IsSelected("id-0001") {
		t.Error("id-0001 still selected after second toggle")
	}
}

func TestReduce_ToggleSelectNotKnownValidIsNoOp(t *testing.T) {
	s := loaded(scenarioRecords())

	for _, id := range []RecordID{"R1", "R2", "R3"} {
		r, _ := s.Record(id)
		got := Reduce(s, ToggleSelect{ID: id, KnownValid: r.Valid()})
		if got.IsSelected(id) {
			t.Errorf("%s selected while invalid", id)
		}
	}
}

func TestReduce_ToggleSelectDoesNotShareSet(t *testing.T) {
	s := loaded(validRecords(2))
	next := Reduce(s, ToggleSelect{ID: "id-0000", KnownValid: true})

	if s.IsSelected("id-0000") {
		t.Error("toggle wrote through to the previous snapshot")
	}
	if !next.IsSelected("id-0000") {
		t.Error("toggle not applied")
	}
}

// ============================================================================
// SELECT_PAGE_ALL / DESELECT_ALL
// ============================================================================

func TestReduce_SelectPageAll(t *testing.T) {
	s := loaded(validRecords(5))
	s = Reduce(s, ToggleSelect{ID: "id-0004", KnownValid: true})
	ids := []RecordID{"id-0000", "id-0001", "id-0002"}

	s = Reduce(s, SelectPageAll{IDs: ids})
	for _, id := range ids {
		if !s.IsSelected(id) {
			t.Errorf("%s not selected after select-all", id)
		}
	}

	s = Reduce(s, SelectPageAll{IDs: ids})
	for _, id := range ids {
		if s.IsSelected(id) {
			t.Errorf("%s still selected after second select-all", id)
		}
	}
	if !s.IsSelected("id-0004") {
		t.Error("id outside the page set was touched")
	}
}

func TestReduce_SelectPageAllPartialSelectsRest(t *testing.T) {
	s := loaded(validRecords(3))
	s = Reduce(s, ToggleSelect{ID: "id-0000", KnownValid: true})

	s = Reduce(s, SelectPageAll{IDs: []RecordID{"id-0000", "id-0001"}})

	if !s.IsSelected("id-0000") || !s.IsSelected("id-0001") {
		t.Errorf("Selected = %v, want id-0000 and id-0001", s.SelectedIDs())
	}
}

func TestReduce_SelectPageAllEmpty(t *testing.T) {
	s := loaded(validRecords(2))
	s = Reduce(s, ToggleSelect{ID: "id-0000", KnownValid: true})

	got := Reduce(s, SelectPageAll{})
	if diff := cmp.Diff(s.Selected, got.Selected); diff != "" {
		t.Errorf("Selected changed (-want +got):\n%s", diff)
	}
}

func TestReduce_DeselectAll(t *testing.T) {
	s := loaded(validRecords(250))
	s = Reduce(s, SetPage{Page: 1})
	s = Reduce(s, SelectPageAll{IDs: ValidIDs(s.PageRecords())})

	got := Reduce(s, DeselectAll{})

	if len(got.Selected) != 0 {
		t.Errorf("Selected = %v, want empty", got.Selected)
	}
	if got.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", got.CurrentPage)
	}
	if len(s.Selected) != 100 {
		t.Errorf("previous snapshot Selected = %d, want 100", len(s.Selected))
	}
}

type unknownAction struct{}

func (unknownAction) Kind() ActionKind { return "UNKNOWN" }

func TestReduce_UnknownAction(t *testing.T) {
	s := loaded(validRecords(2))
	got := Reduce(s, unknownAction{})
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}
}

// ============================================================================
// Invariants under random action sequences
// ============================================================================

func TestReduce_InvariantsHoldUnderRandomActions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := map[Field][]string{
		FieldNIC:       {"NIC1", "NIC2", "nic1", "", "NIC3"},
		FieldFirstName: {"Ann", "Bob", "", "ann"},
		FieldLastName:  {"Lee", "Ray", ""},
		FieldGender:    {"M", "F", "", "X"},
		FieldAge:       {"30", "0", "-1", "abc", "", "12"},
	}

	records := make([]Record, 220)
	for i := range records {
		records[i] = rec(fmt.Sprintf("r%d", i), fmt.Sprintf("N%d", i), "F", fmt.Sprintf("L%d", i), "M", "20")
	}
	s := loaded(records)

	for step := 0; step < 500; step++ {
		var a Action
		switch rng.Intn(6) {
		case 0:
			r := s.Records[rng.Intn(len(s.Records))]
			f := Fields[rng.Intn(len(Fields))]
			vs := values[f]
			a = UpdateCell{ID: r.ID, Field: f, Value: vs[rng.Intn(len(vs))]}
		case 1:
			a = SetPage{Page: rng.Intn(s.TotalPages())}
		case 2:
			r := s.Records[rng.Intn(len(s.Records))]
			a = ToggleSelect{ID: r.ID, KnownValid: r.Valid()}
		case 3:
			a = SelectPageAll{IDs: ValidIDs(s.PageRecords())}
		case 4:
			a = DeselectAll{}
		case 5:
			r := s.Records[rng.Intn(len(s.Records))]
			a = UpdateCell{ID: r.ID, Field: FieldNIC, Value: fmt.Sprintf("N%d", rng.Intn(len(s.Records)))}
		}

		s = Reduce(s, a)

		assertSelectionInvariant(t, s)
		if s.CurrentPage < 0 || s.CurrentPage >= s.TotalPages() {
			t.Fatalf("step %d: CurrentPage %d out of range [0,%d)", step, s.CurrentPage, s.TotalPages())
		}
		if diff := cmp.Diff(Revalidate(s.Records), s.Records); diff != "" {
			t.Fatalf("step %d (%s): stale errors (-fresh +state):\n%s", step, a.Kind(), diff)
		}
	}
}
