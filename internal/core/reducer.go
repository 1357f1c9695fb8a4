package core

// ActionKind names an action for logging and metrics.
type ActionKind string

const (
	KindLoad          ActionKind = "LOAD"
	KindUpdateCell    ActionKind = "UPDATE_CELL"
	KindSetPage       ActionKind = "SET_PAGE"
	KindToggleSelect  ActionKind = "TOGGLE_SELECT"
	KindSelectPageAll ActionKind = "SELECT_PAGE_ALL"
	KindDeselectAll   ActionKind = "DESELECT_ALL"
)

// Action is an input to Reduce.
type Action interface {
	Kind() ActionKind
}

// Load replaces the whole dataset.
type Load struct {
	Records []Record
}

// UpdateCell sets one field of one record.
type UpdateCell struct {
	ID    RecordID
	Field Field
	Value string
}

// SetPage moves to a zero-based page. The caller keeps Page in range.
type SetPage struct {
	Page int
}

// ToggleSelect flips the selection of one row.
// KnownValid must come from the state the caller last rendered.
type ToggleSelect struct {
	ID         RecordID
	KnownValid bool
}

// SelectPageAll toggles the selection of exactly the given ids, which are the
// valid ids of the page the caller is displaying.
type SelectPageAll struct {
	IDs []RecordID
}

// DeselectAll clears the selection.
type DeselectAll struct{}

func (Load) Kind() ActionKind          { return KindLoad }
func (UpdateCell) Kind() ActionKind    { return KindUpdateCell }
func (SetPage) Kind() ActionKind       { return KindSetPage }
func (ToggleSelect) Kind() ActionKind  { return KindToggleSelect }
func (SelectPageAll) Kind() ActionKind { return KindSelectPageAll }
func (DeselectAll) Kind() ActionKind   { return KindDeselectAll }

// Reduce applies an action to a state and returns the next state.
// It never mutates s; slices and sets that change are copied first.
// Unknown actions, and updates naming an unknown record or field, return s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Load:
		return State{
			Records:     Revalidate(a.Records),
			CurrentPage: 0,
			Selected:    Selection{},
		}

	case UpdateCell:
		return updateCell(s, a)

	case SetPage:
		s.CurrentPage = a.Page
		return s

	case ToggleSelect:
		if !a.KnownValid {
			return s
		}
		sel := s.Selected.clone()
		if sel.Has(a.ID) {
			delete(sel, a.ID)
		} else {
			sel[a.ID] = struct{}{}
		}
		s.Selected = sel
		return s

	case SelectPageAll:
		allSelected := true
		for _, id := range a.IDs {
			if !s.Selected.Has(id) {
				allSelected = false
				break
			}
		}
		sel := s.Selected.clone()
		for _, id := range a.IDs {
			if allSelected {
				delete(sel, id)
			} else {
				sel[id] = struct{}{}
			}
		}
		s.Selected = sel
		return s

	case DeselectAll:
		s.Selected = Selection{}
		return s
	}

	return s
}

func updateCell(s State, a UpdateCell) State {
	i := s.indexOf(a.ID)
	if i < 0 {
		return s
	}
	edited, ok := s.Records[i].With(a.Field, a.Value)
	if !ok {
		return s
	}

	records := make([]Record, len(s.Records))
	copy(records, s.Records)
	records[i] = edited

	s.Records = Revalidate(records)
	s.Selected = pruneInvalid(s.Selected, s.Records)
	return s
}

// pruneInvalid returns the subset of sel whose records are valid.
func pruneInvalid(sel Selection, records []Record) Selection {
	out := make(Selection, len(sel))
	for _, r := range records {
		if sel.Has(r.ID) && r.Valid() {
			out[r.ID] = struct{}{}
		}
	}
	return out
}
