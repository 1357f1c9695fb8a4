// Package core provides the validation-and-state engine for the roster editor.
//
// This package is the heart of the editor, containing all domain logic
// independent of any UI or transport layer. It can be used by the web
// handlers, the terminal editor, CLI tools, or tests without modification.
//
// # Architecture
//
// The engine is organized leaf-first:
//
//   - Index Builder: [BuildIndexes] scans all records once and produces two
//     duplicate indexes, by NIC and by first|last name pair.
//   - Row Validator: [ValidateRow] turns one record plus the indexes into a
//     field -> message map.
//   - Dataset Revalidator: [Revalidate] rebuilds the indexes from the whole
//     set and validates every record.
//   - State Reducer: [Reduce] is a pure (State, Action) -> State function over
//     the six editor actions.
//   - Pagination View: [PageOf] and [TotalPages] derive the visible slice.
//
// # State Transitions
//
// Every record-changing action revalidates the full dataset, then drops any
// selected id whose record became invalid:
//
//	s := core.Reduce(core.NewState(), core.Load{Records: rows})
//	s = core.Reduce(s, core.ToggleSelect{ID: id, KnownValid: true})
//	s = core.Reduce(s, core.UpdateCell{ID: id, Field: core.FieldNIC, Value: "NIC2"})
//
// Reduce never mutates its input, so a caller may keep old snapshots around
// and compare them. Hosts own the single mutable "current state" slot; see
// package session.
//
// # Invariants
//
//   - Record.Errors always reflects the current full dataset.
//   - State.Selected only ever holds ids of valid records.
//   - Record ids are unique and never change.
//
// # Error Handling
//
// Invalid input is data, not an error. Errors from the outer layers are
// mapped to user-friendly messages with [MapError].
package core
