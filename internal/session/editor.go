// Package session hosts editor state for interactive front ends.
//
// An Editor owns the single mutable "current state" of one dataset and runs
// actions through core.Reduce one at a time. A Store keeps many editors keyed
// by session id for the HTTP service.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/metrics"
	"github.com/JonMunkholm/roster/internal/store"
)

// MaxLogEntries caps the action log.
const MaxLogEntries = 10

// MinBulkSelection is the fewest selected records a bulk commit accepts.
const MinBulkSelection = 2

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrRecordInvalid  = errors.New("record has validation errors")
	ErrUnknownField   = errors.New("unknown field")
	ErrPageOutOfRange = errors.New("page out of range")
	ErrBulkTooSmall   = errors.New("bulk add needs at least 2 selected records")
)

// Editor serializes actions over one dataset.
// State snapshots handed out are never modified afterwards.
type Editor struct {
	mu     sync.Mutex
	state  core.State
	log    []string
	sink   store.Sink
	logger *slog.Logger
}

// NewEditor creates an empty editor. Commits go to sink.
// A nil logger uses slog.Default.
func NewEditor(sink store.Sink, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		state:  core.NewState(),
		sink:   sink,
		logger: logger,
	}
}

// State returns the current snapshot.
func (e *Editor) State() core.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Log returns the action log, newest first.
func (e *Editor) Log() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.log))
	copy(out, e.log)
	return out
}

// Dispatch applies an action and returns the resulting state.
func (e *Editor) Dispatch(a core.Action) core.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dispatchLocked(a)
}

func (e *Editor) dispatchLocked(a core.Action) core.State {
	start := time.Now()
	e.state = core.Reduce(e.state, a)
	elapsed := time.Since(start)

	kind := a.Kind()
	metrics.ObserveDispatch(string(kind), elapsed)
	if kind == core.KindLoad || kind == core.KindUpdateCell {
		metrics.ObserveRevalidation(len(e.state.Records))
	}
	e.logger.Debug("action dispatched",
		"kind", kind,
		"records", len(e.state.Records),
		"selected", len(e.state.Selected),
		"duration", elapsed,
	)
	return e.state
}

// Load replaces the dataset.
func (e *Editor) Load(records []core.Record) core.State {
	return e.Dispatch(core.Load{Records: records})
}

// UpdateCell edits one field of one record.
func (e *Editor) UpdateCell(id core.RecordID, field core.Field, value string) (core.State, error) {
	if _, ok := (core.Record{}).With(field, value); !ok {
		return e.State(), fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.state.Record(id); !ok {
		return e.state, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return e.dispatchLocked(core.UpdateCell{ID: id, Field: field, Value: value}), nil
}

// SetPage moves to a zero-based page within range.
func (e *Editor) SetPage(page int) (core.State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if page < 0 || page >= e.state.TotalPages() {
		return e.state, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, e.state.TotalPages())
	}
	return e.dispatchLocked(core.SetPage{Page: page}), nil
}

// ToggleRow flips the selection of a valid record.
func (e *Editor) ToggleRow(id core.RecordID) (core.State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.state.Record(id)
	if !ok {
		return e.state, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if !r.Valid() {
		return e.state, fmt.Errorf("%w: %s", ErrRecordInvalid, id)
	}
	return e.dispatchLocked(core.ToggleSelect{ID: id, KnownValid: true}), nil
}

// SelectPage toggles the selection of every valid record on the current page.
func (e *Editor) SelectPage() core.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := core.ValidIDs(e.state.PageRecords())
	return e.dispatchLocked(core.SelectPageAll{IDs: ids})
}

// DeselectAll clears the selection.
func (e *Editor) DeselectAll() core.State {
	return e.Dispatch(core.DeselectAll{})
}

// Commit sends one valid record to the sink.
func (e *Editor) Commit(ctx context.Context, id core.RecordID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.state.Record(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if !r.Valid() {
		return fmt.Errorf("%w: %s", ErrRecordInvalid, id)
	}

	if _, err := e.sink.Save(ctx, []core.Record{r}); err != nil {
		metrics.AddCommitted("single", metrics.ResultError, 1)
		return fmt.Errorf("commit record %s: %w", id, err)
	}
	metrics.AddCommitted("single", metrics.ResultOK, 1)

	e.appendLog(fmt.Sprintf("Added: %s %s (%s)", r.FirstName, r.LastName, r.NIC))
	e.logger.Info("record committed", "record_id", id)
	return nil
}

// CommitSelected sends every selected record to the sink and clears the
// selection. It returns the number of records committed.
func (e *Editor) CommitSelected(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	records := e.state.SelectedRecords()
	if len(records) < MinBulkSelection {
		return 0, ErrBulkTooSmall
	}

	n, err := e.sink.Save(ctx, records)
	if err != nil {
		metrics.AddCommitted("bulk", metrics.ResultError, len(records))
		return 0, fmt.Errorf("commit %d records: %w", len(records), err)
	}
	metrics.AddCommitted("bulk", metrics.ResultOK, len(records))

	e.appendLog(fmt.Sprintf("Bulk added %d records", len(records)))
	e.logger.Info("records committed", "count", len(records), "written", n)
	e.dispatchLocked(core.DeselectAll{})
	return len(records), nil
}

func (e *Editor) appendLog(msg string) {
	e.log = append([]string{msg}, e.log...)
	if len(e.log) > MaxLogEntries {
		e.log = e.log[:MaxLogEntries]
	}
}
