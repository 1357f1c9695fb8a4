package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/ingest"
)

// CommitTimeout bounds one commit to the sink.
var CommitTimeout = 30 * time.Second

// DoneMsg reports a finished background action.
type DoneMsg string

// ErrMsg reports a failed background action.
type ErrMsg struct {
	Err error
}

func (m Model) commitRowCmd(id core.RecordID) tea.Cmd {
	ed := m.editor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CommitTimeout)
		defer cancel()

		if err := ed.Commit(ctx, id); err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg("Record added")
	}
}

func (m Model) commitSelectedCmd() tea.Cmd {
	ed := m.editor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CommitTimeout)
		defer cancel()

		n, err := ed.CommitSelected(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg(fmt.Sprintf("Added %d records", n))
	}
}

// exportCmd writes the current records to path.
func (m Model) exportCmd(path string, validOnly bool) tea.Cmd {
	records := m.state.Records
	return func() tea.Msg {
		if validOnly {
			records = validRecords(records)
		}
		if err := exportFile(path, records); err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg(fmt.Sprintf("Exported %d records to %s", len(records), path))
	}
}

func exportFile(path string, records []core.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()
	return ingest.Export(f, records)
}

func validRecords(records []core.Record) []core.Record {
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// validOnlyPath turns "people.csv" into "people-valid.csv".
func validOnlyPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-valid" + ext
}
