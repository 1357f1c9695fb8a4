package application

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/session"
	"github.com/JonMunkholm/roster/internal/store"
)

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func person(id, nic, first, last, gender, age string) core.Record {
	return core.Record{ID: core.RecordID(id), NIC: nic, FirstName: first, LastName: last, Gender: gender, Age: age}
}

func sampleRecords() []core.Record {
	return []core.Record{
		person("r1", "N1", "Ann", "Lee", "F", "30"),
		person("r2", "N2", "Bob", "Ray", "M", "25"),
		person("r3", "", "Cy", "Doe", "X", "0"),
	}
}

type fixture struct {
	model  Model
	editor *session.Editor
	sink   *store.MemorySink
}

func newFixture(t *testing.T, records []core.Record) *fixture {
	t.Helper()
	sink := store.NewMemorySink()
	ed := session.NewEditor(sink, nil)
	ed.Load(records)
	return &fixture{
		model:  New(ed, Options{Title: "people.csv", ExportPath: filepath.Join(t.TempDir(), "out.csv")}),
		editor: ed,
		sink:   sink,
	}
}

// send feeds msgs through Update and returns the last command.
func (f *fixture) send(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = f.model.Update(msg)
		f.model = next.(Model)
	}
	return cmd
}

// run executes cmd synchronously and feeds its message back.
func (f *fixture) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	f.send(msg)
	return msg
}

// ============================================================================
// Navigation Tests
// ============================================================================

func TestCursorMovement(t *testing.T) {
	f := newFixture(t, sampleRecords())

	f.send(key('j'), key('j'), key('j'))
	if f.model.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", f.model.cursor)
	}
	f.send(key('k'))
	if f.model.cursor != 1 {
		t.Errorf("cursor = %d, want 1", f.model.cursor)
	}

	f.send(keyType(tea.KeyShiftTab))
	if f.model.field() != core.FieldAge {
		t.Errorf("field = %s, want wrap to %s", f.model.field(), core.FieldAge)
	}
	f.send(keyType(tea.KeyTab))
	if f.model.field() != core.FieldNIC {
		t.Errorf("field = %s, want %s", f.model.field(), core.FieldNIC)
	}
}

func TestPaging(t *testing.T) {
	records := make([]core.Record, 150)
	for i := range records {
		records[i] = person(fmt.Sprintf("r%03d", i), fmt.Sprintf("N%03d", i), "F", fmt.Sprintf("L%03d", i), "M", "20")
	}
	f := newFixture(t, records)

	f.send(key('G'))
	f.send(key('n'))
	if f.model.state.CurrentPage != 1 || f.model.cursor != 0 {
		t.Fatalf("page, cursor = %d, %d, want 1, 0", f.model.state.CurrentPage, f.model.cursor)
	}
	f.send(key('n'))
	if f.model.state.CurrentPage != 1 {
		t.Errorf("page = %d, want 1 past the last page", f.model.state.CurrentPage)
	}
	if f.model.err != nil {
		t.Errorf("err = %v, want none", f.model.err)
	}
	f.send(key('p'))
	if got := f.editor.State().CurrentPage; got != 0 {
		t.Errorf("editor page = %d, want 0", got)
	}
}

// ============================================================================
// Selection Tests
// ============================================================================

func TestToggleAndSelectPage(t *testing.T) {
	f := newFixture(t, sampleRecords())

	f.send(key(' '))
	if !f.editor.State().IsSelected("r1") {
		t.Error("r1 not selected after space")
	}

	f.send(key('j'), key('j'), key(' '))
	if !errors.Is(f.model.err, session.ErrRecordInvalid) {
		t.Errorf("err = %v, want %v", f.model.err, session.ErrRecordInvalid)
	}

	f.send(key('a'))
	if got := f.editor.State().SelectedIDs(); len(got) != 2 {
		t.Errorf("selected = %v, want r1 and r2", got)
	}

	f.send(key('D'))
	if got := f.editor.State().SelectedIDs(); len(got) != 0 {
		t.Errorf("selected = %v, want none", got)
	}
}

// ============================================================================
// Editing Tests
// ============================================================================

func TestEditDispatchesEveryKeystroke(t *testing.T) {
	f := newFixture(t, sampleRecords())
	f.send(key(' '), key('j'), key(' '))

	f.send(keyType(tea.KeyEnter))
	if !f.model.editing || f.model.input.Value() != "N2" {
		t.Fatalf("editing = %v, input = %q", f.model.editing, f.model.input.Value())
	}

	f.send(keyType(tea.KeyBackspace))
	if got, _ := f.editor.State().Record("r2"); got.NIC != "N" {
		t.Errorf("NIC after backspace = %q, want N", got.NIC)
	}

	f.send(key('1'))
	st := f.editor.State()
	for _, id := range []core.RecordID{"r1", "r2"} {
		r, _ := st.Record(id)
		if r.Errors[core.FieldNIC] != core.MsgNICUnique {
			t.Errorf("%s: nic error = %q, want %q", id, r.Errors[core.FieldNIC], core.MsgNICUnique)
		}
	}
	if len(st.SelectedIDs()) != 0 {
		t.Errorf("selected = %v, want pruned", st.SelectedIDs())
	}

	f.send(keyType(tea.KeyEsc))
	if f.model.editing {
		t.Error("still editing after esc")
	}
}

func TestEditTabMovesColumn(t *testing.T) {
	f := newFixture(t, sampleRecords())

	f.send(keyType(tea.KeyEnter), keyType(tea.KeyTab))
	if f.model.field() != core.FieldFirstName || f.model.input.Value() != "Ann" {
		t.Errorf("field, input = %s, %q, want firstName, Ann", f.model.field(), f.model.input.Value())
	}
}

// ============================================================================
// Commit Tests
// ============================================================================

func TestCommitRow(t *testing.T) {
	f := newFixture(t, sampleRecords())

	msg := f.run(t, f.send(key('c')))
	if _, ok := msg.(DoneMsg); !ok {
		t.Fatalf("msg = %#v, want DoneMsg", msg)
	}
	if n := len(f.sink.People()); n != 1 {
		t.Errorf("people = %d, want 1", n)
	}
	if !strings.Contains(f.model.View(), "Record added") {
		t.Error("view missing status")
	}
}

func TestBulkCommit(t *testing.T) {
	f := newFixture(t, sampleRecords())

	msg := f.run(t, f.send(key('B')))
	if e, ok := msg.(ErrMsg); !ok || !errors.Is(e.Err, session.ErrBulkTooSmall) {
		t.Fatalf("msg = %#v, want ErrBulkTooSmall", msg)
	}
	if !strings.Contains(f.model.renderStatus(), "Code:") {
		t.Errorf("status = %q, want a user-facing error", f.model.renderStatus())
	}

	f.send(key('a'))
	f.run(t, f.send(key('B')))
	if n := len(f.sink.People()); n != 2 {
		t.Errorf("people = %d, want 2", n)
	}
	if got := f.model.state.SelectedIDs(); len(got) != 0 {
		t.Errorf("selected = %v, want cleared after bulk add", got)
	}
}

// ============================================================================
// Export & Menu Tests
// ============================================================================

func TestExport(t *testing.T) {
	f := newFixture(t, sampleRecords())

	f.run(t, f.send(key('w')))

	data, err := os.ReadFile(f.model.opts.ExportPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("lines = %d, want header + 3", len(lines))
	}
}

func TestMenu_ExportValidOnly(t *testing.T) {
	f := newFixture(t, sampleRecords())

	f.send(key('m'))
	if f.model.menu == nil || f.model.menu.Title != "Actions" {
		t.Fatal("menu not open")
	}

	f.send(key('j'), key('j'), key('j'), keyType(tea.KeyEnter))
	if f.model.menu.Title != "Export" {
		t.Fatalf("menu = %s, want Export", f.model.menu.Title)
	}

	cmd := f.send(key('j'), keyType(tea.KeyEnter))
	if f.model.menu != nil {
		t.Error("menu still open after action")
	}
	f.run(t, cmd)

	data, err := os.ReadFile(validOnlyPath(f.model.opts.ExportPath))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "\n"); got != 3 {
		t.Errorf("lines = %d, want header + 2 valid", got)
	}
}

func TestMenu_BackAndEscape(t *testing.T) {
	f := newFixture(t, nil)

	f.send(key('m'), key('j'), key('j'), key('j'), keyType(tea.KeyEnter))
	f.send(key('j'), key('j'), keyType(tea.KeyEnter))
	if f.model.menu == nil || f.model.menu.Title != "Actions" {
		t.Fatal("Back did not return to the root menu")
	}

	f.send(keyType(tea.KeyEsc))
	if f.model.menu != nil {
		t.Error("esc at the root should close the menu")
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t, nil)
	cmd := f.send(key('q'))

	if !f.model.quitting || cmd == nil {
		t.Fatal("q did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
}

// ============================================================================
// View Tests
// ============================================================================

func TestView(t *testing.T) {
	f := newFixture(t, sampleRecords())
	f.send(tea.WindowSizeMsg{Width: 120, Height: 40}, key('j'), key('j'))

	out := f.model.View()
	for _, want := range []string{"people.csv", "Total 3", "Invalid 1", "Page 1/1", core.MsgNICRequired, core.MsgAgeInvalid} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestView_Empty(t *testing.T) {
	f := newFixture(t, nil)
	if !strings.Contains(f.model.View(), "No records loaded") {
		t.Error("View() missing empty message")
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		cursor, n, height  int
		wantStart, wantEnd int
	}{
		{0, 5, 10, 0, 5},
		{0, 100, 10, 0, 10},
		{50, 100, 10, 45, 55},
		{99, 100, 10, 90, 100},
	}
	for _, tt := range tests {
		start, end := visibleRange(tt.cursor, tt.n, tt.height)
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("visibleRange(%d, %d, %d) = %d, %d, want %d, %d",
				tt.cursor, tt.n, tt.height, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Ann", 5, "Ann  "},
		{"Bartholomew", 6, "Barth…"},
		{"", 3, "   "},
	}
	for _, tt := range tests {
		if got := cell(tt.in, tt.width); got != tt.want {
			t.Errorf("cell(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestValidOnlyPath(t *testing.T) {
	tests := map[string]string{
		"people.csv":   "people-valid.csv",
		"/tmp/out.csv": "/tmp/out-valid.csv",
		"noext":        "noext-valid",
	}
	for in, want := range tests {
		if got := validOnlyPath(in); got != want {
			t.Errorf("validOnlyPath(%q) = %q, want %q", in, got, want)
		}
	}
}
