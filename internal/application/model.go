// Package application is the terminal host for the roster editor: a
// bubbletea program over one session.Editor.
package application

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/session"
)

// Options configures the terminal editor.
type Options struct {
	// Title is shown in the title bar, usually the loaded file name.
	Title string

	// ExportPath is where "w" writes the current records.
	ExportPath string
}

// Model is the bubbletea model. The editor owns the state; the model keeps
// the last snapshot it rendered plus cursor and input state.
type Model struct {
	editor *session.Editor
	opts   Options
	state  core.State

	cursor int // row within the current page
	col    int // index into core.Fields

	editing bool
	input   textinput.Model

	menu       *Menu
	menuCursor int

	status   string
	err      error
	width    int
	height   int
	quitting bool
}

// New returns a model over ed.
func New(ed *session.Editor, opts Options) Model {
	if opts.ExportPath == "" {
		opts.ExportPath = "roster-export.csv"
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256

	return Model{
		editor: ed,
		opts:   opts,
		state:  ed.State(),
		input:  ti,
	}
}

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, ed *session.Editor, opts Options) error {
	p := tea.NewProgram(New(ed, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case DoneMsg:
		m.status, m.err = string(msg), nil
		return m.apply(m.editor.State()), nil

	case ErrMsg:
		m.status, m.err = "", msg.Err
		return m.apply(m.editor.State()), nil

	case tea.KeyMsg:
		switch {
		case m.editing:
			return m.handleEditKeys(msg)
		case m.menu != nil:
			return m.handleMenuKeys(msg)
		default:
			return m.handleTableKeys(msg)
		}
	}
	return m, nil
}

// apply stores a new snapshot and keeps the cursor on the page.
func (m Model) apply(st core.State) Model {
	m.state = st
	if n := len(st.PageRecords()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m
}

// current returns the record under the cursor.
func (m Model) current() (core.Record, bool) {
	page := m.state.PageRecords()
	if m.cursor < 0 || m.cursor >= len(page) {
		return core.Record{}, false
	}
	return page[m.cursor], true
}

func (m Model) field() core.Field {
	return core.Fields[m.col]
}

// fail shows err in the status line.
func (m Model) fail(err error) Model {
	m.status, m.err = "", err
	return m
}
