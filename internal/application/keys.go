package application

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/roster/internal/core"
)

// handleTableKeys handles keys while browsing the table.
func (m Model) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.PageRecords())-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.state.PageRecords())-1, 0)

	case "tab", "right", "l":
		m.col = (m.col + 1) % len(core.Fields)
	case "shift+tab", "left", "h":
		m.col = (m.col + len(core.Fields) - 1) % len(core.Fields)

	case "n", "pgdown":
		return m.gotoPage(m.state.CurrentPage + 1), nil
	case "p", "pgup":
		return m.gotoPage(m.state.CurrentPage - 1), nil

	case " ":
		r, ok := m.current()
		if !ok {
			return m, nil
		}
		st, err := m.editor.ToggleRow(r.ID)
		if err != nil {
			return m.fail(err), nil
		}
		return m.apply(st), nil

	case "a":
		return m.apply(m.editor.SelectPage()), nil
	case "D":
		return m.apply(m.editor.DeselectAll()), nil

	case "enter", "e":
		r, ok := m.current()
		if !ok {
			return m, nil
		}
		m.editing = true
		m.input.SetValue(r.Get(m.field()))
		m.input.CursorEnd()
		m.input.Focus()
		return m, textinput.Blink

	case "c":
		r, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.commitRowCmd(r.ID)
	case "B":
		return m, m.commitSelectedCmd()

	case "w":
		return m, m.exportCmd(m.opts.ExportPath, false)

	case "m":
		m.menu = buildMenuTree()
		m.menuCursor = 0
	}
	return m, nil
}

// handleEditKeys handles keys while a cell is being edited. Every change to
// the input is dispatched right away so errors follow the typing.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "enter", "esc":
		m.editing = false
		m.input.Blur()
		return m, nil

	case "tab", "shift+tab":
		// Move to the neighbouring column and keep editing.
		if msg.String() == "tab" {
			m.col = (m.col + 1) % len(core.Fields)
		} else {
			m.col = (m.col + len(core.Fields) - 1) % len(core.Fields)
		}
		if r, ok := m.current(); ok {
			m.input.SetValue(r.Get(m.field()))
			m.input.CursorEnd()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	r, ok := m.current()
	if !ok {
		m.editing = false
		return m, cmd
	}
	st, err := m.editor.UpdateCell(r.ID, m.field(), m.input.Value())
	if err != nil {
		return m.fail(err), cmd
	}
	return m.apply(st), cmd
}

// gotoPage moves to page and resets the cursor. Out-of-range pages leave
// the state unchanged.
func (m Model) gotoPage(page int) Model {
	if page < 0 || page >= m.state.TotalPages() {
		return m
	}
	st, err := m.editor.SetPage(page)
	if err != nil {
		return m.fail(err)
	}
	m.cursor = 0
	return m.apply(st)
}
