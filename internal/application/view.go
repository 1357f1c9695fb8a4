package application

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/roster/internal/core"
)

var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true)

	cursorRowStyle = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#282828"})

	focusCellStyle = lipgloss.NewStyle().Reverse(true)

	invalidCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ff6b6b"})

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ff6b6b"})

	flashStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#996600", Dark: "#ffcc00"})

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Padding(0, 1)

	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

// columnWidths are the cell widths for core.Fields.
var columnWidths = map[core.Field]int{
	core.FieldNIC:       14,
	core.FieldFirstName: 16,
	core.FieldLastName:  16,
	core.FieldGender:    7,
	core.FieldAge:       6,
}

// chromeLines is the number of lines around the table body.
const chromeLines = 9

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString(m.renderDetail())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	if m.menu != nil {
		b.WriteString(m.renderMenu())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTitle() string {
	title := "roster"
	if m.opts.Title != "" {
		title += " - " + m.opts.Title
	}
	st := m.state.Stats()
	stats := fmt.Sprintf("Total %d  Valid %d  Invalid %d  Selected %d  Page %d/%d",
		st.Total, st.Valid, st.Invalid, st.Selected, m.state.CurrentPage+1, m.state.TotalPages())
	return titleBarStyle.Render(title) + statsStyle.Render(stats)
}

func (m Model) renderTable() string {
	var b strings.Builder

	header := "    "
	for _, f := range core.Fields {
		header += cell(f.Label(), columnWidths[f]) + " "
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	page := m.state.PageRecords()
	if len(page) == 0 {
		b.WriteString(statsStyle.Render("No records loaded"))
		b.WriteString("\n")
		return b.String()
	}

	start, end := visibleRange(m.cursor, len(page), m.bodyHeight())
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i, page[i]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(i int, r core.Record) string {
	mark := "[ ]"
	switch {
	case m.state.IsSelected(r.ID):
		mark = "[x]"
	case !r.Valid():
		mark = " ! "
	}

	var b strings.Builder
	b.WriteString(mark + " ")
	for j, f := range core.Fields {
		text := cell(r.Get(f), columnWidths[f])
		if _, bad := r.Errors[f]; bad {
			text = invalidCellStyle.Render(text)
		}
		if i == m.cursor && j == m.col {
			text = focusCellStyle.Render(text)
		}
		b.WriteString(text + " ")
	}

	row := b.String()
	if i == m.cursor {
		row = cursorRowStyle.Render(row)
	}
	return row
}

// renderDetail shows the focused record's errors and, while editing, the input.
func (m Model) renderDetail() string {
	r, ok := m.current()
	if !ok {
		return ""
	}

	var b strings.Builder
	if m.editing {
		b.WriteString(fmt.Sprintf("%s: %s\n", m.field().Label(), m.input.View()))
	}
	for _, f := range core.Fields {
		if msg, bad := r.Errors[f]; bad {
			b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %s", f.Label(), msg)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render(core.FormatUserError(m.err))
	}
	if m.status != "" {
		return flashStyle.Render(m.status)
	}
	if log := m.editor.Log(); len(log) > 0 {
		return statsStyle.Render(log[0])
	}
	return ""
}

func (m Model) renderMenu() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.menu.Title))
	for i, item := range m.menu.Items {
		prefix := "  "
		if i == m.menuCursor {
			prefix = "> "
		}
		b.WriteString("\n" + prefix + item.Label)
	}
	return menuStyle.Render(b.String())
}

func (m Model) renderFooter() string {
	if m.editing {
		return footerStyle.Render("enter/esc done  tab next column")
	}
	if m.menu != nil {
		return footerStyle.Render("↑/↓ move  enter choose  esc back  m close")
	}
	return footerStyle.Render("↑/↓ row  ←/→ column  enter edit  space select  a page  D none  c add  B bulk add  n/p page  w export  m menu  q quit")
}

func (m Model) bodyHeight() int {
	if m.height <= chromeLines {
		return 20
	}
	return m.height - chromeLines
}

// visibleRange returns the window of rows to draw so the cursor stays on
// screen.
func visibleRange(cursor, n, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(start, 0)
	start = min(start, n-height)
	return start, start + height
}

// cell truncates or pads s to width display columns.
func cell(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if lipgloss.Width(s) > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
	}
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}
