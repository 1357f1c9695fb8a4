package application

import (
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem is one entry of the actions menu. An item either opens a
// submenu or runs an action against the model.
type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func(m Model) (Model, tea.Cmd)
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

// linkParents wires Parent pointers and points every "Back" item at its
// parent menu.
func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree() *Menu {
	export := &Menu{
		Title: "Export",
		Items: []MenuItem{
			{Label: "All records", Action: func(m Model) (Model, tea.Cmd) {
				return m, m.exportCmd(m.opts.ExportPath, false)
			}},
			{Label: "Valid records only", Action: func(m Model) (Model, tea.Cmd) {
				return m, m.exportCmd(validOnlyPath(m.opts.ExportPath), true)
			}},
			{Label: "Back"},
		},
	}

	root := &Menu{
		Title: "Actions",
		Items: []MenuItem{
			{Label: "Select page", Action: func(m Model) (Model, tea.Cmd) {
				return m.apply(m.editor.SelectPage()), nil
			}},
			{Label: "Deselect all", Action: func(m Model) (Model, tea.Cmd) {
				return m.apply(m.editor.DeselectAll()), nil
			}},
			{Label: "Bulk add selected", Action: func(m Model) (Model, tea.Cmd) {
				return m, m.commitSelectedCmd()
			}},
			{Label: "Export ->", Submenu: export},
			{Label: "Quit", Action: func(m Model) (Model, tea.Cmd) {
				m.quitting = true
				return m, tea.Quit
			}},
		},
	}

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	MENU KEYS
---------------------------------------- */

func (m Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}

	case "down", "j":
		if m.menuCursor < len(m.menu.Items)-1 {
			m.menuCursor++
		}

	case "esc":
		m.menu = m.menu.Parent
		m.menuCursor = 0

	case "m":
		m.menu = nil
		m.menuCursor = 0

	case "enter":
		item := m.menu.Items[m.menuCursor]
		m.menuCursor = 0
		switch {
		case item.Submenu != nil:
			m.menu = item.Submenu
		case item.Label == "Back":
			// Back at the root closes the menu.
			m.menu = nil
		case item.Action != nil:
			m.menu = nil
			return item.Action(m)
		}
	}
	return m, nil
}
