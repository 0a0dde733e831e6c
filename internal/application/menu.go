package application

import (
	"fmt"

	"github.com/JonMunkholm/LovedOnes/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem is one selectable line. Exactly one of Submenu, Build or Action
// is set, except for "Back" items which linkParents points at the parent.
type MenuItem struct {
	Label   string
	Submenu *Menu
	Build   func() *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

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

func buildMenuTree(m *Model) *Menu {
	root := &Menu{
		Title: "Loved Ones",
		Items: []MenuItem{
			{Label: "List loved ones", Action: func() tea.Cmd { return m.listCmd("") }},
			{Label: "Search", Action: m.openSearch},
			{Label: "Add a loved one", Action: m.openAddForm},
			{Label: "Delete ->", Build: func() *Menu { return loadDeleteMenu(m) }},
			{Label: "Export ->", Submenu: loadExportMenu(m)},
			{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
		},
	}

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

// loadDeleteMenu lists the current records; it is rebuilt every time it is
// opened so deleted records disappear.
func loadDeleteMenu(m *Model) *Menu {
	records := m.service.ListRecords("").Records
	items := make([]MenuItem, 0, len(records)+1)

	for _, rec := range records {
		rec := rec
		items = append(items, MenuItem{
			Label:  fmt.Sprintf("%s (%s)", rec.Name, rec.SpecialDate),
			Action: func() tea.Cmd { return m.deleteCmd(rec) },
		})
	}
	if len(records) == 0 {
		items = append(items, MenuItem{Label: "No loved ones saved yet."})
	}
	items = append(items, MenuItem{Label: "Back"})

	return &Menu{Title: "Delete", Items: items}
}

func loadExportMenu(m *Model) *Menu {
	return &Menu{
		Title: "Export",
		Items: []MenuItem{
			{Label: "Export CSV", Action: func() tea.Cmd { return m.exportCmd(core.FormatCSV) }},
			{Label: "Export XLSX", Action: func() tea.Cmd { return m.exportCmd(core.FormatXLSX) }},
			{Label: "Back"},
		},
	}
}
