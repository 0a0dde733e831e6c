package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/LovedOnes/internal/core"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActionTimeout bounds a single save, delete or export started from the menu.
var ActionTimeout = 30 * time.Second

/* ----------------------------------------
	MESSAGES
---------------------------------------- */

// DoneMsg reports a finished action.
type DoneMsg string

// ErrMsg reports a failed action.
type ErrMsg struct{ Err error }

// ViewMsg switches to a read-only page of lines.
type ViewMsg struct {
	Title string
	Lines []string
}

/* ----------------------------------------
	MODEL
---------------------------------------- */

type mode int

const (
	modeMenu mode = iota
	modeForm
	modeView
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4b4b")).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff77a9"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1f9d55"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d64545"))
	helpStyle     = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

// form is a small set of text inputs submitted together.
type form struct {
	title  string
	inputs []textinput.Model
	focus  int
	submit func(values []string) tea.Cmd
}

// Model is the bubbletea model behind `lovedctl tui`.
type Model struct {
	service   *core.Service
	exportDir string

	root   *Menu
	menu   *Menu
	cursor int
	mode   mode

	form      *form
	viewTitle string
	viewLines []string

	status string
	err    error
}

// NewModel builds the menu for service. Exports are written to exportDir.
func NewModel(service *core.Service, exportDir string) *Model {
	m := &Model{service: service, exportDir: exportDir}
	m.root = buildMenuTree(m)
	m.menu = m.root
	if err := service.LoadWarning(); err != nil {
		m.err = err
	}
	return m
}

// Run starts the interactive menu and blocks until the user quits.
func Run(service *core.Service, exportDir string) error {
	_, err := tea.NewProgram(NewModel(service, exportDir)).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DoneMsg:
		m.status, m.err = string(msg), nil
		m.mode, m.form = modeMenu, nil
		m.setMenu(m.root)
		return m, nil

	case ErrMsg:
		m.status, m.err = "", msg.Err
		return m, nil

	case ViewMsg:
		m.mode = modeView
		m.viewTitle, m.viewLines = msg.Title, msg.Lines
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeView:
			m.mode = modeMenu
			return m, nil
		default:
			return m.updateMenu(msg)
		}
	}

	if m.mode == modeForm {
		return m.updateFormInput(msg)
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case "esc", "backspace":
		if m.menu.Parent != nil {
			m.setMenu(m.menu.Parent)
		}
	case "enter":
		return m, m.selectItem(m.menu.Items[m.cursor])
	}
	return m, nil
}

func (m *Model) selectItem(item MenuItem) tea.Cmd {
	switch {
	case item.Label == "Back" && item.Submenu == nil:
		// Back on the root menu has no parent.
		return nil
	case item.Submenu != nil:
		m.setMenu(item.Submenu)
	case item.Build != nil:
		sub := item.Build()
		linkParents(sub, m.menu)
		m.setMenu(sub)
	case item.Action != nil:
		m.status, m.err = "", nil
		return item.Action()
	}
	return nil
}

func (m *Model) setMenu(menu *Menu) {
	m.menu = menu
	m.cursor = 0
}

/* ----------------------------------------
	FORMS
---------------------------------------- */

func (m *Model) openForm(title string, labels []string, submit func([]string) tea.Cmd) tea.Cmd {
	f := &form{title: title, submit: submit}
	for _, label := range labels {
		ti := textinput.New()
		ti.Prompt = label + ": "
		ti.CharLimit = 200
		f.inputs = append(f.inputs, ti)
	}
	m.form = f
	m.mode = modeForm
	f.inputs[0].Focus()
	return textinput.Blink
}

func (m *Model) openSearch() tea.Cmd {
	return m.openForm("Search for a Loved One", []string{"Name"}, func(v []string) tea.Cmd {
		return m.listCmd(v[0])
	})
}

func (m *Model) openAddForm() tea.Cmd {
	labels := []string{"Name", "Current Date (YYYY-MM-DD)", "Special Date (YYYY-MM-DD)"}
	return m.openForm("Add a Loved One", labels, func(v []string) tea.Cmd {
		return m.addCmd(core.RecordInput{Name: v[0], CurrentDate: v[1], SpecialDate: v[2]})
	})
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.mode, m.form = modeMenu, nil
		return m, nil
	case "tab", "down":
		return m, m.focusInput((f.focus + 1) % len(f.inputs))
	case "shift+tab", "up":
		return m, m.focusInput((f.focus + len(f.inputs) - 1) % len(f.inputs))
	case "enter":
		if f.focus < len(f.inputs)-1 {
			return m, m.focusInput(f.focus + 1)
		}
		values := make([]string, len(f.inputs))
		for i, in := range f.inputs {
			values[i] = in.Value()
		}
		return m, f.submit(values)
	}
	return m.updateFormInput(msg)
}

func (m *Model) updateFormInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.form.inputs[m.form.focus].Blur()
	m.form.focus = i
	m.form.inputs[i].Focus()
	return textinput.Blink
}

/* ----------------------------------------
	COMMANDS
---------------------------------------- */

func (m *Model) listCmd(query string) tea.Cmd {
	return func() tea.Msg {
		records := m.service.ListRecords(query).Records
		title := "All Loved Ones"
		if strings.TrimSpace(query) != "" {
			title = fmt.Sprintf("Search: %q", query)
		}
		if len(records) == 0 {
			if title == "All Loved Ones" {
				return ViewMsg{Title: title, Lines: []string{"No loved ones saved yet."}}
			}
			return ViewMsg{Title: title, Lines: []string{"No results found."}}
		}
		return ViewMsg{Title: title, Lines: FormatRecords(records)}
	}
}

func (m *Model) addCmd(in core.RecordInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ActionTimeout)
		defer cancel()

		rec, err := m.service.AddRecord(ctx, in, nil)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg(fmt.Sprintf("Saved %s successfully!", rec.Name))
	}
}

func (m *Model) deleteCmd(rec core.Record) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ActionTimeout)
		defer cancel()

		if _, err := m.service.DeleteRecord(ctx, rec.ID); err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg(fmt.Sprintf("Deleted %s", rec.Name))
	}
}

func (m *Model) exportCmd(format string) tea.Cmd {
	return func() tea.Msg {
		f, err := core.LookupExportFormat(format)
		if err != nil {
			return ErrMsg{Err: err}
		}
		path := filepath.Join(m.exportDir, "loved_ones"+f.Extension)
		if err := ExportToFile(m.service, path, f.Name, ""); err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg("Exported to " + path)
	}
}

// ExportToFile writes the records matching query to path.
func ExportToFile(service *core.Service, path, format, query string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := service.Export(out, format, query); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

// FormatRecords renders one line per record, as the list page does.
func FormatRecords(records []core.Record) []string {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		line := fmt.Sprintf("%s - %s - %s", rec.Name, rec.CurrentDate, rec.SpecialDate)
		if rec.HasImage() {
			line += "  [photo: " + rec.ImagePath + "]"
		}
		lines = append(lines, line)
	}
	return lines
}

/* ----------------------------------------
	VIEW
---------------------------------------- */

func (m *Model) View() string {
	var b strings.Builder

	switch m.mode {
	case modeForm:
		b.WriteString(titleStyle.Render(m.form.title))
		b.WriteString("\n")
		for _, in := range m.form.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("tab: next field • enter: save • esc: cancel"))

	case modeView:
		b.WriteString(titleStyle.Render(m.viewTitle))
		b.WriteString("\n")
		for _, line := range m.viewLines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("any key: back"))

	default:
		b.WriteString(titleStyle.Render(m.menu.Title))
		b.WriteString("\n")
		for i, item := range m.menu.Items {
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + item.Label))
			} else {
				b.WriteString("  " + item.Label)
			}
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓: move • enter: select • esc: back • q: quit"))
	}

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(core.FormatUserError(m.err)))
	}
	return b.String() + "\n"
}
