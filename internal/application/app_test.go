package application

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/LovedOnes/internal/config"
	"github.com/JonMunkholm/LovedOnes/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Store: config.StoreConfig{
			Backend:  config.BackendCSV,
			DataFile: filepath.Join(dir, "loved_ones.csv"),
			Timeout:  5 * time.Second,
		},
		Image: config.ImageConfig{
			Dir:          filepath.Join(dir, "images"),
			MaxSize:      1 << 20,
			AllowedTypes: []string{"jpg", "png"},
		},
	}
}

func openApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func TestOpen_CSV(t *testing.T) {
	cfg := testConfig(t)
	os.WriteFile(cfg.Store.DataFile, []byte("Name,Birthdate,Special Date,Image\nAlice,a,b,\n"), 0o644)

	app := openApp(t, cfg)

	if app.Service.Count() != 1 {
		t.Errorf("Count() = %d, want 1", app.Service.Count())
	}
	if _, err := os.Stat(cfg.Image.Dir); err != nil {
		t.Errorf("image dir not created: %v", err)
	}
	if app.Service.LoadWarning() != nil {
		t.Errorf("LoadWarning() = %v, want nil", app.Service.LoadWarning())
	}
}

func TestOpen_CorruptFileStartsEmpty(t *testing.T) {
	cfg := testConfig(t)
	os.WriteFile(cfg.Store.DataFile, []byte("Name,currentdate\n\"unterminated\n"), 0o644)

	app := openApp(t, cfg)

	if app.Service.Count() != 0 {
		t.Errorf("Count() = %d, want 0", app.Service.Count())
	}
	if !core.IsParseError(app.Service.LoadWarning()) {
		t.Errorf("LoadWarning() = %v, want parse error", app.Service.LoadWarning())
	}
}

func TestOpen_BadDatabaseURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = config.BackendPostgres
	cfg.Database.URL = "::not a url::"

	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("Open() expected an error for an invalid database URL")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends k and runs any command it returns, feeding the result back.
func press(t *testing.T, m *Model, k string) {
	t.Helper()
	_, cmd := m.Update(key(k))
	run(m, cmd)
}

func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg.(type) {
	case DoneMsg, ErrMsg, ViewMsg:
		m.Update(msg)
	}
}

func selectLabel(t *testing.T, m *Model, label string) {
	t.Helper()
	for i, item := range m.menu.Items {
		if item.Label == label {
			m.cursor = i
			press(t, m, "enter")
			return
		}
	}
	t.Fatalf("menu %q has no item %q", m.menu.Title, label)
}

func TestLinkParents(t *testing.T) {
	m := NewModel(openApp(t, testConfig(t)).Service, t.TempDir())

	var export *Menu
	for _, item := range m.root.Items {
		if item.Label == "Export ->" {
			export = item.Submenu
		}
	}
	if export == nil || export.Parent != m.root {
		t.Fatal("export menu should link back to root")
	}
	last := export.Items[len(export.Items)-1]
	if last.Label != "Back" || last.Submenu != m.root {
		t.Error("Back should point at the parent menu")
	}
}

func TestModel_AddListDelete(t *testing.T) {
	app := openApp(t, testConfig(t))
	m := NewModel(app.Service, t.TempDir())

	selectLabel(t, m, "Add a loved one")
	if m.mode != modeForm {
		t.Fatalf("mode = %v, want form", m.mode)
	}
	m.form.inputs[0].SetValue("Alice")
	m.form.inputs[1].SetValue("2024-01-01")
	m.form.inputs[2].SetValue("2024-02-14")
	m.focusInput(2)
	press(t, m, "enter")

	if m.mode != modeMenu || !strings.Contains(m.status, "Alice") {
		t.Fatalf("after save: mode = %v, status = %q, err = %v", m.mode, m.status, m.err)
	}
	if app.Service.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", app.Service.Count())
	}

	selectLabel(t, m, "List loved ones")
	if m.mode != modeView || len(m.viewLines) != 1 || !strings.HasPrefix(m.viewLines[0], "Alice - ") {
		t.Fatalf("list view = %v", m.viewLines)
	}
	press(t, m, "esc")

	selectLabel(t, m, "Delete ->")
	if m.menu.Title != "Delete" {
		t.Fatalf("menu = %q, want Delete", m.menu.Title)
	}
	selectLabel(t, m, "Alice (2024-02-14)")
	if app.Service.Count() != 0 {
		t.Errorf("Count() after delete = %d, want 0", app.Service.Count())
	}
	if m.menu != m.root {
		t.Error("a finished action returns to the main menu")
	}
}

func TestModel_AddRejectsEmptyFields(t *testing.T) {
	app := openApp(t, testConfig(t))
	m := NewModel(app.Service, t.TempDir())

	selectLabel(t, m, "Add a loved one")
	m.form.inputs[0].SetValue("Alice")
	m.focusInput(2)
	press(t, m, "enter")

	if !core.IsValidationError(m.err) {
		t.Fatalf("err = %v, want validation error", m.err)
	}
	if m.mode != modeForm {
		t.Error("form should stay open so the user can fix it")
	}
	if !strings.Contains(m.View(), "VAL001") {
		t.Error("view should show the error code")
	}
	if app.Service.Count() != 0 {
		t.Error("nothing should be saved")
	}
}

func TestModel_SearchNoResults(t *testing.T) {
	m := NewModel(openApp(t, testConfig(t)).Service, t.TempDir())

	selectLabel(t, m, "Search")
	m.form.inputs[0].SetValue("zed")
	press(t, m, "enter")

	if m.mode != modeView || len(m.viewLines) != 1 || m.viewLines[0] != "No results found." {
		t.Errorf("search view = %v", m.viewLines)
	}
}

func TestModel_Export(t *testing.T) {
	app := openApp(t, testConfig(t))
	app.Service.AddRecord(context.Background(), core.RecordInput{Name: "Alice", CurrentDate: "a", SpecialDate: "b"}, nil)
	dir := t.TempDir()
	m := NewModel(app.Service, dir)

	selectLabel(t, m, "Export ->")
	selectLabel(t, m, "Export CSV")

	data, err := os.ReadFile(filepath.Join(dir, "loved_ones.csv"))
	if err != nil {
		t.Fatalf("export file missing: %v (status %q, err %v)", err, m.status, m.err)
	}
	if !strings.Contains(string(data), "Alice") {
		t.Errorf("export = %q", data)
	}
}
