package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupEnv points the CLI at a fresh data file and image directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_BACKEND", "csv")
	t.Setenv("DATA_FILE", filepath.Join(dir, "loved_ones.csv"))
	t.Setenv("IMAGE_DIR", filepath.Join(dir, "images"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddListDelete(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "add", "--name", "Alice", "--current-date", "2024-01-01", "--special-date", "2024-02-14")
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	if !strings.HasPrefix(out, "Saved Alice (") {
		t.Errorf("add output = %q", out)
	}
	execute(t, "add", "--name", "Bob", "--current-date", "2024-01-01", "--special-date", "2024-03-01")

	out, err = execute(t, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("list lines = %d, want header + 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "1 ") || !strings.Contains(lines[1], "Alice") {
		t.Errorf("first row = %q", lines[1])
	}

	out, _ = execute(t, "list", "-q", "BO")
	if strings.Contains(out, "Alice") || !strings.Contains(out, "Bob") {
		t.Errorf("filtered list = %q", out)
	}

	out, err = execute(t, "delete", "--index", "1")
	if err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if !strings.HasPrefix(out, "Deleted Alice") {
		t.Errorf("delete output = %q", out)
	}

	out, _ = execute(t, "list", "-q", "alice")
	if strings.TrimSpace(out) != "No results found." {
		t.Errorf("list after delete = %q", out)
	}
}

func TestAddRejectsMissingFields(t *testing.T) {
	dir := setupEnv(t)

	_, err := execute(t, "add", "--name", "Alice")
	if err == nil {
		t.Fatal("add without dates should fail")
	}
	if !strings.Contains(err.Error(), "VAL001") {
		t.Errorf("error = %v, want VAL001", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "loved_ones.csv")); !os.IsNotExist(err) {
		t.Error("no data file should be written")
	}
}

func TestDeleteArguments(t *testing.T) {
	setupEnv(t)

	if _, err := execute(t, "delete"); err == nil {
		t.Error("delete with no target should fail")
	}
	if _, err := execute(t, "delete", "abc", "--index", "1"); err == nil {
		t.Error("delete with both id and index should fail")
	}
	_, err := execute(t, "delete", "--index", "3")
	if err == nil || !strings.Contains(err.Error(), "REC002") {
		t.Errorf("delete out of range error = %v", err)
	}
}

func TestExport(t *testing.T) {
	dir := setupEnv(t)
	execute(t, "add", "--name", "Alice", "--current-date", "a", "--special-date", "b")

	out, err := execute(t, "export")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.HasPrefix(out, "ID,Name,") || !strings.Contains(out, ",Alice,a,b,") {
		t.Errorf("csv export = %q", out)
	}

	path := filepath.Join(dir, "out.xlsx")
	if _, err := execute(t, "export", "--format", "xlsx", "-o", path); err != nil {
		t.Fatalf("xlsx export error = %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("xlsx file missing or empty: %v", err)
	}

	if _, err := execute(t, "export", "--format", "pdf"); err == nil {
		t.Error("unknown format should fail")
	}
}
