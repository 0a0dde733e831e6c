package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, maxSize int64) *Store {
	t.Helper()
	s, err := NewStore(Options{
		Dir:          filepath.Join(t.TempDir(), "images"),
		MaxSize:      maxSize,
		AllowedTypes: []string{"jpg", "jpeg", ".PNG", "webp"},
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestNewStore_CreatesDir(t *testing.T) {
	s := newTestStore(t, 0)
	info, err := os.Stat(s.Dir())
	if err != nil {
		t.Fatalf("image dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("image dir is not a directory")
	}
}

func TestSave_KeepsOriginalName(t *testing.T) {
	s := newTestStore(t, 0)

	path, err := s.Save("grandma.png", bytes.NewReader(pngBytes(t, 4, 4)))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(s.Dir(), "grandma.png"); path != want {
		t.Errorf("Save() path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestSave_SameNameOverwrites(t *testing.T) {
	s := newTestStore(t, 0)

	if _, err := s.Save("cat.jpg", strings.NewReader("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	path, err := s.Save("cat.jpg", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("file content = %q, want %q", got, "second")
	}
}

func TestSave_StripsDirectories(t *testing.T) {
	s := newTestStore(t, 0)

	path, err := s.Save("../../etc/evil.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Dir(path) != s.Dir() {
		t.Errorf("Save() wrote outside the image dir: %s", path)
	}
}

func TestSave_RejectsUnsupportedType(t *testing.T) {
	s := newTestStore(t, 0)

	for _, name := range []string{"anim.gif", "notes.txt", "noext", ""} {
		_, err := s.Save(name, strings.NewReader("x"))
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("Save(%q) error = %v, want ErrUnsupportedType", name, err)
		}
	}
}

func TestSave_TooLarge(t *testing.T) {
	s := newTestStore(t, 5)

	_, err := s.Save("big.png", strings.NewReader("0123456789"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Save() error = %v, want ErrTooLarge", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "big.png")); !os.IsNotExist(err) {
		t.Error("partial file left behind")
	}
	assertNoTempFiles(t, s)

	if _, err := s.Save("small.png", strings.NewReader("01234")); err != nil {
		t.Errorf("Save() at exactly the limit error = %v", err)
	}
}

func TestSave_RejectedUploadKeepsExistingFile(t *testing.T) {
	s := newTestStore(t, 10)

	path, err := s.Save("photo.jpg", strings.NewReader("small"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err = s.Save("photo.jpg", strings.NewReader(strings.Repeat("x", 100)))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Save() error = %v, want ErrTooLarge", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("existing photo removed by a rejected upload: %v", err)
	}
	if string(data) != "small" {
		t.Errorf("existing photo = %q, want %q", data, "small")
	}
	assertNoTempFiles(t, s)
}

func TestStage_CommitAndDiscard(t *testing.T) {
	s := newTestStore(t, 0)
	target := filepath.Join(s.Dir(), "dad.png")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	u, err := s.Stage("dad.png", strings.NewReader("new"))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if u.Path() != target {
		t.Errorf("Path() = %q, want %q", u.Path(), target)
	}
	if data, _ := os.ReadFile(target); string(data) != "old" {
		t.Errorf("target changed before Commit: %q", data)
	}
	u.Discard()
	if data, _ := os.ReadFile(target); string(data) != "old" {
		t.Errorf("target changed by Discard: %q", data)
	}
	assertNoTempFiles(t, s)

	u, err = s.Stage("dad.png", strings.NewReader("new"))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	u.Discard()
	if data, _ := os.ReadFile(target); string(data) != "new" {
		t.Errorf("target after Commit = %q, want %q", data, "new")
	}
	assertNoTempFiles(t, s)
}

func assertNoTempFiles(t *testing.T, s *Store) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(s.Dir(), ".upload-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t, 0)

	path, err := s.Save("a.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after Remove")
	}
	if err := s.Remove(path); err != nil {
		t.Errorf("Remove() of missing file error = %v, want nil", err)
	}
}

func TestRemove_OutsideDir(t *testing.T) {
	s := newTestStore(t, 0)

	err := s.Remove("/etc/passwd")
	if !errors.Is(err, ErrOutsideDir) {
		t.Errorf("Remove() error = %v, want ErrOutsideDir", err)
	}
}

func TestResize(t *testing.T) {
	s := newTestStore(t, 0)

	path, err := s.Save("wide.png", bytes.NewReader(pngBytes(t, 50, 30)))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := s.Resize(path, 80, 40)
	if err != nil {
		t.Fatalf("Resize() error = %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 40 {
		t.Errorf("resized bounds = %dx%d, want 80x40", b.Dx(), b.Dy())
	}
}

func TestResize_Errors(t *testing.T) {
	s := newTestStore(t, 0)

	if _, err := s.Resize(filepath.Join(s.Dir(), "missing.png"), 10, 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resize(missing) error = %v, want ErrNotFound", err)
	}

	path, err := s.Save("broken.png", strings.NewReader("not an image"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	_, err = s.Resize(path, 10, 10)
	if err == nil || !strings.Contains(err.Error(), "decode image") {
		t.Errorf("Resize(broken) error = %v, want decode image error", err)
	}

	if _, err := ResizeJPEG(bytes.NewReader(pngBytes(t, 2, 2)), 0, 10); err == nil {
		t.Error("ResizeJPEG() with zero width should fail")
	}
}
