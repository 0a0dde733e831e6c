// Package images stores uploaded photos on local disk and scales them for
// display.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedType is returned for files whose extension is not allowed.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("image too large")

	// ErrNotFound is returned when a stored photo is missing.
	ErrNotFound = errors.New("image not found")

	// ErrOutsideDir is returned for paths that do not point into the image directory.
	ErrOutsideDir = errors.New("path is outside the image directory")
)

// Options configures a Store.
type Options struct {
	Dir          string
	MaxSize      int64
	AllowedTypes []string
}

// Store writes photos into a single directory using their original base
// name. A second upload with the same name replaces the first.
type Store struct {
	dir     string
	maxSize int64
	allowed map[string]bool
}

// NewStore creates the image directory if needed.
func NewStore(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("image directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	allowed := make(map[string]bool, len(opts.AllowedTypes))
	for _, ext := range opts.AllowedTypes {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = true
		}
	}

	return &Store{
		dir:     opts.Dir,
		maxSize: opts.MaxSize,
		allowed: allowed,
	}, nil
}

// Dir returns the image directory.
func (s *Store) Dir() string {
	return s.dir
}

// Allowed reports whether filename has an accepted extension.
func (s *Store) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return s.allowed[ext]
}

// Upload is a photo written to a temporary file in the image directory.
// Nothing at Path changes until Commit.
type Upload struct {
	tmp  string
	path string
	done bool
}

// Path is where the photo will live once committed.
func (u *Upload) Path() string {
	return u.path
}

// Commit moves the photo into place, replacing any file with the same name.
func (u *Upload) Commit() error {
	if u.done {
		return nil
	}
	if err := os.Rename(u.tmp, u.path); err != nil {
		return fmt.Errorf("commit %s: %w", u.path, err)
	}
	u.done = true
	return nil
}

// Discard removes the temporary file. It is a no-op after Commit.
func (u *Upload) Discard() {
	if u.done {
		return
	}
	os.Remove(u.tmp)
	u.done = true
}

// Stage copies r into a temporary file next to its final location and
// checks the type and size limits. A rejected upload leaves the image
// directory untouched.
func (s *Store) Stage(filename string, r io.Reader) (*Upload, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return nil, fmt.Errorf("%w: empty file name", ErrUnsupportedType)
	}
	if !s.Allowed(name) {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedType, filepath.Ext(name))
	}

	f, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file in %s: %w", s.dir, err)
	}
	tmp := f.Name()

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.maxSize)
	}
	if err != nil {
		os.Remove(tmp)
		return nil, err
	}

	return &Upload{tmp: tmp, path: filepath.Join(s.dir, name)}, nil
}

// Save stages r and commits it at once, returning the stored path.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	u, err := s.Stage(filename, r)
	if err != nil {
		return "", err
	}
	if err := u.Commit(); err != nil {
		u.Discard()
		return "", err
	}
	return u.Path(), nil
}

// Remove deletes a stored photo. A missing file is not an error.
func (s *Store) Remove(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Open returns a reader for a stored photo.
func (s *Store) Open(path string) (*os.File, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return f, err
}

// Resize decodes the photo at path and returns it scaled to exactly
// width x height as JPEG.
func (s *Store) Resize(path string, width, height int) ([]byte, error) {
	f, err := s.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ResizeJPEG(f, width, height)
}

// ResizeJPEG decodes a jpeg, png or webp image from r, scales it to
// width x height and encodes it as JPEG.
func ResizeJPEG(r io.Reader, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resize: invalid size %dx%d", width, height)
	}

	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// resolve accepts a stored path (as returned by Save) or a bare file name
// and returns the file's location inside the image directory.
func (s *Store) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}
	name := filepath.Base(path)
	full := filepath.Join(s.dir, name)
	if filepath.Clean(path) != full && path != name {
		return "", fmt.Errorf("%w: %s", ErrOutsideDir, path)
	}
	return full, nil
}
