package core

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// CSVBackend keeps the table in a flat CSV file with a header row.
type CSVBackend struct {
	path string
}

// NewCSVBackend returns a backend for the file at path. The file does not
// need to exist yet.
func NewCSVBackend(path string) *CSVBackend {
	return &CSVBackend{path: path}
}

// Name identifies the backend in logs.
func (b *CSVBackend) Name() string {
	return "csv:" + b.path
}

// Path returns the backing file location.
func (b *CSVBackend) Path() string {
	return b.path
}

// Load reads the backing file. A missing or zero-length file is an empty
// table. A file that cannot be parsed yields an empty table and a *ParseError.
func (b *CSVBackend) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return NewTable(), err
	}

	f, err := os.Open(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewTable(), nil
	}
	if err != nil {
		return NewTable(), fmt.Errorf("open %s: %w", b.path, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = b.path
		}
		return NewTable(), err
	}
	return t, nil
}

// Save overwrites the backing file with t.
func (b *CSVBackend) Save(ctx context.Context, t Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	f, err := os.Create(b.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", b.path, err)
	}

	w := bufio.NewWriter(f)
	if err := WriteTable(w, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", b.path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", b.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", b.path, err)
	}
	return nil
}

// ReadTable parses CSV from r. Headers are normalized with CanonicalColumn;
// rows without an ID get a fresh one. Every row must have as many fields as
// the header.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(wrapForParsing(r))
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return NewTable(), nil
	}
	if err != nil {
		return NewTable(), parseErr(err)
	}

	idx := BuildHeaderIndex(header)
	if !idx.Has(ColumnName) {
		return NewTable(), &ParseError{Line: 1, Err: errors.New("missing required column \"Name\"")}
	}

	t := NewTable()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return NewTable(), parseErr(err)
		}

		rec := Record{
			ID:          strings.TrimSpace(idx.Get(row, ColumnID)),
			Name:        idx.Get(row, ColumnName),
			CurrentDate: idx.Get(row, ColumnCurrentDate),
			SpecialDate: idx.Get(row, ColumnSpecialDate),
			ImagePath:   idx.Get(row, ColumnImage),
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		t.Records = append(t.Records, rec)
	}

	return t, nil
}

// WriteTable writes the canonical header followed by one row per record.
func WriteTable(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return err
	}
	for _, rec := range t.Records {
		if err := cw.Write(rec.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseErr(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Err: err}
}
