package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIndexOutOfRange is returned by positional deletes with an invalid index.
var ErrIndexOutOfRange = errors.New("row index out of range")

// Table is the ordered collection of records plus its fixed column set.
// Operations return a new Table and never modify the receiver.
type Table struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// NewTable returns an empty table with the fixed column set.
func NewTable() Table {
	return Table{Columns: Columns(), Records: []Record{}}
}

// Len returns the number of records.
func (t Table) Len() int {
	return len(t.Records)
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{
		Columns: make([]string, len(t.Columns)),
		Records: make([]Record, len(t.Records)),
	}
	copy(out.Columns, t.Columns)
	copy(out.Records, t.Records)
	return out
}

// Append returns a new table with rec at the end.
func (t Table) Append(rec Record) Table {
	out := t.Clone()
	out.Records = append(out.Records, rec)
	return out
}

// Delete returns a new table without the row at index.
// Remaining rows keep their relative order.
func (t Table) Delete(index int) (Table, error) {
	if index < 0 || index >= len(t.Records) {
		return t, fmt.Errorf("delete row %d of %d: %w", index, len(t.Records), ErrIndexOutOfRange)
	}
	out := t.Clone()
	out.Records = append(out.Records[:index], out.Records[index+1:]...)
	return out, nil
}

// IndexOf returns the position of the record with id, or -1.
func (t Table) IndexOf(id string) int {
	for i, rec := range t.Records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// Search returns the records whose name contains query, ignoring case.
// An empty query matches everything.
func (t Table) Search(query string) Table {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return t.Clone()
	}

	out := Table{Columns: append([]string(nil), t.Columns...), Records: []Record{}}
	for _, rec := range t.Records {
		if strings.Contains(strings.ToLower(rec.Name), query) {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

// ImageReferences counts how many records point at path.
func (t Table) ImageReferences(path string) int {
	if path == "" {
		return 0
	}
	n := 0
	for _, rec := range t.Records {
		if rec.ImagePath == path {
			n++
		}
	}
	return n
}
