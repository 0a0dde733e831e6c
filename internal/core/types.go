package core

import (
	"strings"
)

// Canonical column headers, in the order they are written.
const (
	ColumnID          = "ID"
	ColumnName        = "Name"
	ColumnCurrentDate = "Current Date"
	ColumnSpecialDate = "Special Date"
	ColumnImage       = "Image"
)

// Columns returns the fixed column set of every table.
func Columns() []string {
	return []string{ColumnID, ColumnName, ColumnCurrentDate, ColumnSpecialDate, ColumnImage}
}

// headerAliases maps lowercased, trimmed header cells to canonical columns.
// Older files used "currentdate" or "Birthdate" for the second column.
var headerAliases = map[string]string{
	"id":           ColumnID,
	"name":         ColumnName,
	"current date": ColumnCurrentDate,
	"currentdate":  ColumnCurrentDate,
	"current_date": ColumnCurrentDate,
	"birthdate":    ColumnCurrentDate,
	"birth date":   ColumnCurrentDate,
	"special date": ColumnSpecialDate,
	"specialdate":  ColumnSpecialDate,
	"special_date": ColumnSpecialDate,
	"image":        ColumnImage,
	"image path":   ColumnImage,
	"image_path":   ColumnImage,
}

// CanonicalColumn returns the canonical column for a header cell.
// Returns false for headers that are not part of the schema.
func CanonicalColumn(header string) (string, bool) {
	col, ok := headerAliases[strings.ToLower(strings.TrimSpace(header))]
	return col, ok
}

// HeaderIndex maps canonical column names to every position they occupy in
// a CSV row, in header order.
//
// Files written by the first version of the program carry both an empty
// "Birthdate" column and a trailing "currentdate" column holding the value,
// so one canonical column can appear more than once.
type HeaderIndex map[string][]int

// BuildHeaderIndex normalizes a header row; unknown headers are ignored.
func BuildHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		col, ok := CanonicalColumn(h)
		if !ok {
			continue
		}
		idx[col] = append(idx[col], i)
	}
	return idx
}

// Has reports whether col appears in the header.
func (h HeaderIndex) Has(col string) bool {
	return len(h[col]) > 0
}

// Get returns the first non-empty value of col in row, or "" when the
// column is absent or empty everywhere.
func (h HeaderIndex) Get(row []string, col string) string {
	for _, i := range h[col] {
		if i < len(row) && row[i] != "" {
			return row[i]
		}
	}
	return ""
}

// Record is one loved-one entry.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CurrentDate string `json:"current_date"`
	SpecialDate string `json:"special_date"`
	ImagePath   string `json:"image,omitempty"`
}

// HasImage reports whether the record references a stored photo.
func (r Record) HasImage() bool {
	return r.ImagePath != ""
}

// Row returns the record's values in Columns() order.
func (r Record) Row() []string {
	return []string{r.ID, r.Name, r.CurrentDate, r.SpecialDate, r.ImagePath}
}

// RecordInput is what a user submits to create a record.
type RecordInput struct {
	Name        string `json:"name" validate:"required"`
	CurrentDate string `json:"current_date" validate:"required"`
	SpecialDate string `json:"special_date" validate:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (in RecordInput) Normalize() RecordInput {
	return RecordInput{
		Name:        strings.TrimSpace(in.Name),
		CurrentDate: strings.TrimSpace(in.CurrentDate),
		SpecialDate: strings.TrimSpace(in.SpecialDate),
	}
}
