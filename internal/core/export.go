package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const exportSheet = "Loved Ones"

// ExportFormat describes a download format.
type ExportFormat struct {
	Name        string
	Extension   string
	ContentType string
}

var exportFormats = map[string]ExportFormat{
	FormatCSV:  {Name: FormatCSV, Extension: ".csv", ContentType: "text/csv; charset=utf-8"},
	FormatXLSX: {Name: FormatXLSX, Extension: ".xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
}

// LookupExportFormat resolves a format name; "" means csv.
func LookupExportFormat(name string) (ExportFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = FormatCSV
	}
	f, ok := exportFormats[name]
	if !ok {
		return ExportFormat{}, fmt.Errorf("unknown export format %q (want csv or xlsx)", name)
	}
	return f, nil
}

// Export writes the records matching query to w.
func (s *Service) Export(w io.Writer, format, query string) error {
	f, err := LookupExportFormat(format)
	if err != nil {
		return err
	}
	t := s.ListRecords(query)

	switch f.Name {
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return WriteTable(w, t)
	}
}

// WriteXLSX writes t as a single-sheet workbook with the canonical header.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	header := make([]interface{}, 0, len(Columns()))
	for _, col := range Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}

	for i, rec := range t.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
		row := make([]interface{}, 0, len(Columns()))
		for _, v := range rec.Row() {
			row = append(row, v)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 38); err != nil {
		return fmt.Errorf("xlsx layout: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "B", "E", 22); err != nil {
		return fmt.Errorf("xlsx layout: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
