package core

import (
	"errors"
	"reflect"
	"testing"
)

func names(t Table) []string {
	out := make([]string, 0, t.Len())
	for _, rec := range t.Records {
		out = append(out, rec.Name)
	}
	return out
}

func tableOf(ns ...string) Table {
	t := NewTable()
	for i, n := range ns {
		t = t.Append(Record{ID: string(rune('a' + i)), Name: n, CurrentDate: "2024-01-01", SpecialDate: "2024-06-01"})
	}
	return t
}

func TestNewTable_FixedColumns(t *testing.T) {
	tbl := NewTable()
	want := []string{"ID", "Name", "Current Date", "Special Date", "Image"}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Errorf("Columns = %v, want %v", tbl.Columns, want)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
}

func TestTable_AppendDoesNotMutate(t *testing.T) {
	orig := tableOf("Alice")
	next := orig.Append(Record{ID: "z", Name: "Bob"})

	if orig.Len() != 1 {
		t.Errorf("original Len() = %d, want 1", orig.Len())
	}
	if got := names(next); !reflect.DeepEqual(got, []string{"Alice", "Bob"}) {
		t.Errorf("names = %v, want [Alice Bob]", got)
	}
}

func TestTable_Delete(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		index int
		want  []string
	}{
		{"first", []string{"A", "B", "C"}, 0, []string{"B", "C"}},
		{"middle", []string{"A", "B", "C"}, 1, []string{"A", "C"}},
		{"last", []string{"A", "B", "C"}, 2, []string{"A", "B"}},
		{"only row", []string{"A"}, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := tableOf(tt.rows...)
			got, err := orig.Delete(tt.index)
			if err != nil {
				t.Fatalf("Delete(%d) error = %v", tt.index, err)
			}
			if !reflect.DeepEqual(names(got), tt.want) {
				t.Errorf("names = %v, want %v", names(got), tt.want)
			}
			if !reflect.DeepEqual(got.Columns, Columns()) {
				t.Errorf("Columns = %v, want %v", got.Columns, Columns())
			}
			if !reflect.DeepEqual(names(orig), tt.rows) {
				t.Errorf("receiver modified: %v", names(orig))
			}
		})
	}
}

func TestTable_DeleteOutOfRange(t *testing.T) {
	tbl := tableOf("A")
	for _, idx := range []int{-1, 1, 5} {
		if _, err := tbl.Delete(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Delete(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
}

func TestTable_Search(t *testing.T) {
	tbl := tableOf("Alice", "alice2", "Bob")

	tests := []struct {
		query string
		want  []string
	}{
		{"ali", []string{"Alice", "alice2"}},
		{"ALI", []string{"Alice", "alice2"}},
		{"  bob ", []string{"Bob"}},
		{"2", []string{"alice2"}},
		{"zed", []string{}},
		{"", []string{"Alice", "alice2", "Bob"}},
	}

	for _, tt := range tests {
		got := tbl.Search(tt.query)
		if !reflect.DeepEqual(names(got), tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, names(got), tt.want)
		}
	}
}

func TestTable_IndexOf(t *testing.T) {
	tbl := tableOf("A", "B")
	if got := tbl.IndexOf("b"); got != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", got)
	}
	if got := tbl.IndexOf("missing"); got != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", got)
	}
}

func TestTable_ImageReferences(t *testing.T) {
	tbl := NewTable().
		Append(Record{ID: "1", Name: "A", ImagePath: "images/a.png"}).
		Append(Record{ID: "2", Name: "B", ImagePath: "images/a.png"}).
		Append(Record{ID: "3", Name: "C"})

	if got := tbl.ImageReferences("images/a.png"); got != 2 {
		t.Errorf("ImageReferences(a.png) = %d, want 2", got)
	}
	if got := tbl.ImageReferences(""); got != 0 {
		t.Errorf("ImageReferences(\"\") = %d, want 0", got)
	}
}

func TestBuildHeaderIndex_Aliases(t *testing.T) {
	tests := []struct {
		header []string
		col    string
		want   int
	}{
		{[]string{"Name", "currentdate", "Special Date", "Image"}, ColumnCurrentDate, 1},
		{[]string{"Name", "Birthdate", "Special Date", "Image"}, ColumnCurrentDate, 1},
		{[]string{" name ", "Current Date"}, ColumnName, 0},
		{[]string{"Extra", "ID", "Name"}, ColumnID, 1},
		{[]string{"Name", "image path"}, ColumnImage, 1},
	}

	for _, tt := range tests {
		idx := BuildHeaderIndex(tt.header)
		got := idx[tt.col]
		if len(got) == 0 || got[0] != tt.want {
			t.Errorf("BuildHeaderIndex(%v)[%s] = %v, want first %d", tt.header, tt.col, got, tt.want)
		}
	}

	if BuildHeaderIndex([]string{"Extra"}).Has("Extra") {
		t.Error("unknown header should not be indexed")
	}
}

func TestHeaderIndex_GetFirstNonEmpty(t *testing.T) {
	idx := BuildHeaderIndex([]string{"Name", "Birthdate", "Special Date", "Image", "currentdate"})

	if got := idx[ColumnCurrentDate]; len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("Current Date positions = %v, want [1 4]", got)
	}

	tests := []struct {
		row  []string
		want string
	}{
		{[]string{"Alice", "", "b", "", "2024-01-01"}, "2024-01-01"},
		{[]string{"Alice", "1990-05-05", "b", "", ""}, "1990-05-05"},
		{[]string{"Alice", "first", "b", "", "second"}, "first"},
		{[]string{"Alice", "", "b", "", ""}, ""},
		{[]string{"Alice", ""}, ""},
	}
	for _, tt := range tests {
		if got := idx.Get(tt.row, ColumnCurrentDate); got != tt.want {
			t.Errorf("Get(%v) = %q, want %q", tt.row, got, tt.want)
		}
	}
}
