package core

import (
	"context"
	"errors"
	"fmt"
)

// Backend persists the whole table. Save always replaces what was there.
type Backend interface {
	Load(ctx context.Context) (Table, error)
	Save(ctx context.Context, t Table) error
	Name() string
}

// ParseError reports a backing file that could not be read as a table.
// The table returned alongside it is empty; the file's rows are not recovered.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid csv %s at line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("invalid csv %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err came from a corrupted backing file.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
