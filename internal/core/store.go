package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrRecordNotFound is returned when no record has the requested ID.
var ErrRecordNotFound = errors.New("record not found")

// Store holds the table in memory and writes it through to a Backend after
// every mutation. Create one per process and share it.
type Store struct {
	backend Backend

	mu          sync.RWMutex
	table       Table
	loadWarning error
}

// NewStore returns a store with an empty table. Call Load to read the backend.
func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		table:   NewTable(),
	}
}

// Backend returns the underlying persistence backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Load replaces the in-memory table with the backend's contents.
// The store always ends up holding a valid table: on error it is empty, and
// the error is also kept for LoadWarning.
func (s *Store) Load(ctx context.Context) (Table, error) {
	t, err := s.backend.Load(ctx)
	if err != nil {
		t = NewTable()
		slog.Warn("record store load failed, starting empty",
			"backend", s.backend.Name(),
			"error", err,
		)
	}

	s.mu.Lock()
	s.table = t
	s.loadWarning = err
	s.mu.Unlock()

	return t.Clone(), err
}

// LoadWarning returns the error from the last Load, if any.
func (s *Store) LoadWarning() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadWarning
}

// Snapshot returns a copy of the current table.
func (s *Store) Snapshot() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// Get returns the record with id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.table.IndexOf(id)
	if i < 0 {
		return Record{}, false
	}
	return s.table.Records[i], true
}

// Append adds rec at the end and saves. An ID is generated when rec has
// none. No field validation happens here.
func (s *Store) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table.IndexOf(rec.ID) >= 0 {
		return Record{}, fmt.Errorf("append record %s: duplicate id", rec.ID)
	}

	next := s.table.Append(rec)
	if err := s.commit(ctx, next); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes the record with id and saves.
func (s *Store) Delete(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.table.IndexOf(id)
	if i < 0 {
		return Record{}, fmt.Errorf("delete %s: %w", id, ErrRecordNotFound)
	}
	return s.deleteAt(ctx, i)
}

// DeleteAt removes the record at index and saves. Positions shift after
// every delete, so prefer Delete when an ID is available.
func (s *Store) DeleteAt(ctx context.Context, index int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteAt(ctx, index)
}

func (s *Store) deleteAt(ctx context.Context, index int) (Record, error) {
	next, err := s.table.Delete(index)
	if err != nil {
		return Record{}, err
	}
	removed := s.table.Records[index]
	if err := s.commit(ctx, next); err != nil {
		return Record{}, err
	}
	return removed, nil
}

// Save writes the current table to the backend, overwriting it.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	t := s.table.Clone()
	s.mu.RUnlock()

	if err := s.backend.Save(ctx, t); err != nil {
		return fmt.Errorf("save %s: %w", s.backend.Name(), err)
	}
	return nil
}

// commit persists next and only then makes it the in-memory table, so a
// failed write leaves memory and disk in agreement. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next Table) error {
	if err := s.backend.Save(ctx, next); err != nil {
		return fmt.Errorf("save %s: %w", s.backend.Name(), err)
	}
	s.table = next
	return nil
}
