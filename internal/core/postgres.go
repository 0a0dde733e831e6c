package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

const lovedOnesSchema = `
CREATE TABLE IF NOT EXISTS loved_ones (
	id           TEXT PRIMARY KEY,
	position     INTEGER NOT NULL,
	name         TEXT NOT NULL,
	date_current TEXT NOT NULL DEFAULT '',
	date_special TEXT NOT NULL DEFAULT '',
	image_path   TEXT NOT NULL DEFAULT ''
)`

var lovedOnesCopyColumns = []string{"id", "position", "name", "date_current", "date_special", "image_path"}

// PostgresBackend keeps the table in the loved_ones table. The position
// column preserves insertion order.
type PostgresBackend struct {
	db TxBeginner
}

// NewPostgresBackend creates the loved_ones table if needed.
func NewPostgresBackend(ctx context.Context, db TxBeginner) (*PostgresBackend, error) {
	if _, err := db.Exec(ctx, lovedOnesSchema); err != nil {
		return nil, fmt.Errorf("create loved_ones table: %w", err)
	}
	return &PostgresBackend{db: db}, nil
}

// Name identifies the backend in logs.
func (b *PostgresBackend) Name() string {
	return "postgres:loved_ones"
}

// Load reads every row ordered by position.
func (b *PostgresBackend) Load(ctx context.Context) (Table, error) {
	rows, err := b.db.Query(ctx,
		`SELECT id, name, date_current, date_special, image_path FROM loved_ones ORDER BY position`)
	if err != nil {
		return NewTable(), fmt.Errorf("query loved_ones: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var rec Record
		err := row.Scan(&rec.ID, &rec.Name, &rec.CurrentDate, &rec.SpecialDate, &rec.ImagePath)
		return rec, err
	})
	if err != nil {
		return NewTable(), fmt.Errorf("scan loved_ones: %w", err)
	}

	t := NewTable()
	t.Records = append(t.Records, records...)
	return t, nil
}

// Save replaces the stored table in a single transaction.
func (b *PostgresBackend) Save(ctx context.Context, t Table) error {
	return pgx.BeginFunc(ctx, b.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM loved_ones`); err != nil {
			return fmt.Errorf("clear loved_ones: %w", err)
		}

		if t.Len() == 0 {
			return nil
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"loved_ones"},
			lovedOnesCopyColumns,
			pgx.CopyFromSlice(t.Len(), func(i int) ([]any, error) {
				rec := t.Records[i]
				return []any{rec.ID, i, rec.Name, rec.CurrentDate, rec.SpecialDate, rec.ImagePath}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy loved_ones: %w", err)
		}
		return nil
	})
}
