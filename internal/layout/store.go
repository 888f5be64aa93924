package layout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no stored layout exists for a
// (doctype, type) pair.
var ErrNotFound = errors.New("layout not found")

// Record is a persisted layout override for one (doctype, type) pair.
// Layout holds the serialized tree JSON.
type Record struct {
	Doctype  string    `json:"dt"`
	Type     string    `json:"type"`
	Layout   string    `json:"layout"`
	Modified time.Time `json:"modified"`
}

// Store is the interface for reading and writing stored layout records.
// The resolver only reads; the admin save path writes.
type Store interface {
	// Get returns the stored layout for (doctype, layoutType), or
	// ErrNotFound.
	Get(ctx context.Context, doctype, layoutType string) (*Record, error)

	// Put inserts or replaces a stored layout record.
	Put(ctx context.Context, rec *Record) error
}

// SQLiteStore implements Store on the layouts table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, doctype, layoutType string) (*Record, error) {
	rec := &Record{}
	err := s.db.QueryRowContext(ctx,
		`SELECT dt, type, layout, modified FROM layouts WHERE dt = ? AND type = ?`,
		doctype, layoutType,
	).Scan(&rec.Doctype, &rec.Type, &rec.Layout, &rec.Modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, doctype, layoutType)
	}
	if err != nil {
		return nil, fmt.Errorf("querying layout %s/%s: %w", doctype, layoutType, err)
	}
	return rec, nil
}

func (s *SQLiteStore) Put(ctx context.Context, rec *Record) error {
	modified := rec.Modified
	if modified.IsZero() {
		modified = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO layouts (dt, type, layout, modified) VALUES (?, ?, ?, ?)
		ON CONFLICT (dt, type) DO UPDATE SET
			layout = excluded.layout, modified = excluded.modified`,
		rec.Doctype, rec.Type, rec.Layout, modified)
	if err != nil {
		return fmt.Errorf("upserting layout %s/%s: %w", rec.Doctype, rec.Type, err)
	}
	return nil
}
