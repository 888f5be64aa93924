package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a doctype does not exist in the store.
var ErrNotFound = errors.New("doctype not found")

// Store is the interface for reading and writing doctype metadata.
type Store interface {
	// GetDocType returns the metadata for a doctype with fields in
	// metadata order. Returns ErrNotFound for an unknown name.
	GetDocType(ctx context.Context, name string) (*DocType, error)

	// PutDocType inserts or replaces a doctype and its fields.
	PutDocType(ctx context.Context, dt *DocType) error

	// ListDocTypes returns all doctype names in sorted order.
	ListDocTypes(ctx context.Context) ([]string, error)

	// PermLevelRules returns the permission-level rules for a doctype.
	// An empty slice means no explicit rules exist.
	PermLevelRules(ctx context.Context, doctype string) ([]PermLevelRule, error)

	// PutPermLevelRule inserts or replaces one permission-level rule.
	PutPermLevelRule(ctx context.Context, rule PermLevelRule) error
}

// SQLiteStore implements Store on the doctypes/docfields/permlevels tables.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) GetDocType(ctx context.Context, name string) (*DocType, error) {
	dt := &DocType{}
	err := s.db.QueryRowContext(ctx,
		`SELECT name, module, label FROM doctypes WHERE name = ?`, name,
	).Scan(&dt.Name, &dt.Module, &dt.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying doctype %s: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT fieldname, label, fieldtype, options, reqd, dflt, permlevel,
			hidden, read_only, in_list_view, placeholder, idx
		FROM docfields
		WHERE doctype = ?
		ORDER BY idx`, name)
	if err != nil {
		return nil, fmt.Errorf("querying docfields for %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		f := &DocField{}
		err := rows.Scan(
			&f.Fieldname, &f.Label, &f.Fieldtype, &f.Options, &f.Reqd,
			&f.Default, &f.Permlevel, &f.Hidden, &f.ReadOnly,
			&f.InListView, &f.Placeholder, &f.Idx,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning docfield: %w", err)
		}
		dt.Fields = append(dt.Fields, f)
	}
	return dt, rows.Err()
}

func (s *SQLiteStore) PutDocType(ctx context.Context, dt *DocType) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO doctypes (name, module, label) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET module = excluded.module, label = excluded.label`,
		dt.Name, dt.Module, dt.Label)
	if err != nil {
		return fmt.Errorf("upserting doctype %s: %w", dt.Name, err)
	}

	// Replace the full field set; partial field updates are not supported.
	if _, err := tx.ExecContext(ctx, `DELETE FROM docfields WHERE doctype = ?`, dt.Name); err != nil {
		return fmt.Errorf("clearing docfields for %s: %w", dt.Name, err)
	}
	for i, f := range dt.Fields {
		idx := f.Idx
		if idx == 0 {
			idx = i + 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO docfields (
				doctype, fieldname, label, fieldtype, options, reqd, dflt,
				permlevel, hidden, read_only, in_list_view, placeholder, idx
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			dt.Name, f.Fieldname, f.Label, f.Fieldtype, f.Options, f.Reqd,
			f.Default, f.Permlevel, f.Hidden, f.ReadOnly, f.InListView,
			f.Placeholder, idx)
		if err != nil {
			return fmt.Errorf("inserting docfield %s.%s: %w", dt.Name, f.Fieldname, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListDocTypes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM doctypes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing doctypes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning doctype name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) PermLevelRules(ctx context.Context, doctype string) ([]PermLevelRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doctype, permlevel, can_read, can_write
		FROM permlevels WHERE doctype = ? ORDER BY permlevel`, doctype)
	if err != nil {
		return nil, fmt.Errorf("querying permlevels for %s: %w", doctype, err)
	}
	defer rows.Close()

	var rules []PermLevelRule
	for rows.Next() {
		var r PermLevelRule
		if err := rows.Scan(&r.Doctype, &r.Permlevel, &r.CanRead, &r.CanWrite); err != nil {
			return nil, fmt.Errorf("scanning permlevel rule: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *SQLiteStore) PutPermLevelRule(ctx context.Context, rule PermLevelRule) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO permlevels (doctype, permlevel, can_read, can_write)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (doctype, permlevel) DO UPDATE SET
			can_read = excluded.can_read, can_write = excluded.can_write`,
		rule.Doctype, rule.Permlevel, rule.CanRead, rule.CanWrite)
	if err != nil {
		return fmt.Errorf("upserting permlevel rule %s/%d: %w", rule.Doctype, rule.Permlevel, err)
	}
	return nil
}
