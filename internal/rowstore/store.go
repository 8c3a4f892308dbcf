// Package rowstore persists named row sets in SQLite.
package rowstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/domrows/internal/domrow"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a named row set does not exist.
var ErrNotFound = errors.New("row set not found")

// Summary describes a stored row set without its rows.
type Summary struct {
	Name      string    `json:"name"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a SQLite-backed row set store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls
	// and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS rowsets (
			name TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			row_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rows (
			rowset TEXT NOT NULL REFERENCES rowsets(name) ON DELETE CASCADE,
			id INTEGER NOT NULL,
			xpath TEXT NOT NULL,
			attributes TEXT NOT NULL,
			contents TEXT,
			PRIMARY KEY (rowset, id)
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Save stores rows under name, replacing any existing row set of that name.
func (s *Store) Save(ctx context.Context, name string, rows []domrow.Row) error {
	if name == "" {
		return errors.New("row set name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rows WHERE rowset = ?`, name); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO rowsets (name, created_at, row_count) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			created_at=excluded.created_at,
			row_count=excluded.row_count
	`, name, time.Now().UTC().UnixMilli(), len(rows))
	if err != nil {
		return fmt.Errorf("save row set: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rows (rowset, id, xpath, attributes, contents)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		var contents sql.NullString
		if r.Contents != nil {
			contents = sql.NullString{String: *r.Contents, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, name, r.ID, r.Path, r.Attributes, contents); err != nil {
			return fmt.Errorf("insert row %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Load returns the rows of a stored row set ordered by id.
func (s *Store) Load(ctx context.Context, name string) ([]domrow.Row, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM rowsets WHERE name = ?`, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup row set: %w", err)
	}

	rs, err := s.db.QueryContext(ctx, `
		SELECT id, xpath, attributes, contents FROM rows
		WHERE rowset = ? ORDER BY id
	`, name)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rs.Close()

	rows := []domrow.Row{}
	for rs.Next() {
		var r domrow.Row
		var contents sql.NullString
		if err := rs.Scan(&r.ID, &r.Path, &r.Attributes, &contents); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if contents.Valid {
			r.Contents = domrow.StringPtr(contents.String)
		}
		rows = append(rows, r)
	}
	return rows, rs.Err()
}

// List returns summaries of all stored row sets, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rs, err := s.db.QueryContext(ctx, `
		SELECT name, row_count, created_at FROM rowsets
		ORDER BY created_at DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query row sets: %w", err)
	}
	defer rs.Close()

	out := []Summary{}
	for rs.Next() {
		var sum Summary
		var created int64
		if err := rs.Scan(&sum.Name, &sum.RowCount, &created); err != nil {
			return nil, fmt.Errorf("scan row set: %w", err)
		}
		sum.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, sum)
	}
	return out, rs.Err()
}

// Delete removes a row set and its rows.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rows WHERE rowset = ?`, name); err != nil {
		return fmt.Errorf("delete rows: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM rowsets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete row set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return tx.Commit()
}
