package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
	"github.com/cognicore/audimatch/pkg/audimatch/store"
)

// Store keeps an audience catalog in a SQLite database
type Store struct {
	db *sql.DB
}

var (
	_ store.Source = (*Store)(nil)
	_ store.Writer = (*Store)(nil)
)

// OpenSQLite opens a SQLite database with WAL mode enabled and makes sure
// the catalog schema exists.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS audiences (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	keywords TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_audiences_name ON audiences(name);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Records returns every stored record in catalog order
func (s *Store) Records(ctx context.Context) ([]audience.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, keywords FROM audiences ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []audience.Record
	for rows.Next() {
		var r audience.Record
		if err := rows.Scan(&r.Name, &r.Keywords); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ReplaceRecords swaps the stored catalog for records in one transaction
func (s *Store) ReplaceRecords(ctx context.Context, records []audience.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM audiences`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO audiences (position, name, keywords) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Name, r.Keywords); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the number of stored records
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audiences`).Scan(&n)
	return n, err
}
