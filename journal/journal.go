// Package journal persists the visit journal in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/krisalay/navcache/types"
)

// DefaultLimit is how many visits Recent returns for a non-positive limit.
const DefaultLimit = 20

// Store is a SQLite-backed visit journal. It implements types.VisitStore.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens a journal database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging journal: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory journal (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory journal: %w", err)
	}
	// every pooled connection would get its own empty database
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: ":memory:"}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    route TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    visited_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_visits_route ON visits(route);
`

// Path returns where the journal lives.
func (s *Store) Path() string { return s.path }

// Append records one visit.
func (s *Store) Append(ctx context.Context, v types.Visit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visits (id, route, title, visited_at) VALUES (?, ?, ?, ?)`,
		v.ID, string(v.Route), v.Title, v.VisitedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("appending visit %s: %w", v.ID, err)
	}
	return nil
}

// Recent returns up to limit visits, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.Visit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, route, title, visited_at FROM visits ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	var visits []types.Visit
	for rows.Next() {
		var (
			v     types.Visit
			route string
			at    string
		)
		if err := rows.Scan(&v.ID, &route, &v.Title, &at); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.Route = types.Route(route)
		if v.VisitedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parsing visit time %q: %w", at, err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Count returns how many visits are recorded.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
