package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the submission tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB, shared with the question bank.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SubmissionRepo returns a SubmissionRepo backed by this store.
func (s *Store) SubmissionRepo() SubmissionRepo {
	return &submissionRepo{db: s.db}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the submission tables.
func migrate(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS practice_sessions (
	session_id    TEXT PRIMARY KEY,
	category_id   TEXT NOT NULL,
	mode          TEXT NOT NULL,
	started_at    TEXT NOT NULL,
	ended_at      TEXT NOT NULL,
	total         INTEGER NOT NULL,
	correct       INTEGER NOT NULL,
	accuracy      REAL NOT NULL,
	duration_secs INTEGER NOT NULL,
	items         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_practice_sessions_ended ON practice_sessions(ended_at);`

	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create session tables: %w", err)
	}
	return nil
}

// Reset drops all recorded sessions. The question bank is left intact.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM practice_sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. GOGOV_DB environment variable
// 2. $XDG_DATA_HOME/gogov/gogov.db
// 3. ~/.local/share/gogov/gogov.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("GOGOV_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "gogov", "gogov.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
