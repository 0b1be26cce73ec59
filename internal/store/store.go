// Package store persists scan results in SQLite: projects, per-file
// content hashes for incremental re-scan, and the catalog of extracted
// strings with their classification, key, and rewrite status.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Querier abstracts *sql.DB and *sql.Tx so store methods work in both contexts.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection for the string catalog.
type Store struct {
	db     *sql.DB
	q      Querier // active querier: db or tx
	dbPath string
}

// Project is a scanned codebase root.
type Project struct {
	Name      string
	RootPath  string
	ScannedAt string
}

// Row is one extracted string in the catalog. Status is "pending"
// until a rewrite applies it, then "applied"; drift-skipped records
// carry "skipped" with the reason.
type Row struct {
	ID             int64
	Project        string
	FilePath       string
	Line           int
	Column         int
	ByteOffset     int
	ByteLength     int
	Value          string
	Role           string
	ScreenGroup    string
	Confidence     float64
	StructuralType string
	ParameterName  string
	Key            string
	Replacement    string
	Status         string
	Reason         string
}

// cacheDir returns the default cache directory for databases.
func cacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	dir := filepath.Join(home, ".cache", "arbiter")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir cache: %w", err)
	}
	return dir, nil
}

// Open opens or creates a SQLite database for the given project.
func Open(project string) (*Store, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return OpenPath(filepath.Join(dir, project+".db"))
}

// OpenPath opens a SQLite database at the given path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory SQLite database (for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	s := &Store{db: db, dbPath: ":memory:"}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// WithTransaction executes fn within a single SQLite transaction.
// The callback receives a transaction-scoped Store; the receiver's q
// field is never mutated, so concurrent read-only callers are unaffected.
func (s *Store) WithTransaction(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx, dbPath: s.dbPath}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		name TEXT PRIMARY KEY,
		root_path TEXT NOT NULL,
		scanned_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS file_hashes (
		project TEXT NOT NULL REFERENCES projects(name) ON DELETE CASCADE,
		rel_path TEXT NOT NULL,
		xxh3 TEXT NOT NULL,
		PRIMARY KEY (project, rel_path)
	);

	CREATE TABLE IF NOT EXISTS strings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project TEXT NOT NULL REFERENCES projects(name) ON DELETE CASCADE,
		file_path TEXT NOT NULL,
		line INTEGER NOT NULL,
		col INTEGER NOT NULL,
		byte_offset INTEGER NOT NULL,
		byte_length INTEGER NOT NULL,
		value TEXT NOT NULL,
		role TEXT NOT NULL,
		screen_group TEXT DEFAULT '',
		confidence REAL DEFAULT 0,
		structural_type TEXT DEFAULT '',
		parameter_name TEXT DEFAULT '',
		key TEXT DEFAULT '',
		replacement TEXT DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT DEFAULT '',
		UNIQUE(project, file_path, byte_offset)
	);

	CREATE INDEX IF NOT EXISTS idx_strings_file ON strings(project, file_path);
	CREATE INDEX IF NOT EXISTS idx_strings_role ON strings(project, role);
	CREATE INDEX IF NOT EXISTS idx_strings_status ON strings(project, status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Now returns the current time in ISO 8601 format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
