package storage

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/chime/internal/logger"
	"github.com/julianstephens/chime/internal/migration"
	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Open creates the database file if needed and applies pending migrations.
func (s *SQLiteStore) Open() error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Another chime process may hold the write lock briefly.
	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// modernc serializes writers; one connection avoids SQLITE_BUSY between
	// the scheduler goroutine and the UI.
	db.SetMaxOpenConns(1)

	runner, err := newRunner(db, "sqlite", migration.SQLite)
	if err != nil {
		db.Close()
		return err
	}
	if _, err := runner.Apply(func(msg string) {
		logger.Debug(msg)
	}); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) Load() models.Snapshot {
	if s.db == nil {
		logger.Warn("SQLite store not open, using defaults", "path", s.path)
		return models.DefaultSnapshot()
	}
	values, err := readKV(s.db)
	if err != nil {
		logger.Warn("Failed to read storage, using defaults", "path", s.path, "error", err)
		return models.DefaultSnapshot()
	}
	return Decode(values)
}

func (s *SQLiteStore) Save(snap models.Snapshot) error {
	if s.db == nil {
		return fmt.Errorf("storage not open")
	}
	values, err := Encode(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range values {
		if _, err := stmt.Exec(k, v, now); err != nil {
			return fmt.Errorf("failed to write %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Revision() (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("storage not open")
	}
	values, err := readKV(s.db)
	if err != nil {
		return "", err
	}
	return revisionOf(values), nil
}

func (s *SQLiteStore) GetConfigPath() string { return s.path }
func (s *SQLiteStore) Backend() string       { return BackendSQLite }

// GetDB returns the open connection, or nil before Open.
func (s *SQLiteStore) GetDB() *sql.DB { return s.db }

func (s *SQLiteStore) Runner() (*migration.Runner, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database is not open")
	}
	return newRunner(s.db, "sqlite", migration.SQLite)
}

func newRunner(db *sql.DB, dir string, dialect migration.Dialect) (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", dir, err)
	}
	return migration.NewRunner(db, subFS, dialect), nil
}

func readKV(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query("SELECT key, value FROM kv")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, rows.Err()
}
