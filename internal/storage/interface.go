// Package storage persists the chime snapshot under five keys: version,
// reminders, notes, logs and theme. Every backend writes all keys together.
package storage

import (
	"database/sql"

	"github.com/julianstephens/chime/internal/migration"
	"github.com/julianstephens/chime/internal/models"
)

type Provider interface {
	Open() error
	Close() error

	// Load never fails. Missing or unreadable data yields the default
	// snapshot and a warning in the log.
	Load() models.Snapshot
	// Save replaces every key in a single write.
	Save(models.Snapshot) error
	// Revision identifies the stored content. It changes whenever a Save,
	// from this process or another one, writes different data.
	Revision() (string, error)

	// GetConfigPath identifies the store without leaking credentials.
	GetConfigPath() string
	Backend() string
}

// SQLProvider is implemented by the database-backed stores.
type SQLProvider interface {
	Provider
	GetDB() *sql.DB
	Runner() (*migration.Runner, error)
}

const (
	BackendSQLite   = "sqlite"
	BackendJSON     = "json"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)
