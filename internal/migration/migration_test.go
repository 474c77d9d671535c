package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/chime/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyEmbeddedSQLite(t *testing.T) {
	db := setupTestDB(t)
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	runner := NewRunner(db, sub, SQLite)

	n, err := runner.Apply(nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if n < 1 {
		t.Fatalf("expected at least one migration applied, got %d", n)
	}
	if _, err := db.Exec("INSERT INTO kv (key, value) VALUES ('theme', 'dark')"); err != nil {
		t.Errorf("kv table not usable: %v", err)
	}

	again, err := runner.Apply(nil)
	if err != nil || again != 0 {
		t.Errorf("second Apply = %d, %v; want 0, nil", again, err)
	}
}

func TestApplyInOrder(t *testing.T) {
	db := setupTestDB(t)
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("ALTER TABLE a ADD COLUMN b TEXT;")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"README.md":      {Data: []byte("ignored")},
	}
	runner := NewRunner(db, fsys, SQLite)

	var logs []string
	n, err := runner.Apply(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 migrations, got %d", n)
	}
	if len(logs) != 2 || !strings.Contains(logs[0], "first") {
		t.Errorf("unexpected log lines: %v", logs)
	}
	v, _ := runner.CurrentVersion()
	if v != 2 {
		t.Errorf("CurrentVersion() = %d, want 2", v)
	}
}

func TestApplyRollsBackFailure(t *testing.T) {
	db := setupTestDB(t)
	fsys := fstest.MapFS{
		"001_ok.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"002_bad.sql": {Data: []byte("THIS IS NOT SQL;")},
	}
	runner := NewRunner(db, fsys, SQLite)

	n, err := runner.Apply(nil)
	if err == nil {
		t.Fatal("expected error from bad migration")
	}
	if n != 1 {
		t.Errorf("expected 1 applied before failure, got %d", n)
	}
	v, _ := runner.CurrentVersion()
	if v != 1 {
		t.Errorf("version should stay at 1, got %d", v)
	}
}

func TestApplyRejectsNewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
	}, SQLite)
	if _, err := runner.CurrentVersion(); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (9)"); err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Apply(nil); err == nil || !strings.Contains(err.Error(), "newer") {
		t.Errorf("expected newer-version error, got %v", err)
	}
}

func TestReadMigrationsInvalidNames(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no underscore", fstest.MapFS{"001.sql": {Data: []byte("")}}},
		{"not a number", fstest.MapFS{"abc_x.sql": {Data: []byte("")}}},
		{"zero version", fstest.MapFS{"000_x.sql": {Data: []byte("")}}},
		{"duplicate", fstest.MapFS{
			"001_a.sql": {Data: []byte("")},
			"01_b.sql":  {Data: []byte("")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), tt.fsys, SQLite)
			if _, err := runner.ReadMigrations(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
