// Package sqlite implements the store ports on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/SebastinST/tms-backend/internal/store"
)

// Backend is a SQLite-backed implementation of store.Backend.
type Backend struct {
	db   *sql.DB
	path string
}

// Verify Backend implements the full port surface.
var _ store.Backend = (*Backend)(nil)

// New opens (or creates) the database under dataDir and runs migrations.
func New(dataDir string) (*Backend, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "tms.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000&_fk=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	b := &Backend{db: db, path: dbPath}
	if err := b.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return b, nil
}

func (b *Backend) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS application (
		acronym TEXT PRIMARY KEY,
		description TEXT,
		rnumber INTEGER NOT NULL DEFAULT 0,
		start_date DATETIME,
		end_date DATETIME,
		permit_create TEXT,
		permit_open TEXT,
		permit_todo TEXT,
		permit_doing TEXT,
		permit_done TEXT
	);

	CREATE TABLE IF NOT EXISTS task (
		task_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		app_acronym TEXT NOT NULL,
		plan TEXT,
		state TEXT NOT NULL,
		creator TEXT NOT NULL,
		owner TEXT NOT NULL,
		notes_json TEXT NOT NULL DEFAULT '[]',
		create_date DATETIME NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (app_acronym) REFERENCES application(acronym)
	);

	CREATE INDEX IF NOT EXISTS idx_task_app ON task(app_acronym);
	CREATE INDEX IF NOT EXISTS idx_task_state ON task(app_acronym, state);

	CREATE TABLE IF NOT EXISTS user (
		username TEXT PRIMARY KEY,
		email TEXT,
		group_list TEXT NOT NULL DEFAULT '',
		is_disabled INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS plan (
		app_acronym TEXT NOT NULL,
		name TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		colour TEXT,
		PRIMARY KEY (app_acronym, name),
		FOREIGN KEY (app_acronym) REFERENCES application(acronym)
	);
	`
	_, err := b.db.Exec(schema)
	return err
}

// Ping verifies the connection is alive.
func (b *Backend) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Path returns the database file path.
func (b *Backend) Path() string {
	return b.path
}

// isConstraint reports whether err is a primary-key or unique violation.
func isConstraint(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}

// isForeignKey reports whether err is a foreign-key violation.
func isForeignKey(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
