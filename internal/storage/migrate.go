package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var kvMigrations embed.FS

// ErrKVSchemaDirty means an earlier kv_entries migration stopped halfway and
// the table must be repaired by hand before the store can open.
var ErrKVSchemaDirty = errors.New("kv_entries schema is dirty")

// MigrateKVSchema applies the embedded kv_entries migrations to the database
// at dbPath and returns the schema version it ends on.
func MigrateKVSchema(dbPath string) (uint, error) {
	// migrate closes the driver it is handed, so it gets its own handle.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open %s for kv_entries migration: %w", dbPath, err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("kv_entries migration driver: %w", err)
	}
	src, err := iofs.New(kvMigrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("kv_entries migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("kv_entries migrator: %w", err)
	}
	defer m.Close()

	err = m.Up()
	var dirty migrate.ErrDirty
	switch {
	case errors.As(err, &dirty):
		return uint(dirty.Version), fmt.Errorf("%w at version %d", ErrKVSchemaDirty, dirty.Version)
	case err != nil && !errors.Is(err, migrate.ErrNoChange):
		return 0, fmt.Errorf("migrate kv_entries: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read kv_entries schema version: %w", err)
	}
	return version, nil
}
