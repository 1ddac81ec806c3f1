package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lifelog/internal/kv"

	_ "modernc.org/sqlite"
)

const (
	getQuery = `SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`
	setQuery = `INSERT INTO kv_entries (namespace, key, value, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	removeQuery = `DELETE FROM kv_entries WHERE namespace = ? AND key = ?`
	keysQuery   = `SELECT key FROM kv_entries WHERE namespace = ? ORDER BY key`
)

// SQLiteRepository is a kv.Store backed by the kv_entries table.
type SQLiteRepository struct {
	db        *sql.DB
	namespace string
}

var _ kv.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath, namespace string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := MigrateKVSchema(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return NewWithDB(db, namespace), nil
}

// NewWithDB wraps an already migrated database.
func NewWithDB(db *sql.DB, namespace string) *SQLiteRepository {
	if namespace == "" {
		namespace = kv.DefaultNamespace
	}
	return &SQLiteRepository{db: db, namespace: namespace}
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, getQuery, r.namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, setQuery, r.namespace, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, removeQuery, r.namespace, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys stored in this repository's namespace.
func (r *SQLiteRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, keysQuery, r.namespace)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
