package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/nikolayk812/cartstore/internal/repository/sqlitemigrations"
	_ "modernc.org/sqlite"
)

// SQLiteBlobStore persists cart blobs in a single SQLite file.
type SQLiteBlobStore struct {
	sqlDB *sql.DB
}

// OpenSQLiteBlobStore opens the database at path and applies the embedded schema.
func OpenSQLiteBlobStore(path string) (*SQLiteBlobStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlDB.Ping: %w", err)
	}
	if err := applySQLiteSchema(sqlDB, sqlitemigrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("applySQLiteSchema: %w", err)
	}

	return &SQLiteBlobStore{sqlDB: sqlDB}, nil
}

func (s *SQLiteBlobStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteBlobStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	var value string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM cart_blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", port.ErrBlobNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query blob: %w", err)
	}

	return value, nil
}

func (s *SQLiteBlobStore) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO cart_blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert blob: %w", err)
	}

	return nil
}

func (s *SQLiteBlobStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cart_blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}

	return nil
}

// applySQLiteSchema executes every embedded .sql file in name order.
// The statements are idempotent, so no applied-migrations table is kept.
func applySQLiteSchema(sqlDB *sql.DB, schema fs.FS) error {
	names, err := fs.Glob(schema, "*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(schema, name)
		if err != nil {
			return fmt.Errorf("read schema %s: %w", name, err)
		}
		if _, err := sqlDB.Exec(string(content)); err != nil {
			return fmt.Errorf("apply schema %s: %w", name, err)
		}
	}

	return nil
}
