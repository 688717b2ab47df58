package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartstore/internal/db"
	"github.com/nikolayk812/cartstore/internal/migrations"
	"github.com/nikolayk812/cartstore/internal/port"
)

type postgresBlobStore struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewPostgresBlobStore(pool *pgxpool.Pool) port.BlobStore {
	return &postgresBlobStore{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewPostgresBlobStoreWithTx(tx pgx.Tx) port.BlobStore {
	return &postgresBlobStore{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (s *postgresBlobStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	value, err := s.q.GetBlob(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", port.ErrBlobNotFound
	}
	if err != nil {
		return "", fmt.Errorf("q.GetBlob: %w", err)
	}

	return value, nil
}

// Put serializes writers of the same key with a transaction-scoped advisory lock,
// so concurrent writes land in lock order and the last one wins.
func (s *postgresBlobStore) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := withTx(ctx, s.pool, s.q, func(q *db.Queries) (struct{}, error) {
		if err := q.LockBlobKey(ctx, key); err != nil {
			return struct{}{}, fmt.Errorf("q.LockBlobKey: %w", err)
		}

		err := q.UpsertBlob(ctx, db.UpsertBlobParams{
			Key:   key,
			Value: value,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.UpsertBlob: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

func (s *postgresBlobStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := s.q.DeleteBlob(ctx, key); err != nil {
		return fmt.Errorf("q.DeleteBlob: %w", err)
	}

	return nil
}

// ApplyPostgresSchema runs the embedded up migrations in name order. They are idempotent.
func ApplyPostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := fs.Glob(migrations.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}
