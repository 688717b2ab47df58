package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/redis/go-redis/v9"
)

type redisBlobStore struct {
	client *redis.Client
	prefix string
}

// NewRedisBlobStore stores each blob as a plain string under prefix+key without expiry.
func NewRedisBlobStore(client *redis.Client, prefix string) port.BlobStore {
	return &redisBlobStore{
		client: client,
		prefix: prefix,
	}
}

func (s *redisBlobStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", port.ErrBlobNotFound
	}
	if err != nil {
		return "", fmt.Errorf("client.Get: %w", err)
	}

	return value, nil
}

func (s *redisBlobStore) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (s *redisBlobStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}
