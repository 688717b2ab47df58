package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/cartstore/internal/port"
)

type memoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]string
}

func NewMemoryBlobStore() port.BlobStore {
	return &memoryBlobStore{
		blobs: make(map[string]string),
	}
}

func (s *memoryBlobStore) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.blobs[key]
	if !ok {
		return "", port.ErrBlobNotFound
	}
	return value, nil
}

func (s *memoryBlobStore) Put(_ context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = value
	return nil
}

func (s *memoryBlobStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}
