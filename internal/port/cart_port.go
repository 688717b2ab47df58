package port

import (
	"context"
	"errors"

	"github.com/nikolayk812/cartstore/internal/domain"
)

// ErrBlobNotFound is returned by a BlobStore when the key holds no value.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is a synchronous string key-value store holding serialized carts.
type BlobStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type CartRepository interface {
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
}
