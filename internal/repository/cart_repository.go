package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/port"
)

// ErrMalformedCart is returned by Load when the stored blob is not an object with an items array.
var ErrMalformedCart = errors.New("malformed cart blob")

type cartRepository struct {
	store port.BlobStore
	key   string
}

func NewCart(store port.BlobStore, key string) (port.CartRepository, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	return &cartRepository{
		store: store,
		key:   key,
	}, nil
}

// Load returns an empty cart when nothing is stored under the key.
// Read failures and malformed blobs are reported wrapped in domain.ErrPersistenceUnavailable.
func (r *cartRepository) Load(ctx context.Context) (domain.Cart, error) {
	blob, err := r.store.Get(ctx, r.key)
	if errors.Is(err, port.ErrBlobNotFound) {
		return domain.NewCart(), nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("store.Get: %w: %w", domain.ErrPersistenceUnavailable, err)
	}

	cart, err := decodeCart(blob)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("decodeCart: %w: %w", domain.ErrPersistenceUnavailable, err)
	}

	return cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart domain.Cart) error {
	blob, err := encodeCart(cart)
	if err != nil {
		return fmt.Errorf("encodeCart: %w", err)
	}

	if err := r.store.Put(ctx, r.key, blob); err != nil {
		return fmt.Errorf("store.Put: %w: %w", domain.ErrPersistenceUnavailable, err)
	}

	return nil
}

type cartBlob struct {
	Items []domain.CartItem `json:"items"`
}

func encodeCart(cart domain.Cart) (string, error) {
	blob := cartBlob{Items: cart.Items}
	if blob.Items == nil {
		blob.Items = []domain.CartItem{}
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(data), nil
}

func decodeCart(blob string) (domain.Cart, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(blob), &fields); err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %w", ErrMalformedCart, err)
	}

	rawItems, ok := fields["items"]
	if !ok {
		return domain.Cart{}, fmt.Errorf("%w: items is missing", ErrMalformedCart)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(rawItems, &entries); err != nil || entries == nil {
		return domain.Cart{}, fmt.Errorf("%w: items is not an array", ErrMalformedCart)
	}

	items, err := mapEntriesToDomain(entries)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapEntriesToDomain: %w", err)
	}

	return domain.NewCart(items...), nil
}

// mapEntriesToDomain skips entries that cannot be turned into a cart item.
func mapEntriesToDomain(entries []json.RawMessage) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, 0, len(entries))

	for _, entry := range entries {
		item, err := domain.DecodeCartItem(entry)
		if errors.Is(err, domain.ErrInvalidInput) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("domain.DecodeCartItem: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
