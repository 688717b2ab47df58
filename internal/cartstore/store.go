// Package cartstore holds the shopping cart shared by every screen of the storefront.
//
// Store is write-through: every mutation is applied in memory and then saved
// through the repository before the call returns. Storage failures never reach
// the caller. A failed save keeps the mutation in memory so the session stays
// usable; a failed read keeps whatever the store already holds.
package cartstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/port"
)

type Store struct {
	repo port.CartRepository
	log  *slog.Logger

	mu     sync.Mutex
	cart   domain.Cart
	loaded bool

	subMu   sync.Mutex
	subs    map[int]func(domain.Cart)
	nextSub int
}

func New(repo port.CartRepository, log *slog.Logger) (*Store, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Store{
		repo: repo,
		log:  log,
		subs: make(map[int]func(domain.Cart)),
	}, nil
}

// Load reads the persisted cart, replacing whatever the store held. An absent,
// unreadable or malformed blob yields an empty cart.
func (s *Store) Load(ctx context.Context) domain.Cart {
	s.mu.Lock()
	cart := s.read(ctx, domain.NewCart())
	s.cart = cart
	s.loaded = true
	s.mu.Unlock()

	s.notify(cart)
	return cart.Clone()
}

// Cart returns a snapshot of the current cart, loading it on first access.
func (s *Store) Cart(ctx context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
	return s.cart.Clone()
}

// Add puts one unit of productLike into the cart. See domain.NewCartItem for
// the accepted inputs. Unusable input returns domain.ErrInvalidInput and leaves
// the cart untouched.
func (s *Store) Add(ctx context.Context, productLike any) (domain.Cart, error) {
	item, err := domain.NewCartItem(productLike)
	if err != nil {
		s.log.DebugContext(ctx, "cart add rejected", slog.Any("error", err))
		return s.Cart(ctx), fmt.Errorf("domain.NewCartItem: %w", err)
	}

	return s.mutate(ctx, "add", func(c domain.Cart) domain.Cart {
		return c.WithAdded(item)
	}), nil
}

// Remove deletes id from the cart. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id domain.ItemID) domain.Cart {
	return s.mutate(ctx, "remove", func(c domain.Cart) domain.Cart {
		return c.Without(id)
	})
}

// UpdateQuantity sets the quantity of id; qty <= 0 removes the item.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id domain.ItemID, qty int) domain.Cart {
	return s.mutate(ctx, "update quantity", func(c domain.Cart) domain.Cart {
		return c.WithQuantity(id, qty)
	})
}

func (s *Store) Clear(ctx context.Context) domain.Cart {
	return s.mutate(ctx, "clear", func(domain.Cart) domain.Cart {
		return domain.NewCart()
	})
}

// RemoveOrdered takes the quantities of an order out of the cart. Anything added
// since the order snapshot was taken is kept.
func (s *Store) RemoveOrdered(ctx context.Context, ordered []domain.CartItem) domain.Cart {
	return s.mutate(ctx, "remove ordered", func(c domain.Cart) domain.Cart {
		return c.WithoutOrdered(ordered)
	})
}

// Reload discards the in-memory cart and reads the persisted one again. It is
// how the store catches up with writers that bypass it. When the read fails
// the current cart is kept.
func (s *Store) Reload(ctx context.Context) domain.Cart {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	cart := s.read(ctx, s.cart)
	s.cart = cart
	s.mu.Unlock()

	s.notify(cart)
	return cart.Clone()
}

// Subscribe registers fn to receive a snapshot after every mutation, load and
// reload. fn runs synchronously on the caller's goroutine after the store lock
// is released. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) mutate(ctx context.Context, op string, apply func(domain.Cart) domain.Cart) domain.Cart {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	s.cart = apply(s.cart)
	s.write(ctx, op)
	cart := s.cart.Clone()
	s.mu.Unlock()

	s.log.DebugContext(ctx, "cart updated",
		slog.String("op", op),
		slog.Int("items", len(cart.Items)),
		slog.Int("total_items", cart.TotalItems()),
	)

	s.notify(cart)
	return cart
}

// ensureLoaded must be called with s.mu held.
func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.cart = s.read(ctx, domain.NewCart())
	s.loaded = true
}

func (s *Store) read(ctx context.Context, fallback domain.Cart) domain.Cart {
	cart, err := s.repo.Load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "cart read failed, keeping current cart", slog.Any("error", err))
		return fallback
	}
	return cart
}

func (s *Store) write(ctx context.Context, op string) {
	err := s.repo.Save(ctx, s.cart)
	if err == nil {
		return
	}

	if !errors.Is(err, domain.ErrPersistenceUnavailable) {
		err = fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)
	}
	s.log.WarnContext(ctx, "cart write failed, change kept in memory only",
		slog.String("op", op),
		slog.Any("error", err),
	)
}

func (s *Store) notify(cart domain.Cart) {
	s.subMu.Lock()
	fns := make([]func(domain.Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(cart.Clone())
	}
}
