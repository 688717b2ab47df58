package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/nikolayk812/cartstore/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartKey = "amazonCart"

func TestNewCart(t *testing.T) {
	_, err := repository.NewCart(nil, cartKey)
	require.EqualError(t, err, "store is nil")

	_, err = repository.NewCart(repository.NewMemoryBlobStore(), "")
	require.EqualError(t, err, "key is empty")
}

func TestCartRepository_SaveLoad(t *testing.T) {
	ctx := t.Context()
	repo := newRepo(t, repository.NewMemoryBlobStore())

	expected := domain.NewCart(randomItems(5)...)

	require.NoError(t, repo.Save(ctx, expected))

	actual, err := repo.Load(ctx)
	require.NoError(t, err)
	assertCart(t, expected, actual)
}

func TestCartRepository_LoadMissing(t *testing.T) {
	repo := newRepo(t, repository.NewMemoryBlobStore())

	cart, err := repo.Load(t.Context())
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.NotNil(t, cart.Items)
}

func TestCartRepository_SaveEmpty(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryBlobStore()
	repo := newRepo(t, store)

	require.NoError(t, repo.Save(ctx, domain.Cart{}))

	blob, err := store.Get(ctx, cartKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, blob)
}

func TestCartRepository_BlobLayout(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryBlobStore()
	repo := newRepo(t, store)

	cart := domain.NewCart(
		domain.CartItem{
			ID:       domain.IntID(1),
			Title:    "iPhone 15",
			Price:    decimal.RequireFromString("79999.5"),
			Image:    "https://example.com/iphone.jpg",
			Qty:      2,
			Rating:   4.5,
			Reviews:  120,
			Category: "mobiles",
			Brand:    "Apple",
			Extra:    map[string]json.RawMessage{"prime": json.RawMessage(`true`)},
		},
		domain.CartItem{
			ID:    domain.StringID("gift-card"),
			Title: "Gift Card",
			Price: decimal.NewFromInt(500),
			Image: domain.DefaultImage,
			Qty:   1,
		},
	)
	require.NoError(t, repo.Save(ctx, cart))

	blob, err := store.Get(ctx, cartKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[
		{"id":1,"title":"iPhone 15","price":79999.5,"image":"https://example.com/iphone.jpg","qty":2,
		 "rating":4.5,"reviews":120,"category":"mobiles","brand":"Apple","prime":true},
		{"id":"gift-card","title":"Gift Card","price":500,"image":"`+domain.DefaultImage+`","qty":1}
	]}`, blob)
}

func TestCartRepository_LoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: `{items: [`},
		{name: "empty object", blob: `{}`},
		{name: "items null", blob: `{"items":null}`},
		{name: "items object", blob: `{"items":{"id":1}}`},
		{name: "top-level array", blob: `[{"id":1}]`},
		{name: "top-level string", blob: `"cart"`},
		{name: "empty blob", blob: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := repository.NewMemoryBlobStore()
			repo := newRepo(t, store)

			require.NoError(t, store.Put(ctx, cartKey, tt.blob))

			_, err := repo.Load(ctx)
			require.ErrorIs(t, err, domain.ErrPersistenceUnavailable)
			require.ErrorIs(t, err, repository.ErrMalformedCart)
		})
	}
}

func TestCartRepository_LoadReconciles(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryBlobStore()
	repo := newRepo(t, store)

	blob := `{"items":[
		{"id":1,"title":"Phone","price":100,"image":"p.jpg","qty":1},
		{"title":"no id","price":5,"qty":1},
		"not an object",
		42,
		{"id":2,"title":"Cable","price":"12.50","image":"c.jpg","qty":0},
		{"id":3,"price":-4,"qty":2.7},
		{"id":1,"title":"Phone again","price":1,"qty":2},
		{"id":"1","title":"String one","price":7,"image":"s.jpg","qty":1}
	]}`
	require.NoError(t, store.Put(ctx, cartKey, blob))

	actual, err := repo.Load(ctx)
	require.NoError(t, err)

	expected := domain.Cart{Items: []domain.CartItem{
		{ID: domain.IntID(1), Title: "Phone", Price: decimal.NewFromInt(100), Image: "p.jpg", Qty: 3},
		{ID: domain.IntID(3), Title: domain.DefaultTitle, Price: domain.DefaultPrice, Image: domain.DefaultImage, Qty: 2},
		{ID: domain.StringID("1"), Title: "String one", Price: decimal.NewFromInt(7), Image: "s.jpg", Qty: 1},
	}}
	assertCart(t, expected, actual)
}

func TestCartRepository_StoreErrors(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := newRepo(t, failingStore{err: storeErr})
	ctx := t.Context()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, domain.ErrPersistenceUnavailable)
	require.ErrorIs(t, err, storeErr)

	err = repo.Save(ctx, domain.NewCart(randomItems(1)...))
	require.ErrorIs(t, err, domain.ErrPersistenceUnavailable)
	require.ErrorIs(t, err, storeErr)
}

func TestCartRepository_SharedStore(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryBlobStore()
	first := newRepo(t, store)
	second := newRepo(t, store)

	expected := domain.NewCart(randomItems(3)...)
	require.NoError(t, first.Save(ctx, expected))

	actual, err := second.Load(ctx)
	require.NoError(t, err)
	assertCart(t, expected, actual)
}

func newRepo(t *testing.T, store port.BlobStore) port.CartRepository {
	t.Helper()

	repo, err := repository.NewCart(store, cartKey)
	require.NoError(t, err)

	return repo
}

func randomItems(n int) []domain.CartItem {
	items := make([]domain.CartItem, 0, n)
	for i := range n {
		items = append(items, domain.CartItem{
			ID:       domain.IntID(int64(i + 1)),
			Title:    gofakeit.ProductName(),
			Price:    decimal.NewFromFloat(gofakeit.Price(1, 100000)).Round(2),
			Image:    gofakeit.URL(),
			Qty:      gofakeit.IntRange(1, 10),
			Category: gofakeit.ProductCategory(),
			Brand:    gofakeit.Company(),
		})
	}
	return items
}

type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string) (string, error) { return "", s.err }

func (s failingStore) Put(context.Context, string, string) error { return s.err }

func (s failingStore) Delete(context.Context, string) error { return s.err }

func assertCart(t *testing.T, expected, actual domain.Cart) {
	t.Helper()

	diff := cmp.Diff(expected, actual,
		cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) }),
		cmp.Comparer(func(x, y domain.ItemID) bool { return x == y }),
		cmpopts.EquateEmpty(),
	)
	assert.Empty(t, diff)
}
