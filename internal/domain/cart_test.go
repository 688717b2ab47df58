package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCart_WithAdded(t *testing.T) {
	a := item(1, "A", 100)
	b := item(2, "B", 50)

	cart := domain.NewCart().
		WithAdded(a).
		WithAdded(a).
		WithAdded(b)

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, domain.IntID(1), cart.Items[0].ID)
	assert.Equal(t, 2, cart.Items[0].Qty)
	assert.Equal(t, domain.IntID(2), cart.Items[1].ID)
	assert.Equal(t, 1, cart.Items[1].Qty)
	assert.Equal(t, 3, cart.TotalItems())
	assert.True(t, decimal.NewFromInt(250).Equal(cart.Subtotal()), cart.Subtotal().String())
}

func TestCart_WithAdded_FirstWriteWins(t *testing.T) {
	cart := domain.NewCart().
		WithAdded(item(1, "Original", 100)).
		WithAdded(item(1, "Renamed", 1))

	got, ok := cart.Find(domain.IntID(1))
	assert.True(t, ok)
	assert.Equal(t, "Original", got.Title)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Price))
	assert.Equal(t, 2, got.Qty)
}

func TestCart_WithAdded_ExplicitQty(t *testing.T) {
	buyThree := item(1, "A", 10)
	buyThree.Qty = 3

	cart := domain.NewCart().WithAdded(buyThree)
	assert.Equal(t, 3, cart.TotalItems())

	cart = cart.WithAdded(buyThree)
	assert.Equal(t, 4, cart.TotalItems())
}

func TestCart_QuantityIsCapped(t *testing.T) {
	full := item(1, "A", 10)
	full.Qty = domain.MaxQty

	cart := domain.NewCart(full, full)
	assert.Equal(t, domain.MaxQty, cart.TotalItems())

	cart = cart.WithAdded(item(1, "A", 10))
	assert.Equal(t, domain.MaxQty, cart.TotalItems())

	cart = cart.WithQuantity(domain.IntID(1), domain.MaxQty+5)
	assert.Equal(t, domain.MaxQty, cart.TotalItems())
}

func TestCart_WithAdded_DoesNotMutateReceiver(t *testing.T) {
	before := domain.NewCart(item(1, "A", 10))
	_ = before.WithAdded(item(1, "A", 10))

	assert.Equal(t, 1, before.Items[0].Qty)
}

func TestCart_WithQuantity(t *testing.T) {
	base := domain.NewCart(item(1, "A", 100), item(2, "B", 50))

	tests := []struct {
		name    string
		id      domain.ItemID
		qty     int
		wantIDs []domain.ItemID
		wantQty map[domain.ItemID]int
	}{
		{
			name:    "set quantity",
			id:      domain.IntID(1),
			qty:     5,
			wantIDs: []domain.ItemID{domain.IntID(1), domain.IntID(2)},
			wantQty: map[domain.ItemID]int{domain.IntID(1): 5, domain.IntID(2): 1},
		},
		{
			name:    "zero removes",
			id:      domain.IntID(1),
			qty:     0,
			wantIDs: []domain.ItemID{domain.IntID(2)},
			wantQty: map[domain.ItemID]int{domain.IntID(2): 1},
		},
		{
			name:    "negative removes",
			id:      domain.IntID(2),
			qty:     -1,
			wantIDs: []domain.ItemID{domain.IntID(1)},
			wantQty: map[domain.ItemID]int{domain.IntID(1): 1},
		},
		{
			name:    "unknown id is a no-op",
			id:      domain.IntID(999),
			qty:     4,
			wantIDs: []domain.ItemID{domain.IntID(1), domain.IntID(2)},
			wantQty: map[domain.ItemID]int{domain.IntID(1): 1, domain.IntID(2): 1},
		},
		{
			name:    "string id does not match numeric id",
			id:      domain.StringID("1"),
			qty:     0,
			wantIDs: []domain.ItemID{domain.IntID(1), domain.IntID(2)},
			wantQty: map[domain.ItemID]int{domain.IntID(1): 1, domain.IntID(2): 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.WithQuantity(tt.id, tt.qty)

			var ids []domain.ItemID
			for _, it := range got.Items {
				ids = append(ids, it.ID)
				assert.Equal(t, tt.wantQty[it.ID], it.Qty)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCart_Without(t *testing.T) {
	base := domain.NewCart(item(1, "A", 100), item(2, "B", 50))

	assertCart(t, domain.NewCart(item(2, "B", 50)), base.Without(domain.IntID(1)))
	assertCart(t, base, base.Without(domain.IntID(999)))
}

func TestCart_WithoutOrdered(t *testing.T) {
	a := item(1, "A", 100)
	a.Qty = 3
	b := item(2, "B", 50)
	c := item(3, "C", 10)
	base := domain.NewCart(a, b, c)

	orderedA := item(1, "A", 100)
	orderedA.Qty = 2

	got := base.WithoutOrdered([]domain.CartItem{orderedA, b, item(999, "Gone", 1)})

	remainingA := item(1, "A", 100)
	assertCart(t, domain.NewCart(remainingA, c), got)
	assert.Equal(t, 5, base.TotalItems(), "receiver is not modified")

	overOrdered := item(3, "C", 10)
	overOrdered.Qty = 5
	assertCart(t, domain.NewCart(remainingA), got.WithoutOrdered([]domain.CartItem{overOrdered}))
}

func TestNewCart_Reconciles(t *testing.T) {
	dup := item(1, "A", 100)
	dup.Qty = 2
	noQty := item(3, "C", 1)
	noQty.Qty = 0

	got := domain.NewCart(item(1, "A", 100), item(2, "B", 50), dup, noQty, domain.CartItem{Qty: 1})

	want := domain.Cart{Items: []domain.CartItem{item(1, "A", 100), item(2, "B", 50)}}
	want.Items[0].Qty = 3

	assertCart(t, want, got)
}

func item(id int64, title string, price int64) domain.CartItem {
	return domain.CartItem{
		ID:    domain.IntID(id),
		Title: title,
		Price: decimal.NewFromInt(price),
		Image: domain.DefaultImage,
		Qty:   1,
	}
}

var cmpOpts = cmp.Options{
	cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) }),
	cmp.Comparer(func(x, y domain.ItemID) bool { return x == y }),
	cmpopts.EquateEmpty(),
}

func assertItem(t *testing.T, expected, actual domain.CartItem) {
	t.Helper()

	diff := cmp.Diff(expected, actual, cmpOpts)
	assert.Empty(t, diff)
}

func assertCart(t *testing.T, expected, actual domain.Cart) {
	t.Helper()

	diff := cmp.Diff(expected, actual, cmpOpts)
	assert.Empty(t, diff)
}
