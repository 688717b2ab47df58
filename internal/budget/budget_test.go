package budget_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/nikolayk812/cartstore/internal/budget"
	"github.com/nikolayk812/cartstore/internal/catalog"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/nikolayk812/cartstore/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestPlanner_Limit(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryBlobStore()
	planner := newPlanner(t, store)

	assert.True(t, budget.DefaultLimit.Equal(planner.Limit(ctx)))

	require.NoError(t, planner.SetLimit(ctx, decimal.RequireFromString("12500.50")))
	assert.Equal(t, "12500.5", planner.Limit(ctx).String())

	raw, err := store.Get(ctx, budget.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "12500.5", raw)
}

func TestPlanner_SetLimitInvalid(t *testing.T) {
	ctx := t.Context()
	planner := newPlanner(t, repository.NewMemoryBlobStore())

	for _, limit := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		err := planner.SetLimit(ctx, limit)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.True(t, budget.DefaultLimit.Equal(planner.Limit(ctx)))
}

func TestPlanner_MalformedStoredLimit(t *testing.T) {
	for _, raw := range []string{"", "lots", "-100", "0"} {
		t.Run(raw, func(t *testing.T) {
			ctx := t.Context()
			store := repository.NewMemoryBlobStore()
			require.NoError(t, store.Put(ctx, budget.DefaultKey, raw))

			assert.True(t, budget.DefaultLimit.Equal(newPlanner(t, store).Limit(ctx)))
		})
	}
}

func TestPlanner_StoreFailure(t *testing.T) {
	ctx := t.Context()
	planner := newPlanner(t, brokenStore{})

	assert.True(t, budget.DefaultLimit.Equal(planner.Limit(ctx)))

	err := planner.SetLimit(ctx, decimal.NewFromInt(100))
	require.ErrorIs(t, err, domain.ErrPersistenceUnavailable)
}

func TestAssess(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	tests := []struct {
		name           string
		spent          int64
		wantLevel      budget.Level
		wantAdvice     string
		wantUsed       float64
		wantAffordable []domain.ItemID
	}{
		{
			name:       "empty cart",
			spent:      0,
			wantLevel:  budget.LevelLow,
			wantAdvice: "You have plenty of budget left. Happy shopping!",
			wantUsed:   0,
		},
		{
			name:       "half spent",
			spent:      22500,
			wantLevel:  budget.LevelMedium,
			wantAdvice: "You have plenty of budget left. Happy shopping!",
			wantUsed:   50,
		},
		{
			name:       "good amount left",
			spent:      41000,
			wantLevel:  budget.LevelHigh,
			wantAdvice: "You have a good amount left in your budget. Shop wisely!",
			wantUsed:   41000.0 / 45000 * 100,
		},
		{
			name:           "close to the limit",
			spent:          44500,
			wantLevel:      budget.LevelHigh,
			wantAdvice:     "You're close to your budget limit. Shop carefully!",
			wantUsed:       44500.0 / 45000 * 100,
			wantAffordable: []domain.ItemID{domain.IntID(15), domain.IntID(16)},
		},
		{
			name:       "over the limit",
			spent:      50000,
			wantLevel:  budget.LevelHigh,
			wantAdvice: "You've reached your budget limit. Consider removing some items.",
			wantUsed:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.NewCart()
			if tt.spent > 0 {
				cart = domain.NewCart(domain.CartItem{
					ID:    domain.IntID(1),
					Title: "Spent",
					Price: decimal.NewFromInt(tt.spent),
					Qty:   1,
				})
			}

			a := budget.Assess(cart, budget.DefaultLimit, cat, currency.INR)

			assert.Equal(t, tt.wantLevel, a.Level)
			assert.Equal(t, tt.wantAdvice, a.Advice)
			assert.InDelta(t, tt.wantUsed, a.UsedPercent, 1e-6)
			assert.True(t, budget.DefaultLimit.Sub(decimal.NewFromInt(tt.spent)).Equal(a.Remaining.Amount))

			for _, p := range a.Affordable {
				assert.True(t, p.Price.LessThanOrEqual(a.Remaining.Amount), p.Title)
			}
			assert.LessOrEqual(t, len(a.Affordable), 12)

			if tt.wantAffordable != nil {
				var ids []domain.ItemID
				for _, p := range a.Affordable {
					ids = append(ids, p.ID)
				}
				assert.Equal(t, tt.wantAffordable, ids)
			}
		})
	}
}

func TestAssess_AffordableSortedByRating(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	a := budget.Assess(domain.NewCart(), budget.DefaultLimit, cat, currency.INR)
	require.Len(t, a.Affordable, 12)

	for i := 1; i < len(a.Affordable); i++ {
		assert.GreaterOrEqual(t, a.Affordable[i-1].Rating, a.Affordable[i].Rating)
	}
}

func newPlanner(t *testing.T, store port.BlobStore) *budget.Planner {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	planner, err := budget.NewPlanner(store, budget.DefaultKey, cat, currency.INR, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	return planner
}

var errBroken = errors.New("disk on fire")

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) { return "", errBroken }

func (brokenStore) Put(context.Context, string, string) error { return errBroken }

func (brokenStore) Delete(context.Context, string) error { return errBroken }
