// Package budget tracks a shopper's spending limit against the cart.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/cartstore/internal/catalog"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	DefaultKey    = "amazonCloneBudget"
	maxAffordable = 12
)

var (
	DefaultLimit = decimal.NewFromInt(45000)

	closeToLimit   = decimal.NewFromInt(1000)
	comfortableGap = decimal.NewFromInt(5000)
	hundred        = decimal.NewFromInt(100)
)

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

type Assessment struct {
	Limit     domain.Money
	Spent     domain.Money
	Remaining domain.Money
	// UsedPercent is capped at 100.
	UsedPercent float64
	Level       Level
	Advice      string
	// Affordable lists the best rated products that still fit the remaining budget.
	Affordable []domain.Product
}

type Planner struct {
	store   port.BlobStore
	key     string
	catalog *catalog.Catalog
	unit    currency.Unit
	log     *slog.Logger
}

func NewPlanner(store port.BlobStore, key string, cat *catalog.Catalog, unit currency.Unit, log *slog.Logger) (*Planner, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Planner{
		store:   store,
		key:     key,
		catalog: cat,
		unit:    unit,
		log:     log,
	}, nil
}

// Limit returns the stored limit, or DefaultLimit when none is stored or the
// stored value is unusable.
func (p *Planner) Limit(ctx context.Context) decimal.Decimal {
	raw, err := p.store.Get(ctx, p.key)
	if errors.Is(err, port.ErrBlobNotFound) {
		return DefaultLimit
	}
	if err != nil {
		p.log.WarnContext(ctx, "budget read failed, using default",
			slog.Any("error", fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, err)),
		)
		return DefaultLimit
	}

	limit, err := domain.ParseDecimal(raw)
	if err != nil || !limit.IsPositive() {
		p.log.WarnContext(ctx, "stored budget is malformed, using default", slog.String("value", raw))
		return DefaultLimit
	}

	return limit
}

func (p *Planner) SetLimit(ctx context.Context, limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return fmt.Errorf("%w: budget must be positive, got %s", domain.ErrInvalidInput, limit)
	}

	if err := p.store.Put(ctx, p.key, limit.String()); err != nil {
		return fmt.Errorf("store.Put: %w: %w", domain.ErrPersistenceUnavailable, err)
	}

	return nil
}

func (p *Planner) Assess(ctx context.Context, cart domain.Cart) Assessment {
	return Assess(cart, p.Limit(ctx), p.catalog, p.unit)
}

// Assess compares the cart subtotal with limit. The level reflects the share
// of the limit already spent; the advice reflects the amount left.
func Assess(cart domain.Cart, limit decimal.Decimal, cat *catalog.Catalog, unit currency.Unit) Assessment {
	spent := cart.Subtotal()
	remaining := limit.Sub(spent)

	used := 100.0
	if limit.IsPositive() {
		used = min(spent.Div(limit).Mul(hundred).InexactFloat64(), 100)
	}

	a := Assessment{
		Limit:       domain.NewMoney(limit, unit),
		Spent:       domain.NewMoney(spent, unit),
		Remaining:   domain.NewMoney(remaining, unit),
		UsedPercent: used,
		Level:       levelFor(used),
		Advice:      adviceFor(remaining),
	}

	if remaining.IsPositive() {
		affordable := cat.Filter(catalog.Filter{MaxPrice: remaining, Sort: catalog.SortRating})
		a.Affordable = affordable[:min(len(affordable), maxAffordable)]
	}

	return a
}

func levelFor(used float64) Level {
	switch {
	case used < 50:
		return LevelLow
	case used < 80:
		return LevelMedium
	default:
		return LevelHigh
	}
}

func adviceFor(remaining decimal.Decimal) string {
	switch {
	case !remaining.IsPositive():
		return "You've reached your budget limit. Consider removing some items."
	case remaining.LessThan(closeToLimit):
		return "You're close to your budget limit. Shop carefully!"
	case remaining.LessThan(comfortableGap):
		return "You have a good amount left in your budget. Shop wisely!"
	default:
		return "You have plenty of budget left. Happy shopping!"
	}
}
