// Package checkout prices the cart and places orders through a payment gateway.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/port"
	"golang.org/x/text/currency"
)

var ErrEmptyCart = errors.New("cart is empty")

// Cart is the part of the cart store checkout needs.
type Cart interface {
	Cart(ctx context.Context) domain.Cart
	RemoveOrdered(ctx context.Context, ordered []domain.CartItem) domain.Cart
}

type Order struct {
	ID            string
	TransactionID string
	Quote         Quote
	// AmountMinor is the charged total in the smallest currency unit.
	AmountMinor int64
	Items       []domain.CartItem
	PlacedAt    time.Time
}

type Service struct {
	cart    Cart
	gateway port.PaymentGateway
	unit    currency.Unit
	log     *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewService(cart Cart, gateway port.PaymentGateway, unit currency.Unit, rnd *rand.Rand, log *slog.Logger) (*Service, error) {
	if cart == nil {
		return nil, fmt.Errorf("cart is nil")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway is nil")
	}
	if rnd == nil {
		return nil, fmt.Errorf("rnd is nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cart:    cart,
		gateway: gateway,
		unit:    unit,
		log:     log,
		rnd:     rnd,
	}, nil
}

func (s *Service) Summary(ctx context.Context, coupon string) Summary {
	return Summarize(s.cart.Cart(ctx), coupon, s.unit)
}

func (s *Service) Quote(ctx context.Context) Quote {
	return QuoteFor(s.cart.Cart(ctx), s.unit)
}

// PlaceOrder charges the quoted total and, once the charge succeeds, takes the
// ordered quantities out of the cart. Items added while the charge was in
// flight stay in the cart. A declined charge leaves the cart as it was.
func (s *Service) PlaceOrder(ctx context.Context) (Order, error) {
	cart := s.cart.Cart(ctx)
	if cart.IsEmpty() {
		return Order{}, ErrEmptyCart
	}

	quote := QuoteFor(cart, s.unit)

	receipt, err := s.gateway.Charge(ctx, port.Charge{Amount: quote.Total})
	if err != nil {
		s.log.InfoContext(ctx, "payment failed", slog.String("total", quote.Total.String()), slog.Any("error", err))
		return Order{}, fmt.Errorf("gateway.Charge: %w", err)
	}

	s.mu.Lock()
	suffix := s.rnd.IntN(1000)
	s.mu.Unlock()

	order := Order{
		ID:            fmt.Sprintf("ORD-%d-%d", receipt.ChargedAt.UnixMilli(), suffix),
		TransactionID: receipt.TransactionID,
		Quote:         quote,
		AmountMinor:   quote.Total.MinorUnits(),
		Items:         cart.Items,
		PlacedAt:      receipt.ChargedAt,
	}

	s.cart.RemoveOrdered(ctx, order.Items)

	s.log.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("total", quote.Total.String()),
	)

	return order, nil
}
