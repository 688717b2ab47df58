package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartstore/internal/port"
)

var ErrPaymentDeclined = errors.New("payment declined")

const DefaultSuccessRate = 0.9

// SimulatedGateway approves a charge with a fixed probability. Nothing is sent anywhere.
type SimulatedGateway struct {
	successRate float64
	now         func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulatedGateway panics on a nil rnd; pass rand.New(rand.NewPCG(seed1, seed2)) for repeatable runs.
func NewSimulatedGateway(successRate float64, rnd *rand.Rand, now func() time.Time) *SimulatedGateway {
	if rnd == nil {
		panic("checkout: nil random source")
	}
	if now == nil {
		now = time.Now
	}

	return &SimulatedGateway{
		successRate: min(max(successRate, 0), 1),
		now:         now,
		rnd:         rnd,
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, charge port.Charge) (port.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return port.Receipt{}, err
	}
	if !charge.Amount.Amount.IsPositive() {
		return port.Receipt{}, fmt.Errorf("amount must be positive: %s", charge.Amount)
	}

	g.mu.Lock()
	roll := g.rnd.Float64()
	g.mu.Unlock()

	if roll >= g.successRate {
		return port.Receipt{}, ErrPaymentDeclined
	}

	return port.Receipt{
		TransactionID: uuid.NewString(),
		Amount:        charge.Amount,
		ChargedAt:     g.now().UTC(),
	}, nil
}
