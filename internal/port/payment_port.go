package port

import (
	"context"
	"time"

	"github.com/nikolayk812/cartstore/internal/domain"
)

type Charge struct {
	Amount domain.Money
}

type Receipt struct {
	TransactionID string
	Amount        domain.Money
	ChargedAt     time.Time
}

type PaymentGateway interface {
	Charge(ctx context.Context, charge Charge) (Receipt, error)
}
