package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxQty is the largest quantity a single cart entry holds.
	MaxQty = 1_000_000

	maxNumberLen   = 64
	maxNumberScale = 32
)

var (
	maxQty     = decimal.NewFromInt(MaxQty)
	maxReviews = decimal.NewFromInt(math.MaxInt32)
)

// ParseDecimal parses s as a decimal number. Numbers longer than 64 characters
// or with an exponent beyond ±32 are rejected, so that canonical forms such as
// the one of 1e999999999 are never materialised.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxNumberLen {
		return decimal.Decimal{}, fmt.Errorf("number has %d characters, at most %d allowed", len(s), maxNumberLen)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decimal.NewFromString: %w", err)
	}

	if exp := d.Exponent(); exp > maxNumberScale || exp < -maxNumberScale {
		return decimal.Decimal{}, fmt.Errorf("number %s is out of range", s)
	}

	return d, nil
}

// quantity truncates qty to whole units, capped at MaxQty. Non-positive
// quantities come back as zero.
func quantity(qty decimal.Decimal) int {
	switch {
	case !qty.IsPositive():
		return 0
	case qty.GreaterThan(maxQty):
		return MaxQty
	default:
		return int(qty.IntPart())
	}
}

func capQty(qty int) int {
	return min(qty, MaxQty)
}
