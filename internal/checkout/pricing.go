package checkout

import (
	"strings"

	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const CouponTenOff = "AMAZON10"

var (
	deliveryFee       = decimal.NewFromInt(99)
	freeDeliveryAbove = decimal.NewFromInt(10000)
	couponRate        = decimal.NewFromFloat(0.1)
	shippingFee       = decimal.NewFromInt(40)
	freeShippingAbove = decimal.NewFromInt(1000)
	gstRate           = decimal.NewFromFloat(0.18)
)

// Summary is the cart page breakdown.
type Summary struct {
	TotalItems  int
	Subtotal    domain.Money
	DeliveryFee domain.Money
	Discount    domain.Money
	Total       domain.Money
	Coupon      string
}

// Quote is the checkout page breakdown that is actually charged.
type Quote struct {
	TotalItems int
	Subtotal   domain.Money
	Shipping   domain.Money
	Tax        domain.Money
	Total      domain.Money
}

// Summarize prices the cart page: delivery is free for an empty cart or above
// 10000, and the AMAZON10 coupon takes 10% off the subtotal.
func Summarize(cart domain.Cart, coupon string, unit currency.Unit) Summary {
	subtotal := cart.Subtotal()

	fee := decimal.Zero
	if subtotal.IsPositive() && subtotal.LessThanOrEqual(freeDeliveryAbove) {
		fee = deliveryFee
	}

	discount := decimal.Zero
	coupon = strings.ToUpper(strings.TrimSpace(coupon))
	if coupon == CouponTenOff {
		discount = subtotal.Mul(couponRate).Round(0)
	} else {
		coupon = ""
	}

	return Summary{
		TotalItems:  cart.TotalItems(),
		Subtotal:    domain.NewMoney(subtotal, unit),
		DeliveryFee: domain.NewMoney(fee, unit),
		Discount:    domain.NewMoney(discount, unit),
		Total:       domain.NewMoney(subtotal.Add(fee).Sub(discount), unit),
		Coupon:      coupon,
	}
}

// QuoteFor prices checkout: shipping is free above 1000 and 18% GST is added, rounded to whole units.
func QuoteFor(cart domain.Cart, unit currency.Unit) Quote {
	subtotal := cart.Subtotal()

	shipping := shippingFee
	if subtotal.GreaterThan(freeShippingAbove) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(gstRate).Round(0)

	return Quote{
		TotalItems: cart.TotalItems(),
		Subtotal:   domain.NewMoney(subtotal, unit),
		Shipping:   domain.NewMoney(shipping, unit),
		Tax:        domain.NewMoney(tax, unit),
		Total:      domain.NewMoney(subtotal.Add(shipping).Add(tax), unit),
	}
}
