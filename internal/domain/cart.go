package domain

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type Cart struct {
	Items []CartItem
}

type CartItem struct {
	ID    ItemID
	Title string
	Price decimal.Decimal
	Image string
	Qty   int

	Rating   float64
	Reviews  int
	Category string
	Brand    string

	// Extra keeps unrecognised product fields verbatim so they survive a round trip.
	Extra map[string]json.RawMessage
}

// NewCart builds a cart that satisfies the cart invariants: items without an id
// or with a non-positive quantity are dropped, and repeated ids are merged into
// the first occurrence with their quantities summed.
func NewCart(items ...CartItem) Cart {
	cart := Cart{Items: make([]CartItem, 0, len(items))}

	for _, item := range items {
		if item.ID.IsZero() || item.Qty <= 0 {
			continue
		}
		if i := cart.index(item.ID); i >= 0 {
			cart.Items[i].Qty = capQty(cart.Items[i].Qty + item.Qty)
			continue
		}
		item = item.clone()
		item.Qty = capQty(item.Qty)
		cart.Items = append(cart.Items, item)
	}

	return cart
}

func (c Cart) Find(id ItemID) (CartItem, bool) {
	i := c.index(id)
	if i < 0 {
		return CartItem{}, false
	}
	return c.Items[i], true
}

func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Qty
	}
	return total
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ResolveID maps an id written as text, such as a URL path segment, to the
// entry it names. Text that reads as a JSON number names the numeric id when
// the cart holds one; otherwise the string id of the same text is tried. When
// neither is in the cart the parsed id is returned.
func (c Cart) ResolveID(s string) ItemID {
	parsed := ParseItemID(s)
	if parsed.IsNumeric() && c.index(parsed) < 0 {
		if asString := StringID(strings.TrimSpace(s)); c.index(asString) >= 0 {
			return asString
		}
	}
	return parsed
}

// WithAdded returns the cart after adding one unit of item. An existing entry
// keeps its fields and gains one unit; a new entry is appended with item.Qty.
func (c Cart) WithAdded(item CartItem) Cart {
	next := c.Clone()

	if i := next.index(item.ID); i >= 0 {
		next.Items[i].Qty = capQty(next.Items[i].Qty + 1)
		return next
	}

	item = item.clone()
	item.Qty = capQty(max(item.Qty, 1))
	next.Items = append(next.Items, item)

	return next
}

func (c Cart) Without(id ItemID) Cart {
	next := c.Clone()
	next.Items = slices.DeleteFunc(next.Items, func(item CartItem) bool {
		return item.ID == id
	})
	return next
}

// WithQuantity sets the quantity of id. Quantities below one remove the item.
func (c Cart) WithQuantity(id ItemID, qty int) Cart {
	if qty <= 0 {
		return c.Without(id)
	}

	next := c.Clone()
	if i := next.index(id); i >= 0 {
		next.Items[i].Qty = capQty(qty)
	}
	return next
}

// WithoutOrdered subtracts the ordered quantities from the matching entries and
// drops entries that reach zero. Units added after the order was taken stay.
func (c Cart) WithoutOrdered(ordered []CartItem) Cart {
	next := c.Clone()

	for _, o := range ordered {
		i := next.index(o.ID)
		if i < 0 {
			continue
		}
		next.Items[i].Qty -= o.Qty
		if next.Items[i].Qty <= 0 {
			next.Items = slices.Delete(next.Items, i, i+1)
		}
	}

	return next
}

func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		items[i] = item.clone()
	}
	return Cart{Items: items}
}

func (c Cart) index(id ItemID) int {
	return slices.IndexFunc(c.Items, func(item CartItem) bool {
		return item.ID == id
	})
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

func (i CartItem) clone() CartItem {
	if i.Extra != nil {
		extra := make(map[string]json.RawMessage, len(i.Extra))
		for k, v := range i.Extra {
			extra[k] = slices.Clone(v)
		}
		i.Extra = extra
	}
	return i
}
