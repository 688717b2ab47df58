// Package catalog serves the static, read-only product list of the storefront.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/shopspring/decimal"
)

//go:embed products.json
var productsJSON []byte

var ErrProductNotFound = errors.New("product not found")

type Catalog struct {
	products []domain.Product
}

// Load parses the embedded product list.
func Load() (*Catalog, error) {
	var products []domain.Product
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return New(products), nil
}

func New(products []domain.Product) *Catalog {
	return &Catalog{products: slices.Clone(products)}
}

func (c *Catalog) All() []domain.Product {
	return slices.Clone(c.products)
}

func (c *Catalog) ByID(id domain.ItemID) (domain.Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// Categories lists the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	return distinct(c.products, func(p domain.Product) string { return p.Category })
}

// Brands lists the distinct brands in catalog order.
func (c *Catalog) Brands() []string {
	return distinct(c.products, func(p domain.Product) string { return p.Brand })
}

// Popular returns up to n products ranked by rating weighted with the log of
// the review count, skipping excluded ids.
func (c *Catalog) Popular(n int, exclude ...domain.ItemID) []domain.Product {
	candidates := slices.DeleteFunc(c.All(), func(p domain.Product) bool {
		return slices.Contains(exclude, p.ID)
	})

	slices.SortStableFunc(candidates, func(a, b domain.Product) int {
		return cmpDesc(PopularityScore(a), PopularityScore(b))
	})

	return candidates[:min(max(n, 0), len(candidates))]
}

func PopularityScore(p domain.Product) float64 {
	return p.Rating * math.Log(float64(p.Reviews)+1)
}

func distinct(products []domain.Product, key func(domain.Product) string) []string {
	var out []string
	for _, p := range products {
		k := key(p)
		if k != "" && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

func cmpDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func priceInRange(price, minPrice, maxPrice decimal.Decimal) bool {
	if !minPrice.IsZero() && price.LessThan(minPrice) {
		return false
	}
	if !maxPrice.IsZero() && price.GreaterThan(maxPrice) {
		return false
	}
	return true
}
