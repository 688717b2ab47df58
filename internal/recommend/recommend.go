// Package recommend suggests products from the catalog using fixed lookup rules.
package recommend

import (
	"fmt"
	"slices"

	"github.com/nikolayk812/cartstore/internal/catalog"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	maxRecommendations = 3
	categoryPoolSize   = 6
)

var priceRangeFactor = decimal.NewFromFloat(1.2)

type Reason string

const (
	ReasonCategory Reason = "category"
	ReasonBrand    Reason = "brand"
	ReasonPopular  Reason = "popular"
)

type Recommendation struct {
	Product     domain.Product
	Reason      Reason
	Explanation string
	Description string
	PriceRange  string
}

type Recommender struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Recommender {
	return &Recommender{catalog: c}
}

// ForCart returns up to three products for the given cart items: products from
// the most common cart category first, then products of brands already in the
// cart, then popular products. Nothing already in the cart is suggested.
func (r *Recommender) ForCart(items []domain.CartItem) []Recommendation {
	if len(items) == 0 {
		return r.explain(r.catalog.Popular(maxRecommendations), nil)
	}

	inCart := make([]domain.ItemID, 0, len(items))
	var brands []string
	for _, item := range items {
		inCart = append(inCart, item.ID)
		if item.Brand != "" {
			brands = append(brands, item.Brand)
		}
	}

	topCategory := mostCommonCategory(items)

	var picked []domain.Product
	if topCategory != "" {
		for _, p := range r.catalog.Filter(catalog.Filter{Categories: []string{topCategory}}) {
			if len(picked) == categoryPoolSize {
				break
			}
			if !slices.Contains(inCart, p.ID) {
				picked = append(picked, p)
			}
		}
	}

	if len(picked) < maxRecommendations && len(brands) > 0 {
		for _, p := range r.catalog.Filter(catalog.Filter{Brands: brands}) {
			if len(picked) == maxRecommendations {
				break
			}
			if !slices.Contains(inCart, p.ID) && !containsProduct(picked, p.ID) {
				picked = append(picked, p)
			}
		}
	}

	if len(picked) < maxRecommendations {
		exclude := slices.Clone(inCart)
		for _, p := range picked {
			exclude = append(exclude, p.ID)
		}
		picked = append(picked, r.catalog.Popular(maxRecommendations-len(picked), exclude...)...)
	}

	return r.explain(picked[:min(len(picked), maxRecommendations)], items)
}

func (r *Recommender) explain(products []domain.Product, items []domain.CartItem) []Recommendation {
	out := make([]Recommendation, 0, len(products))

	for _, p := range products {
		rec := Recommendation{
			Product:     p,
			Reason:      ReasonPopular,
			Explanation: "This is a popular product that many customers enjoy.",
			Description: fmt.Sprintf("%s %s - A high-quality product with %g stars from %d reviews.", p.Brand, p.Title, p.Rating, p.Reviews),
			PriceRange:  fmt.Sprintf("₹%s - ₹%s", p.Price.String(), p.Price.Mul(priceRangeFactor).Round(0).String()),
		}

		switch {
		case slices.ContainsFunc(items, func(i domain.CartItem) bool { return i.Category != "" && i.Category == p.Category }):
			rec.Reason = ReasonCategory
			rec.Explanation = fmt.Sprintf("This complements the %s items in your cart.", p.Category)
		case slices.ContainsFunc(items, func(i domain.CartItem) bool { return i.Brand != "" && i.Brand == p.Brand }):
			rec.Reason = ReasonBrand
			rec.Explanation = fmt.Sprintf("You seem to like %s products.", p.Brand)
		}

		out = append(out, rec)
	}

	return out
}

// mostCommonCategory breaks ties in favour of the category that reached the count first.
func mostCommonCategory(items []domain.CartItem) string {
	counts := make(map[string]int)
	top, best := "", 0

	for _, item := range items {
		if item.Category == "" {
			continue
		}
		counts[item.Category]++
		if counts[item.Category] > best {
			best = counts[item.Category]
			top = item.Category
		}
	}

	return top
}

func containsProduct(products []domain.Product, id domain.ItemID) bool {
	return slices.ContainsFunc(products, func(p domain.Product) bool { return p.ID == id })
}
