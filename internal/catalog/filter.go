package catalog

import (
	"slices"
	"strings"

	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/shopspring/decimal"
)

type SortOrder string

const (
	SortNone       SortOrder = ""
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
	SortRating     SortOrder = "rating"
	SortPopularity SortOrder = "popularity"
)

// ParseSortOrder maps unknown values to SortNone.
func ParseSortOrder(s string) SortOrder {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortPriceAsc, SortPriceDesc, SortRating, SortPopularity:
		return order
	default:
		return SortNone
	}
}

// Filter narrows the catalog. Zero values disable a criterion.
type Filter struct {
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
	Brands     []string
	Categories []string
	MinRating  float64
	// Search matches title, brand or category, case-insensitively.
	Search string
	Sort   SortOrder
}

func (c *Catalog) Filter(f Filter) []domain.Product {
	search := strings.TrimSpace(f.Search)

	var out []domain.Product
	for _, p := range c.products {
		if !priceInRange(p.Price, f.MinPrice, f.MaxPrice) {
			continue
		}
		if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
			continue
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
			continue
		}
		if p.Rating < f.MinRating {
			continue
		}
		if search != "" && !containsFold(p.Title, search) && !containsFold(p.Brand, search) && !containsFold(p.Category, search) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.Sort)
	return out
}

func sortProducts(products []domain.Product, order SortOrder) {
	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(products, func(a, b domain.Product) int { return cmpDesc(a.Rating, b.Rating) })
	case SortPopularity:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmpDesc(PopularityScore(a), PopularityScore(b))
		})
	}
}
