package domain

import "github.com/shopspring/decimal"

// Product is a read-only catalog record.
type Product struct {
	ID            ItemID          `json:"id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	Image         string          `json:"image"`
	Prime         bool            `json:"prime"`
	InStock       bool            `json:"inStock"`
}
