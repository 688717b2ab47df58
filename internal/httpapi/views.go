package httpapi

import (
	"encoding/json"

	"github.com/nikolayk812/cartstore/internal/budget"
	"github.com/nikolayk812/cartstore/internal/checkout"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/recommend"
	"github.com/nikolayk812/cartstore/internal/voice"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type moneyView struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

type cartView struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	Subtotal   moneyView         `json:"subtotal"`
}

type productView struct {
	ID            domain.ItemID `json:"id"`
	Title         string        `json:"title"`
	Price         json.Number   `json:"price"`
	OriginalPrice json.Number   `json:"originalPrice"`
	Category      string        `json:"category"`
	Brand         string        `json:"brand"`
	Rating        float64       `json:"rating"`
	Reviews       int           `json:"reviews"`
	Image         string        `json:"image"`
	Prime         bool          `json:"prime"`
	InStock       bool          `json:"inStock"`
}

type summaryView struct {
	TotalItems  int       `json:"totalItems"`
	Subtotal    moneyView `json:"subtotal"`
	DeliveryFee moneyView `json:"deliveryFee"`
	Discount    moneyView `json:"discount"`
	Total       moneyView `json:"total"`
	Coupon      string    `json:"coupon,omitempty"`
}

type quoteView struct {
	TotalItems int       `json:"totalItems"`
	Subtotal   moneyView `json:"subtotal"`
	Shipping   moneyView `json:"shipping"`
	Tax        moneyView `json:"tax"`
	Total      moneyView `json:"total"`
}

type orderView struct {
	OrderID       string            `json:"orderId"`
	TransactionID string            `json:"transactionId"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Timestamp     string            `json:"timestamp"`
	Quote         quoteView         `json:"quote"`
	Items         []domain.CartItem `json:"items"`
}

type recommendationView struct {
	ID          domain.ItemID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Reason      string        `json:"reason"`
	Kind        string        `json:"kind"`
	PriceRange  string        `json:"priceRange"`
	ImageURL    string        `json:"imageUrl"`
	Price       json.Number   `json:"price"`
	Rating      float64       `json:"rating"`
	Reviews     int           `json:"reviews"`
	Category    string        `json:"category"`
	Brand       string        `json:"brand"`
}

type assistantView struct {
	Text            string               `json:"text"`
	Recommendations []recommendationView `json:"recommendations"`
}

type voiceView struct {
	Action   string        `json:"action"`
	Phrase   string        `json:"phrase,omitempty"`
	Navigate string        `json:"navigate,omitempty"`
	Product  *productView  `json:"product,omitempty"`
	Products []productView `json:"products,omitempty"`
	Cart     cartView      `json:"cart"`
}

type budgetView struct {
	Limit       moneyView     `json:"limit"`
	Spent       moneyView     `json:"spent"`
	Remaining   moneyView     `json:"remaining"`
	UsedPercent float64       `json:"usedPercent"`
	Level       string        `json:"level"`
	Advice      string        `json:"advice"`
	Affordable  []productView `json:"affordable"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toMoneyView(m domain.Money) moneyView {
	return moneyView{Amount: json.Number(m.Amount.StringFixed(2)), Currency: m.Currency.String()}
}

func toCartView(cart domain.Cart, unit currency.Unit) cartView {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartView{
		Items:      items,
		TotalItems: cart.TotalItems(),
		Subtotal:   toMoneyView(domain.NewMoney(cart.Subtotal(), unit)),
	}
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:            p.ID,
		Title:         p.Title,
		Price:         number(p.Price),
		OriginalPrice: number(p.OriginalPrice),
		Category:      p.Category,
		Brand:         p.Brand,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
		Image:         p.Image,
		Prime:         p.Prime,
		InStock:       p.InStock,
	}
}

func toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

func toSummaryView(s checkout.Summary) summaryView {
	return summaryView{
		TotalItems:  s.TotalItems,
		Subtotal:    toMoneyView(s.Subtotal),
		DeliveryFee: toMoneyView(s.DeliveryFee),
		Discount:    toMoneyView(s.Discount),
		Total:       toMoneyView(s.Total),
		Coupon:      s.Coupon,
	}
}

func toQuoteView(q checkout.Quote) quoteView {
	return quoteView{
		TotalItems: q.TotalItems,
		Subtotal:   toMoneyView(q.Subtotal),
		Shipping:   toMoneyView(q.Shipping),
		Tax:        toMoneyView(q.Tax),
		Total:      toMoneyView(q.Total),
	}
}

func toOrderView(o checkout.Order) orderView {
	return orderView{
		OrderID:       o.ID,
		TransactionID: o.TransactionID,
		Amount:        o.AmountMinor,
		Currency:      o.Quote.Total.Currency.String(),
		Timestamp:     o.PlacedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		Quote:         toQuoteView(o.Quote),
		Items:         o.Items,
	}
}

func toRecommendationViews(recs []recommend.Recommendation) []recommendationView {
	out := make([]recommendationView, 0, len(recs))
	for _, r := range recs {
		out = append(out, recommendationView{
			ID:          r.Product.ID,
			Name:        r.Product.Title,
			Description: r.Description,
			Reason:      r.Explanation,
			Kind:        string(r.Reason),
			PriceRange:  r.PriceRange,
			ImageURL:    r.Product.Image,
			Price:       number(r.Product.Price),
			Rating:      r.Product.Rating,
			Reviews:     r.Product.Reviews,
			Category:    r.Product.Category,
			Brand:       r.Product.Brand,
		})
	}
	return out
}

func toVoiceView(res voice.Result, unit currency.Unit) voiceView {
	v := voiceView{
		Action:   string(res.Command.Action),
		Phrase:   res.Command.Phrase,
		Navigate: string(res.Navigate),
		Cart:     toCartView(res.Cart, unit),
	}
	if res.Product != nil {
		p := toProductView(*res.Product)
		v.Product = &p
	}
	if len(res.Products) > 0 {
		v.Products = toProductViews(res.Products)
	}
	return v
}

func toBudgetView(a budget.Assessment) budgetView {
	return budgetView{
		Limit:       toMoneyView(a.Limit),
		Spent:       toMoneyView(a.Spent),
		Remaining:   toMoneyView(a.Remaining),
		UsedPercent: a.UsedPercent,
		Level:       string(a.Level),
		Advice:      a.Advice,
		Affordable:  toProductViews(a.Affordable),
	}
}
