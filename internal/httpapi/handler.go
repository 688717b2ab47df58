// Package httpapi exposes the storefront over HTTP with gin.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/cartstore/internal/budget"
	"github.com/nikolayk812/cartstore/internal/cartstore"
	"github.com/nikolayk812/cartstore/internal/catalog"
	"github.com/nikolayk812/cartstore/internal/checkout"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/recommend"
	"github.com/nikolayk812/cartstore/internal/voice"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Handler struct {
	cart        *cartstore.Store
	catalog     *catalog.Catalog
	recommender *recommend.Recommender
	checkout    *checkout.Service
	voice       *voice.Executor
	budget      *budget.Planner
	unit        currency.Unit
	log         *slog.Logger
}

func NewHandler(
	cart *cartstore.Store,
	cat *catalog.Catalog,
	recommender *recommend.Recommender,
	checkoutSvc *checkout.Service,
	executor *voice.Executor,
	planner *budget.Planner,
	unit currency.Unit,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		cart:        cart,
		catalog:     cat,
		recommender: recommender,
		checkout:    checkoutSvc,
		voice:       executor,
		budget:      planner,
		unit:        unit,
		log:         log,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListProducts(c *gin.Context) {
	f := catalog.Filter{
		Search:     c.Query("q"),
		MinPrice:   queryDecimal(c, "min_price"),
		MaxPrice:   queryDecimal(c, "max_price"),
		Brands:     queryList(c, "brand"),
		Categories: queryList(c, "category"),
		Sort:       catalog.ParseSortOrder(c.Query("sort")),
	}
	if r, err := strconv.ParseFloat(c.Query("min_rating"), 64); err == nil {
		f.MinRating = r
	}

	ok(c, "Products retrieved", toProductViews(h.catalog.Filter(f)))
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.catalog.ByID(domain.ParseItemID(c.Param("id")))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "Product retrieved", toProductView(p))
}

func (h *Handler) ListCategories(c *gin.Context) {
	ok(c, "Categories retrieved", gin.H{
		"categories": h.catalog.Categories(),
		"brands":     h.catalog.Brands(),
	})
}

func (h *Handler) GetCart(c *gin.Context) {
	ok(c, "Cart retrieved", toCartView(h.cart.Cart(c.Request.Context()), h.unit))
}

func (h *Handler) CartCount(c *gin.Context) {
	ok(c, "Cart count retrieved", gin.H{"count": h.cart.Cart(c.Request.Context()).TotalItems()})
}

// AddItem accepts any JSON object as a product; missing fields are defaulted.
func (h *Handler) AddItem(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, err)
		return
	}

	cart, err := h.cart.Add(c.Request.Context(), json.RawMessage(body))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response{Status: "success", Message: "Item added", Data: toCartView(cart, h.unit)})
}

// AddProduct puts a catalog product into the cart.
func (h *Handler) AddProduct(c *gin.Context) {
	p, err := h.catalog.ByID(domain.ParseItemID(c.Param("id")))
	if err != nil {
		h.fail(c, err)
		return
	}

	cart, err := h.cart.Add(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response{Status: "success", Message: "Item added", Data: toCartView(cart, h.unit)})
}

type updateQtyRequest struct {
	Qty *json.Number `json:"qty"`
}

func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Qty == nil {
		h.fail(c, fmt.Errorf("%w: qty is required", domain.ErrInvalidInput))
		return
	}

	requested, err := domain.ParseDecimal(req.Qty.String())
	if err != nil {
		h.fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	qty := 0
	if requested.IsPositive() {
		qty = domain.NormalizeQty(requested)
	}

	cart := h.cart.UpdateQuantity(c.Request.Context(), h.cartItemID(c), qty)
	ok(c, "Quantity updated", toCartView(cart, h.unit))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	cart := h.cart.Remove(c.Request.Context(), h.cartItemID(c))
	ok(c, "Item removed", toCartView(cart, h.unit))
}

// cartItemID resolves the :id path segment against the current cart, so a
// string id such as "42" stays reachable next to numeric ids.
func (h *Handler) cartItemID(c *gin.Context) domain.ItemID {
	return h.cart.Cart(c.Request.Context()).ResolveID(c.Param("id"))
}

func (h *Handler) ClearCart(c *gin.Context) {
	ok(c, "Cart cleared", toCartView(h.cart.Clear(c.Request.Context()), h.unit))
}

func (h *Handler) ReloadCart(c *gin.Context) {
	ok(c, "Cart reloaded", toCartView(h.cart.Reload(c.Request.Context()), h.unit))
}

func (h *Handler) CartSummary(c *gin.Context) {
	ok(c, "Cart summary", toSummaryView(h.checkout.Summary(c.Request.Context(), c.Query("coupon"))))
}

func (h *Handler) Quote(c *gin.Context) {
	ok(c, "Checkout quote", toQuoteView(h.checkout.Quote(c.Request.Context())))
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	order, err := h.checkout.PlaceOrder(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response{Status: "success", Message: "Order placed", Data: toOrderView(order)})
}

func (h *Handler) Recommendations(c *gin.Context) {
	cart := h.cart.Cart(c.Request.Context())
	ok(c, "Recommendations", toRecommendationViews(h.recommender.ForCart(cart.Items)))
}

type assistantRequest struct {
	Query     string         `json:"query" binding:"required"`
	ProductID *domain.ItemID `json:"productId"`
}

func (h *Handler) Assistant(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	var viewing *domain.Product
	if req.ProductID != nil {
		p, err := h.catalog.ByID(*req.ProductID)
		if err != nil {
			h.fail(c, err)
			return
		}
		viewing = &p
	}

	reply := h.recommender.Respond(req.Query, viewing)
	ok(c, reply.Text, assistantView{
		Text:            reply.Text,
		Recommendations: toRecommendationViews(reply.Recommendations),
	})
}

type voiceRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) Voice(c *gin.Context) {
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	res, err := h.voice.Execute(c.Request.Context(), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, res.Message, toVoiceView(res, h.unit))
}

func (h *Handler) GetBudget(c *gin.Context) {
	ctx := c.Request.Context()
	ok(c, "Budget", toBudgetView(h.budget.Assess(ctx, h.cart.Cart(ctx))))
}

type budgetRequest struct {
	Limit *json.Number `json:"limit"`
}

func (h *Handler) SetBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Limit == nil {
		h.fail(c, fmt.Errorf("%w: limit is required", domain.ErrInvalidInput))
		return
	}

	limit, err := domain.ParseDecimal(req.Limit.String())
	if err != nil {
		h.fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	ctx := c.Request.Context()
	if err := h.budget.SetLimit(ctx, limit); err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "Budget updated", toBudgetView(h.budget.Assess(ctx, h.cart.Cart(ctx))))
}

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, response{Status: "success", Message: message, Data: data})
}

func (h *Handler) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.log.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.Any("error", err),
		)
	}
	c.AbortWithStatusJSON(code, response{Status: "error", Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, voice.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, voice.ErrNotUnderstood):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func queryDecimal(c *gin.Context, key string) decimal.Decimal {
	d, err := domain.ParseDecimal(c.Query(key))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// queryList accepts both repeated keys and comma separated values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
