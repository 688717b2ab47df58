package httpapi

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.log))

	router.GET("/health", h.Health)

	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
	router.POST("/products/:id/cart", h.AddProduct)
	router.GET("/categories", h.ListCategories)

	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.GET("/count", h.CartCount)
		cart.GET("/summary", h.CartSummary)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:id", h.UpdateItem)
		cart.DELETE("/items/:id", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
		cart.POST("/reload", h.ReloadCart)
	}

	router.GET("/checkout/quote", h.Quote)
	router.POST("/checkout", h.PlaceOrder)
	router.GET("/recommendations", h.Recommendations)
	router.POST("/assistant", h.Assistant)
	router.GET("/budget", h.GetBudget)
	router.PUT("/budget", h.SetBudget)
	router.POST("/voice", h.Voice)

	return router
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.InfoContext(c.Request.Context(), "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
