package api

import (
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/apperr"
	"pos-service/internal/cart"
	"pos-service/internal/service"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	checkout *service.CheckoutProcessor
	stock    *service.StockService
	receipts *service.ReceiptService
	catalog  *service.CatalogService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	checkout *service.CheckoutProcessor,
	stock *service.StockService,
	receipts *service.ReceiptService,
	catalog *service.CatalogService,
) *Handler {
	return &Handler{
		checkout: checkout,
		stock:    stock,
		receipts: receipts,
		catalog:  catalog,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/checkout", h.postCheckout)
		v1.POST("/cart/totals", h.postCartTotals)
		v1.POST("/stock/adjustments", h.postStockAdjustment)
		v1.GET("/stock/adjustments/:sku", h.getStockAdjustments)
		v1.GET("/products/:sku", h.getProduct)
		v1.GET("/sales/:id/receipt", h.getReceipt)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// CartLineRequest is one requested (SKU, quantity) pair
type CartLineRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// CheckoutRequest carries a full session cart plus the acting employee
// and selected customer
type CheckoutRequest struct {
	EmployeeID int64             `json:"employee_id" binding:"required"`
	CustomerID int64             `json:"customer_id"`
	Items      []CartLineRequest `json:"items"`
}

// buildCart replays the request lines through the cart so the same
// validation applies as in an interactive session
func (h *Handler) buildCart(c *gin.Context, lines []CartLineRequest) (*cart.Cart, bool) {
	sessionCart := cart.New()
	for _, line := range lines {
		if err := sessionCart.Add(c.Request.Context(), h.catalog, line.SKU, line.Quantity); err != nil {
			respondError(c, err)
			return nil, false
		}
	}
	return sessionCart, true
}

// postCheckout handles checkout requests
func (h *Handler) postCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sessionCart, ok := h.buildCart(c, req.Items)
	if !ok {
		return
	}

	saleID, err := h.checkout.Checkout(c.Request.Context(), sessionCart, req.EmployeeID, req.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sale_id": saleID})
}

// postCartTotals returns the pre-commit estimate for a cart at current
// catalog prices
func (h *Handler) postCartTotals(c *gin.Context) {
	var req struct {
		Items []CartLineRequest `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sessionCart, ok := h.buildCart(c, req.Items)
	if !ok {
		return
	}

	totals, err := sessionCart.Totals(c.Request.Context(), h.catalog)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// StockAdjustmentRequest is a manual stock change with an audit reason
type StockAdjustmentRequest struct {
	SKU        string `json:"sku" binding:"required"`
	Delta      int    `json:"delta" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	EmployeeID int64  `json:"employee_id" binding:"required"`
}

// postStockAdjustment handles manual stock adjustments
func (h *Handler) postStockAdjustment(c *gin.Context) {
	var req StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.stock.AdjustStock(c.Request.Context(), req.SKU, req.Delta, req.Reason, req.EmployeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// getStockAdjustments returns the audit trail for a SKU
func (h *Handler) getStockAdjustments(c *gin.Context) {
	adjustments, err := h.stock.Adjustments(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"adjustments": adjustments})
}

// getProduct returns a catalog product
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// getReceipt returns the receipt for a committed sale
func (h *Handler) getReceipt(c *gin.Context) {
	saleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	receipt, err := h.receipts.ReceiptFor(c.Request.Context(), saleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// respondError maps the error taxonomy onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInsufficientStock, apperr.KindConcurrencyConflict:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"error":   apperr.KindOf(err).String(),
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
