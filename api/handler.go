package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cafepos/internal/catalog"
	"cafepos/internal/checkout"
)

// catalogHandler implements the HTTP surface for catalog management.
type catalogHandler struct {
	catalogService *catalog.Service
	logger         *zap.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService *catalog.Service, logger *zap.Logger) *catalogHandler {
	return &catalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// handleListProducts handles the GET /products endpoint.
func (h *catalogHandler) handleListProducts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.catalogService.List())
}

// handleUpsertProduct handles the PUT /products endpoint.
func (h *catalogHandler) handleUpsertProduct(ctx *gin.Context) {
	var p catalog.Product
	if err := ctx.ShouldBindJSON(&p); err != nil {
		h.logger.Warn("failed to bind product payload", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.catalogService.Upsert(p); err != nil {
		h.logger.Error("failed to upsert product", zap.String("product_id", p.ID), zap.Error(err))
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// handleRemoveProduct handles the DELETE /products/:id endpoint.
func (h *catalogHandler) handleRemoveProduct(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.catalogService.Remove(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// handleDecrementStock handles the POST /products/:id/decrement endpoint,
// the management path for stock adjustments outside a sale.
func (h *catalogHandler) handleDecrementStock(ctx *gin.Context) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	id := ctx.Param("id")
	if err := h.catalogService.DecrementStock(id, req.Amount); err != nil {
		h.logger.Error("failed to decrement stock", zap.String("product_id", id), zap.Int("amount", req.Amount), zap.Error(err))
		respondError(ctx, err)
		return
	}

	p, err := h.catalogService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

// checkoutHandler implements the HTTP surface for the active cart and the
// sales ledger. The single cart mirrors the single-terminal deployment.
type checkoutHandler struct {
	checkoutService *checkout.Service
	cart            *checkout.Cart
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new checkout handler bound to the active cart.
func NewCheckoutHandler(checkoutService *checkout.Service, cart *checkout.Cart, logger *zap.Logger) *checkoutHandler {
	return &checkoutHandler{
		checkoutService: checkoutService,
		cart:            cart,
		logger:          logger,
	}
}

// handleGetCart handles the GET /cart endpoint.
func (h *checkoutHandler) handleGetCart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"lines":    h.cart.Lines(),
		"subtotal": h.cart.Subtotal(),
	})
}

// handleAddItem handles the POST /cart/items endpoint. An omitted
// quantity means one unit.
func (h *checkoutHandler) handleAddItem(ctx *gin.Context) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.cart.AddItem(req.ProductID, req.Quantity); err != nil {
		h.logger.Warn("failed to add cart item",
			zap.String("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"lines": h.cart.Lines(), "subtotal": h.cart.Subtotal()})
}

// handleUpdateItem handles the PATCH /cart/items/:id endpoint.
func (h *checkoutHandler) handleUpdateItem(ctx *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.cart.UpdateQuantity(ctx.Param("id"), req.Quantity); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"lines": h.cart.Lines(), "subtotal": h.cart.Subtotal()})
}

// handleRemoveItem handles the DELETE /cart/items/:id endpoint.
func (h *checkoutHandler) handleRemoveItem(ctx *gin.Context) {
	h.cart.RemoveItem(ctx.Param("id"))
	ctx.Status(http.StatusNoContent)
}

// handleClearCart handles the DELETE /cart endpoint.
func (h *checkoutHandler) handleClearCart(ctx *gin.Context) {
	h.cart.Clear()
	ctx.Status(http.StatusNoContent)
}

// handleCompleteSale handles the POST /sales endpoint.
func (h *checkoutHandler) handleCompleteSale(ctx *gin.Context) {
	var req struct {
		Discount decimal.Decimal    `json:"discount"`
		Payments []checkout.Payment `json:"payments"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.checkoutService.CompleteSale(h.cart, req.Discount, req.Payments)
	if err != nil {
		h.logger.Warn("sale rejected", zap.Error(err))
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

// handleListSales handles the GET /sales endpoint, most recent first.
func (h *checkoutHandler) handleListSales(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.checkoutService.Sales())
}

// respondError maps the core's error taxonomy onto HTTP statuses.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrOutOfStock), errors.Is(err, catalog.ErrInsufficientStock):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrPaymentMismatch):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrInvalidPayment),
		errors.Is(err, checkout.ErrInvalidDiscount),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, catalog.ErrEmptyID):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrPersistence), errors.Is(err, catalog.ErrPersistence):
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
