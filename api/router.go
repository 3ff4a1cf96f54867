package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafepos/internal/catalog"
	"cafepos/internal/checkout"
	"cafepos/internal/store"
)

// InitRoutes wires the catalog and checkout services over the given
// bridge, hydrates both from the durable store, and registers every
// endpoint on the Gin engine.
func InitRoutes(e *gin.Engine, bridge store.Bridge, logger *zap.Logger) error {
	catalogStore := catalog.NewStore()
	catalogService := catalog.NewService(catalogStore, bridge, logger)
	if err := catalogService.Hydrate(); err != nil {
		return err
	}

	checkoutService := checkout.NewService(catalogStore, bridge, logger)
	if err := checkoutService.Hydrate(); err != nil {
		return err
	}

	// Single active cart; the core is single-terminal.
	cart := checkout.NewCart(catalogStore)

	catalogHandler := NewCatalogHandler(catalogService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, cart, logger)

	e.GET("/products", catalogHandler.handleListProducts)
	e.PUT("/products", catalogHandler.handleUpsertProduct)
	e.DELETE("/products/:id", catalogHandler.handleRemoveProduct)
	e.POST("/products/:id/decrement", catalogHandler.handleDecrementStock)

	e.GET("/cart", checkoutHandler.handleGetCart)
	e.POST("/cart/items", checkoutHandler.handleAddItem)
	e.PATCH("/cart/items/:id", checkoutHandler.handleUpdateItem)
	e.DELETE("/cart/items/:id", checkoutHandler.handleRemoveItem)
	e.DELETE("/cart", checkoutHandler.handleClearCart)

	e.POST("/sales", checkoutHandler.handleCompleteSale)
	e.GET("/sales", checkoutHandler.handleListSales)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	return nil
}
