package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"saheli-store/internal/handlers"
)

// RegisterRoutes registra la superficie HTTP completa. Las rutas con
// segmento literal (/status, /receipt) van antes del catch-all /:id.
func RegisterRoutes(router *gin.Engine, ph *handlers.ProductHandler, oh *handlers.OrderHandler, env string) {
	api := router.Group("/api")

	products := api.Group("/products")
	{
		products.GET("", ph.GetProducts)
		products.POST("", ph.CreateProduct)
		products.PATCH("/:id/toggle", ph.ToggleHighlight)
		products.GET("/:id", ph.GetProductByID)
		products.PUT("/:id", ph.UpdateProduct)
		products.DELETE("/:id", ph.DeleteProduct)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", oh.CreateOrder)
		orders.GET("", oh.GetOrders)
		orders.GET("/status/:status", oh.GetOrdersByStatus)
		orders.GET("/receipt/download/:id", oh.DownloadReceipt)
		orders.GET("/receipt/:id", oh.GenerateReceipt)
		orders.GET("/:id", oh.GetOrderByID)
		orders.PUT("/:id", oh.UpdateOrder)
		orders.DELETE("/:id", oh.DeleteOrder)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Saheli Store API Running Successfully",
			"environment": env,
			"serverTime":  time.Now().Format(time.RFC3339),
		})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found: " + c.Request.URL.Path,
		})
	})
}
