package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"saheli-store/internal/cache"
	"saheli-store/internal/config"
	"saheli-store/internal/database"
	"saheli-store/internal/handlers"
	"saheli-store/internal/receipt"
	"saheli-store/internal/repository"
	"saheli-store/internal/routes"
)

func main() {
	cfg := config.LoadConfig()

	client := database.Connect(cfg.MongoURI)
	db := client.Database(cfg.MongoDB)

	productRepo := repository.NewMongoProductRepository(db.Collection("products"))
	orderRepo := repository.NewMongoOrderRepository(db.Collection("orders"))

	queryCache := cache.New(cfg.CacheTTL)
	generator := receipt.New(cfg.StoreName)

	exposeErrors := !cfg.IsProduction()
	productHandler := handlers.NewProductHandler(productRepo, queryCache, exposeErrors)
	orderHandler := handlers.NewOrderHandler(orderRepo, generator, exposeErrors)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Println("panic recovered:", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal Server Error",
		})
	}))

	routes.RegisterRoutes(router, productHandler, orderHandler, cfg.Env)

	log.Println("Server running on port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server error:", err)
	}
}
