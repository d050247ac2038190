package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/auth"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/config"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/database"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/ops"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/provider"
)

func main() {
	cfg := config.Load()

	if err := database.Connect(cfg.DBDriver, cfg.DBDSN); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	db, err := database.Get()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users, groups, roles := provider.New(db, cfg.ProviderID)

	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Ops API (service token required)
	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		opsHandler := ops.NewHandler(users, groups, roles)
		opsHandler.RegisterRoutes(api)
	}

	log.Printf("Starting fedbridge server on :%s (provider %q)", cfg.Port, cfg.ProviderID)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
