package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"library-server/internal/api"
	"library-server/internal/config"
	"library-server/internal/repository"
	"library-server/internal/seed"
	"library-server/internal/service"
	"library-server/internal/utils"
)

func main() {
	logger := utils.NewLogger()

	// Load configuration
	cfg := config.LoadConfig()

	// Set up the store
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to set up store: %v", err)
	}
	defer db.Close()

	// Create repository
	repo := repository.NewSQLiteRepository(db)

	// Load the sample dataset
	if cfg.Database.SeedSample {
		if err := seed.Load(context.Background(), repo); err != nil {
			logger.Fatal("Failed to seed store: %v", err)
		}
	}

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)

	// Create API handler
	handler := api.NewHandler(svc, logger)

	// Set up Gin router
	router := gin.Default()

	// Add middleware for the session secret and the API rate limit
	router.Use(func(c *gin.Context) {
		c.Set("sessionSecret", []byte(cfg.Auth.SessionSecret))
		c.Next()
	})
	limiter := rate.NewLimiter(rate.Limit(cfg.Rate.RequestsPerSecond), cfg.Rate.Burst)
	router.Use(api.RateLimitMiddleware(limiter))

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
