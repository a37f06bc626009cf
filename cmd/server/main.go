package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/luffy229/blog-omnify/internal/router"
	"github.com/luffy229/blog-omnify/pkg/config"
	"github.com/luffy229/blog-omnify/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Mongo.Database(cfg.MongoDB))

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
