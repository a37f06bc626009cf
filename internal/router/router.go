package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/luffy229/blog-omnify/internal/handlers"
	"github.com/luffy229/blog-omnify/internal/middleware"
	"github.com/luffy229/blog-omnify/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	blogRepo := repositories.NewMongoBlogRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)

	// Public routes and protected routes share the /api prefix; only the
	// protected group carries the JWT middleware.
	api := e.Group("/api")
	protected := e.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(api)
	log.Println("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo, blogRepo, notificationRepo)
	userHandler.RegisterProfileRoutes(protected)
	userHandler.RegisterPublicRoutes(api)
	log.Println("User routes configured.")

	blogHandler := handlers.NewBlogHandler(blogRepo, userRepo, notificationRepo)
	blogHandler.RegisterPublicRoutes(api)
	blogHandler.RegisterProtectedRoutes(protected)
	log.Println("Blog routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, blogRepo)
	notificationHandler.RegisterNotificationRoutes(protected)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
