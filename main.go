package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"recipeshare/internal/config"
	"recipeshare/internal/database"
	"recipeshare/internal/handlers"
	"recipeshare/internal/middleware"
	"recipeshare/internal/repositories"
	"recipeshare/internal/services"
	"recipeshare/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize RabbitMQ Client ---
	// Events are optional; without RABBITMQ_URL nothing is published.
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, domain events are disabled")
	}

	app := newApp(cfg, db, events)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp wires repositories, services and handlers into a Fiber app.
// events may be nil.
func newApp(cfg *config.Config, db *gorm.DB, events services.EventPublisher) *fiber.App {
	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	socialRepo := repositories.NewGORMSocialRepository(db)
	photoRepo := repositories.NewGORMPhotoRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(userRepo)
	recipeService := services.NewRecipeService(recipeRepo, events)
	searchService := services.NewSearchService(recipeRepo)
	socialService := services.NewSocialService(recipeRepo, socialRepo, events)
	photoService := services.NewPhotoService(recipeRepo, photoRepo, cfg.UploadDir, cfg.MaxUploadBytes, events)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, searchService)
	socialHandler := handlers.NewSocialHandler(socialService)
	photoHandler := handlers.NewPhotoHandler(photoService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimitBytes,
	})

	// --- Middleware ---
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.ReplaceAll(cfg.CORSOrigins, " ", ""),
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// --- Static uploads ---
	app.Static("/uploads", cfg.UploadDir)

	// --- API Routes ---
	api := app.Group("/api")
	requireAuth := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, requireAuth)
	recipeHandler.RegisterRoutes(api, requireAuth)
	socialHandler.RegisterRoutes(api, requireAuth)
	photoHandler.RegisterRoutes(api, requireAuth)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": events != nil,
		}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status["status"] = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	})

	return app
}
