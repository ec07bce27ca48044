package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stephens-stores/backend/config"
	"github.com/stephens-stores/backend/internal/app/controller"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/internal/app/service"
	"github.com/stephens-stores/backend/internal/db"
	"github.com/stephens-stores/backend/internal/middleware"
	"github.com/stephens-stores/backend/internal/router"
	"github.com/stephens-stores/backend/internal/scheduler"
	"github.com/stephens-stores/backend/internal/storage"
	"github.com/stephens-stores/backend/pkg/logger"
	"github.com/stephens-stores/backend/pkg/mailer"
	"github.com/stephens-stores/backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Stephen's Stores Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (optional, used for the token blacklist)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Failed to connect to Redis, logout blacklist disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	emailLogRepo := repository.NewEmailLogRepository(db.GetDB())

	// Initialize services
	mail := mailer.NewSMTPMailer(&cfg.SMTP)
	authService := service.NewAuthService(
		userRepo,
		emailLogRepo,
		mail,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.Secret)
	categoryController := controller.NewCategoryController(categoryService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the stale cart cleanup scheduler
	cartCleanup := scheduler.NewCartCleanupScheduler(cartRepo)
	if err := cartCleanup.Start(); err != nil {
		logger.Warn("Failed to start cart cleanup scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer cartCleanup.Stop()
	}

	// Setup router
	r := router.NewRouter(
		authController,
		categoryController,
		productController,
		cartController,
		orderController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
