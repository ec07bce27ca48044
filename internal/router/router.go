package router

import (
	"github.com/gin-gonic/gin"
	"github.com/stephens-stores/backend/config"
	"github.com/stephens-stores/backend/internal/app/controller"
	"github.com/stephens-stores/backend/internal/middleware"
	"github.com/stephens-stores/backend/internal/response"
)

type Router struct {
	authController     *controller.AuthController
	categoryController *controller.CategoryController
	productController  *controller.ProductController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		categoryController: categoryController,
		productController:  productController,
		cartController:     cartController,
		orderController:    orderController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, err interface{}) {
		log := middleware.GetLoggerFromContext(c)
		log.Error("Panic recovered", nil, map[string]interface{}{
			"panic": err,
			"path":  c.Request.URL.Path,
		})
		response.Internal(c)
		c.Abort()
	}))
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found.")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Stephen's Stores API is running",
		})
	})

	api := router.Group(r.config.Server.BasePath)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", r.authController.Signup)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/profile", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/profile", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
			categories.POST("", r.authMiddleware.Authenticate(), r.categoryController.CreateCategory)
			categories.PUT("/:id", r.authMiddleware.Authenticate(), r.categoryController.UpdateCategory)
			categories.DELETE("/:id", r.authMiddleware.Authenticate(), r.categoryController.DeleteCategory)
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.POST("", r.authMiddleware.Authenticate(), r.productController.CreateProduct)
			products.PATCH("/:id", r.authMiddleware.Authenticate(), r.productController.UpdateProduct)
			products.DELETE("/:id", r.authMiddleware.Authenticate(), r.productController.DeleteProduct)
		}

		cart := api.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.POST("/add", r.cartController.AddToCart)
		}

		orders := api.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/export", r.orderController.ExportOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("", r.orderController.CreateOrder)
			orders.PUT("/:id/status", r.orderController.UpdateStatus)
		}

		uploads := api.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		{
			uploads.POST("/image", r.uploadController.PresignImage)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
