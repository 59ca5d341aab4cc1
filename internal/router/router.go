// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/snehalata/aura-backend/internal/ai"
	"github.com/snehalata/aura-backend/internal/config"
	"github.com/snehalata/aura-backend/internal/handlers"
	"github.com/snehalata/aura-backend/internal/middleware"
	"github.com/snehalata/aura-backend/internal/navigation"
	"github.com/snehalata/aura-backend/internal/services"
	"github.com/snehalata/aura-backend/internal/store"
	"github.com/snehalata/aura-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, gateway *ai.Gateway) *gin.Engine {
	// Commerce state rides the state_blobs table
	commerce := store.New(store.NewGormBackend(db), store.Config{
		ShippingFee: cfg.Payment.ShippingFee,
	})

	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	authService := services.NewAuthService(db, cfg)
	vendorService := services.NewVendorService(db, gateway)
	productService := services.NewProductService(db, gateway)
	paymentService := services.NewPaymentService(db, cfg)
	statsService := services.NewStatsService(db, commerce, gateway)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	vendorHandler := handlers.NewVendorHandler(vendorService)
	productHandler := handlers.NewProductHandler(productService, storageService, gateway)
	cartHandler := handlers.NewCartHandler(commerce, productService, paymentService, gateway)
	orderHandler := handlers.NewOrderHandler(commerce)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	studioHandler := handlers.NewStudioHandler(gateway, vendorService, productService, storageService)
	navigationHandler := handlers.NewNavigationHandler(navigation.AppTable(), navigation.NewHub())
	statsHandler := handlers.NewStatsHandler(statsService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Navigation routes (public, backs shared deep links)
		nav := v1.Group("/navigation")
		{
			nav.GET("/resolve", navigationHandler.Resolve)
			nav.GET("/location", navigationHandler.GetLocation)
			nav.POST("/location", navigationHandler.SetLocation)
		}

		// Vendor routes
		vendors := v1.Group("/vendors")
		{
			vendors.GET("", vendorHandler.List)
			vendors.GET("/slug/:slug", vendorHandler.GetBySlug)
			vendors.GET("/:id", vendorHandler.Get)
			vendors.POST("/apply", middleware.OptionalAuth(), vendorHandler.Apply)
			vendors.POST("/:id/products", middleware.AuthRequired(), middleware.VendorRequired(), productHandler.Create)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/search", productHandler.Search)
			products.GET("/popular", productHandler.Popular)
			products.GET("/:id", productHandler.Get)
			products.GET("/:id/style-suggestion", productHandler.StyleSuggestion)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired(), middleware.VendorRequired())
			{
				protected.PUT("/:id", productHandler.Update)
				protected.POST("/upload", middleware.UploadRateLimit(), productHandler.UploadImage)
			}
		}

		// Cart routes (session or account scoped)
		cart := v1.Group("/cart")
		cart.Use(middleware.OptionalAuth())
		{
			cart.GET("", cartHandler.Get)
			cart.POST("/items", cartHandler.AddItem)
			cart.PATCH("/items/:productId", cartHandler.UpdateItem)
			cart.DELETE("/items/:productId", cartHandler.RemoveItem)
			cart.POST("/checkout", cartHandler.Checkout)
			cart.GET("/recommendations", cartHandler.Recommendations)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.OptionalAuth())
		{
			orders.GET("", orderHandler.List)
			orders.GET("/:orderId", orderHandler.Get)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.OptionalAuth())
		{
			payments.POST("/intent", paymentHandler.CreateIntent)
		}

		// Studio routes (generative operations)
		studio := v1.Group("/studio")
		studio.Use(middleware.OptionalAuth())
		{
			studio.POST("/chat", studioHandler.Chat)
			studio.GET("/status", studioHandler.Status)
			studio.GET("/grounded", studioHandler.GroundedSearch)

			generation := studio.Group("")
			generation.Use(middleware.StudioRateLimit())
			{
				generation.POST("/image", studioHandler.GenerateImage)
				generation.POST("/edit", studioHandler.EditImage)
				generation.POST("/try-on", studioHandler.TryOn)
				generation.POST("/video", studioHandler.GenerateVideo)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/stats", statsHandler.Ecosystem)
			admin.GET("/payments", paymentHandler.History)
			admin.POST("/vendors/:id/re-audit", vendorHandler.ReAudit)
			admin.PUT("/vendors/:id/status", vendorHandler.SetStatus)
			admin.POST("/orders/:orderId/advance", orderHandler.Advance)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
