package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/config"
	"github.com/susvada/storefront-api/controllers"
	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/services"
)

// Dependencies carries the external collaborators the router needs. Tests
// substitute mocks here.
type Dependencies struct {
	Telegram services.TelegramNotifier
	Gift     services.GiftMessageGenerator
	Media    services.MediaStorage
}

func main() {
	log.Println("Starting Susvada storefront API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if err := config.SeedDefaults(db, cfg); err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}

	deps := Dependencies{}
	if cfg.TelegramEnabled() {
		deps.Telegram = services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChatID)
		log.Println("Telegram notifications enabled")
	} else {
		log.Println("Telegram notifications disabled (bot token or chat ID missing)")
	}
	if cfg.GeminiAPIKey != "" {
		deps.Gift = services.NewGeminiService(cfg.GeminiAPIKey)
	}
	if cfg.AWSS3Bucket != "" {
		media, err := services.NewS3MediaStorage(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize media storage: %v", err)
		}
		deps.Media = media
	} else {
		log.Println("AWS_S3_BUCKET not set, using in-memory media storage")
		deps.Media = services.NewMockMediaStorage()
	}

	router := SetupRouter(cfg, db, deps)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// SetupRouter wires every route of the API. It is exported so tests can
// build the full application against an in-memory database.
func SetupRouter(cfg *config.Config, db *gorm.DB, deps Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	orders := services.NewOrderService(db, deps.Telegram)

	authCtl := controllers.NewAuthController(db, cfg.JWTSecret)
	productCtl := controllers.NewProductController(db)
	cartCtl := controllers.NewCartController(db)
	orderCtl := controllers.NewOrderController(db, orders)
	addressCtl := controllers.NewAddressController(db)
	subscriptionCtl := controllers.NewSubscriptionController(db)
	reviewCtl := controllers.NewReviewController(db)
	supportCtl := controllers.NewSupportController(db)
	settingsCtl := controllers.NewSettingsController(db)
	checkoutCtl := controllers.NewCheckoutController(db, cfg.MerchantUPIID)
	giftCtl := controllers.NewGiftController(deps.Gift)
	adminCtl := controllers.NewAdminController(db, orders)
	inventoryCtl := controllers.NewInventoryController(db)
	uploadCtl := controllers.NewUploadController(deps.Media)
	telegramCtl := controllers.NewTelegramController(orders, deps.Telegram, cfg.TelegramAdminChatID)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus(db))

		// Public storefront
		v1.POST("/auth/signup", authCtl.Signup)
		v1.POST("/auth/login", authCtl.Login)
		v1.GET("/products", productCtl.ListProducts)
		v1.GET("/products/:id", productCtl.GetProduct)
		v1.GET("/products/:id/reviews", reviewCtl.ListProductReviews)
		v1.GET("/settings", settingsCtl.PublicSettings)
		v1.POST("/support", middleware.OptionalAuth(cfg.JWTSecret), supportCtl.CreateTicket)
		v1.POST("/gift-message", giftCtl.GenerateGiftMessage)

		// Telegram webhook (authenticated by URL secrecy, as setWebhook requires)
		v1.POST("/telegram/webhook", telegramCtl.Webhook)
		v1.GET("/telegram/webhook", telegramCtl.Status)

		// Signed-in customers
		authed := v1.Group("")
		authed.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			authed.GET("/auth/me", authCtl.Me)
			authed.GET("/cart", cartCtl.GetCart)
			authed.POST("/cart", cartCtl.AddToCart)
			authed.PUT("/cart", cartCtl.UpdateCart)
			authed.DELETE("/cart", cartCtl.ClearCart)
			authed.GET("/addresses", addressCtl.ListAddresses)
			authed.POST("/addresses", addressCtl.CreateAddress)
			authed.PUT("/addresses/:id", addressCtl.UpdateAddress)
			authed.DELETE("/addresses/:id", addressCtl.DeleteAddress)
			authed.POST("/checkout/payment", checkoutCtl.PreparePayment)
			authed.GET("/orders", orderCtl.ListOrders)
			authed.POST("/orders", orderCtl.PlaceOrder)
			authed.GET("/orders/:id", orderCtl.GetOrder)
			authed.POST("/orders/:id/cancel", orderCtl.CancelOrder)
			authed.GET("/subscriptions", subscriptionCtl.ListSubscriptions)
			authed.POST("/subscriptions", subscriptionCtl.CreateSubscription)
			authed.PATCH("/subscriptions/:id", subscriptionCtl.UpdateSubscription)
			authed.POST("/products/:id/reviews", reviewCtl.CreateReview)
		}

		// Back office
		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())
		{
			admin.GET("/dashboard", adminCtl.Dashboard)
			admin.GET("/products", productCtl.AdminListProducts)
			admin.POST("/products", productCtl.CreateProduct)
			admin.PUT("/products/:id", productCtl.UpdateProduct)
			admin.DELETE("/products/:id", productCtl.DeleteProduct)
			admin.GET("/orders", adminCtl.AdminListOrders)
			admin.PATCH("/orders/:code/status", adminCtl.AdminUpdateOrderStatus)
			admin.GET("/refunds", adminCtl.AdminListRefunds)
			admin.PATCH("/refunds/:id/settle", adminCtl.AdminSettleRefund)
			admin.GET("/customers", adminCtl.ListCustomers)
			admin.PATCH("/customers/:id/block", adminCtl.SetCustomerBlocked)
			admin.POST("/customers/:id/reset-password", adminCtl.ResetCustomerPassword)
			admin.GET("/reviews", reviewCtl.AdminListReviews)
			admin.DELETE("/reviews/:id", reviewCtl.AdminDeleteReview)
			admin.GET("/support", supportCtl.AdminListTickets)
			admin.PATCH("/support/:id", supportCtl.AdminUpdateTicket)
			admin.GET("/settings", settingsCtl.AdminListSettings)
			admin.PUT("/settings", settingsCtl.AdminUpdateSettings)
			admin.GET("/inventory/export", inventoryCtl.ExportInventory)
			admin.POST("/inventory/import", inventoryCtl.ImportInventory)
			admin.POST("/uploads/product-image", uploadCtl.UploadProductImage)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Susvada storefront API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to get database instance",
				},
			})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
		})
	}
}
