package main

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/Jaydub333/social-wallet-api2/docs" // Import generated docs
	"github.com/Jaydub333/social-wallet-api2/internal/auth"
	"github.com/Jaydub333/social-wallet-api2/internal/billing"
	"github.com/Jaydub333/social-wallet-api2/internal/config"
	"github.com/Jaydub333/social-wallet-api2/internal/controllers"
	"github.com/Jaydub333/social-wallet-api2/internal/database"
	"github.com/Jaydub333/social-wallet-api2/internal/gifts"
	"github.com/Jaydub333/social-wallet-api2/internal/middleware"
	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/Jaydub333/social-wallet-api2/internal/payments"
	"github.com/Jaydub333/social-wallet-api2/internal/services"
	"github.com/Jaydub333/social-wallet-api2/internal/wallet"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	configuration *config.Config

	brokerService  *auth.Broker
	walletService  *wallet.Service
	giftService    *gifts.Service
	paymentService *payments.Service
	billingSweeper *billing.Sweeper

	authController    *controllers.AuthController
	oauthController   *controllers.OAuthController
	profileController *controllers.ProfileController
	walletController  *controllers.WalletController
	giftController    *controllers.GiftController
	paymentController *controllers.PaymentController
	clientController  *controllers.ClientController

	rateLimiter *middleware.RateLimiter
)

// @title Social Wallet API
// @version 1.0
// @description Multi-tenant social profile and coin wallet backend with OAuth-style data sharing
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize rate limiter (disabled when REDIS_URL is unset)
	rateLimiter = setupRateLimiter(configuration)

	// Initialize services and controllers
	brokerService = auth.NewBroker(db)
	walletService = wallet.NewService(db)
	giftService = gifts.NewService(db, walletService)
	paymentService = payments.NewService(db, walletService)
	billingSweeper = billing.NewSweeper(db)

	userService := services.NewUserService(db)
	clientService := services.NewClientService(db)

	authController = controllers.NewAuthController(userService, configuration.JWTSecret)
	oauthController = controllers.NewOAuthController(brokerService)
	profileController = controllers.NewProfileController(userService)
	walletController = controllers.NewWalletController(walletService)
	giftController = controllers.NewGiftController(giftService)
	paymentController = controllers.NewPaymentController(paymentService, configuration.PaymentWebhookSecret)
	clientController = controllers.NewClientController(clientService, billingSweeper)

	// Schedule the monthly subscription sweep
	if err := billingSweeper.Start(); err != nil {
		log.WithError(err).Fatal("Failed to schedule billing sweep")
	}
	defer billingSweeper.Stop()

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  "disable",
		Path:     conf.DBPath,
	})
	checkPanicErr(err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.AuthorizationCode{},
		&models.AccessToken{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Gift{},
		&models.GiftTransaction{},
		&models.Payment{},
	)
	checkPanicErr(err)

	// Seed the gift catalog only if it is empty
	var count int64
	db.Model(&models.Gift{}).Count(&count)
	if count == 0 {
		log.Info("Gift catalog is empty, seeding initial data")
		seedGiftCatalog()
	}
	return db
}

// seedGiftCatalog seeds the gift catalog with a starter set
func seedGiftCatalog() {
	catalog := []models.Gift{
		{Name: "Rose", IconURL: "/icons/rose.png", CoinPrice: 10, Active: true},
		{Name: "Confetti", IconURL: "/icons/confetti.png", CoinPrice: 25, Active: true},
		{Name: "Gold Star", IconURL: "/icons/gold-star.png", CoinPrice: 100, Active: true},
		{Name: "Diamond", IconURL: "/icons/diamond.png", CoinPrice: 500, Active: true, Limited: true, QuantityCap: 1000},
	}
	for _, gift := range catalog {
		db.Create(&gift)
	}
	log.Info("Gift catalog seeded successfully")
}

// setupRateLimiter connects to Redis when configured; a nil client disables
// rate limiting so local development does not require Redis.
func setupRateLimiter(conf *config.Config) *middleware.RateLimiter {
	var client *redis.Client
	if conf.RedisURL != "" {
		opts, err := redis.ParseURL(conf.RedisURL)
		checkPanicErr(err)
		client = redis.NewClient(opts)
		log.Info("Redis rate limiter enabled")
	} else {
		log.Warn("REDIS_URL not set, rate limiting disabled")
	}
	return middleware.NewRateLimiter(client, conf.RateLimitRequests, time.Duration(conf.RateLimitWindow)*time.Second)
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	router := gin.Default()

	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	jwtSecret := []byte(configuration.JWTSecret)

	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// OAuth endpoints for third-party platforms
	oauth := router.Group("/oauth")
	{
		oauth.GET("/authorize", middleware.OptionalJWTAuth(jwtSecret), oauthController.Authorize)
		oauth.POST("/token", rateLimiter.Limit("token"), oauthController.Token)
		oauth.POST("/revoke", oauthController.Revoke)
		oauth.GET("/userinfo", middleware.AccessTokenAuth(brokerService), oauthController.UserInfo)
	}

	// Payment processor webhook
	router.POST("/webhooks/payments", paymentController.Webhook)

	v1 := router.Group("/api/v1")
	{
		publicApi := v1.Group("/public")
		{
			publicApi.GET("/gifts", giftController.ListGifts)
		}

		// Authentication routes (public but for auth purposes)
		authApi := v1.Group("/auth")
		{
			authApi.POST("/register", authController.Register)
			authApi.POST("/login", authController.Login)
		}

		// Data-sharing routes for platforms holding an access token
		shared := v1.Group("/shared")
		shared.Use(middleware.AccessTokenAuth(brokerService))
		{
			shared.GET("/users/:user_id/profile", middleware.RequireScope(auth.ScopeProfile), profileController.GetSharedProfile)
		}

		// Protected routes (requires user session JWT)
		protectedApi := v1.Group("/protected")
		protectedApi.Use(middleware.JWTAuth(jwtSecret))
		{
			protectedApi.GET("/profile", profileController.GetOwnProfile)
			protectedApi.PUT("/profile", profileController.UpdateOwnProfile)

			protectedApi.GET("/wallet", walletController.GetBalance)
			protectedApi.GET("/wallet/transactions", walletController.GetHistory)
			protectedApi.POST("/wallet/transfer", walletController.Transfer)

			protectedApi.POST("/gifts/send", rateLimiter.Limit("gift-send"), giftController.SendGift)

			protectedApi.POST("/payments/topup", paymentController.CreateTopUp)

			protectedApi.POST("/clients", clientController.CreateClient)
			protectedApi.GET("/clients", clientController.ListClients)
			protectedApi.DELETE("/clients/:id", clientController.DeleteClient)

			adminApi := protectedApi.Group("/admin")
			adminApi.Use(middleware.RequireRole("admin"))
			{
				adminApi.POST("/gifts", giftController.CreateGift)
				adminApi.PUT("/gifts/:id", giftController.UpdateGift)
				adminApi.POST("/wallets/:user_id/lock", walletController.SetLock)
				adminApi.POST("/clients/:id/renew", clientController.RenewSubscription)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "social-wallet-api",
	})
}
