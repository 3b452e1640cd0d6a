package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"khao-backend/config"
	"khao-backend/handlers"
	"khao-backend/otp"
	"khao-backend/repository"
	"khao-backend/routes"
	"khao-backend/services"
	"khao-backend/sms"
	"khao-backend/token"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// OTP challenge store
	var otpStore otp.Store
	switch cfg.OTPStore {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		otpStore = otp.NewRedisStore(client)
	default:
		otpStore = otp.NewMemoryStore()
	}

	// Out-of-band OTP delivery
	var sender sms.Sender
	switch cfg.SMSProvider {
	case "twilio":
		sender, err = sms.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
		if err != nil {
			log.WithError(err).Fatal("Failed to configure Twilio sender")
		}
	default:
		sender = sms.NewConsoleSender(log)
	}

	otpManager := otp.NewManager(otpStore, sender, cfg.OTPDigits, cfg.OTPExpiry, cfg.DevOTPCode)
	issuer := token.NewIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	authSvc := services.NewAuthService(userRepo, otpManager, issuer, log)
	restaurantSvc := services.NewRestaurantService(restaurantRepo, log)
	menuSvc := services.NewMenuService(menuRepo, restaurantRepo, log)

	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "KHAO Marketplace API",
			"version": "1.0.0",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the KHAO Marketplace API",
			"health":  "/health",
			"roles":   []string{"customer", "restaurant", "delivery_agent", "support_agent", "admin"},
		})
	})

	routes.SetupRoutes(r, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authSvc),
		Restaurant: handlers.NewRestaurantHandler(restaurantSvc),
		Admin:      handlers.NewAdminHandler(restaurantSvc),
		Menu:       handlers.NewMenuHandler(menuSvc),
		Public:     handlers.NewPublicHandler(menuSvc),
	}, issuer)

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}
