package main

import (
	"log"
	"time"

	"contactly-be/internal/cache"
	"contactly-be/internal/config"
	"contactly-be/internal/controllers"
	"contactly-be/internal/database"
	"contactly-be/internal/imagehost"
	"contactly-be/internal/jwt"
	"contactly-be/internal/mailer"
	"contactly-be/internal/middleware"
	"contactly-be/internal/repository"
	"contactly-be/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis (%v). Continuing without cache and redis rate limits.", err)
		cacheClient = nil
	} else {
		log.Println("Connected to Redis")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTL)*time.Hour,
		time.Duration(cfg.JWTRefreshTTL)*time.Hour,
	)

	// Initialize external collaborators
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	images := imagehost.NewClient(cfg.ImageHostURL, cfg.ImageHostAPIKey)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, mail, images, cfg.BaseURL)
	contactService := service.NewContactService(contactRepo)
	quoteService := service.NewQuoteService(quoteRepo, cacheClient, cfg.QuotePageSize)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(authService)
	contactController := controllers.NewContactController(contactService)
	quoteController := controllers.NewQuoteController(quoteService)
	qrcodeController := controllers.NewQRCodeController(contactService)

	// Initialize rate limiters
	generalRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	authRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst)
	contactRateLimiter := middleware.NewRedisRateLimiter(cacheClient, cfg.ContactLimitTimes, cfg.ContactLimitWindow)

	// Create a Gin router
	router := gin.Default()

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API v1 routes group with general rate limiting
	api := router.Group("/api/v1")
	api.Use(generalRateLimiter.LimitMiddleware())
	{
		// Auth routes with stricter rate limiting
		auth := api.Group("/auth")
		auth.Use(authRateLimiter.LimitMiddleware())
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/refresh", authController.Refresh)
			auth.GET("/confirm/:token", authController.ConfirmEmail)
		}

		// Public quote browsing (use general rate limiting from group)
		api.GET("/quotes", quoteController.ListQuotes)
		api.GET("/tags/top", quoteController.TopTags)
		api.GET("/authors/:id", quoteController.GetAuthor)

		// Protected routes - require JWT authentication
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			protected.GET("/users/me", userController.Me)
			protected.PATCH("/users/avatar", userController.UpdateAvatar)

			// Contact routes carry a per-route redis quota
			// (5 requests per minute by default)
			contacts := protected.Group("/contacts")
			contacts.Use(contactRateLimiter.LimitMiddleware())
			{
				contacts.POST("", contactController.Create)
				contacts.GET("", contactController.List)
				contacts.GET("/search", contactController.Search)
				contacts.GET("/birthdays", contactController.UpcomingBirthdays)
				contacts.GET("/:id", contactController.Get)
				contacts.PUT("/:id", contactController.Update)
				contacts.DELETE("/:id", contactController.Remove)
				contacts.GET("/:id/qrcode", qrcodeController.ContactQRCode)
			}

			protected.POST("/quotes", quoteController.CreateQuote)
			protected.POST("/authors", quoteController.CreateAuthor)
		}
	}

	// Start the server on port 8080
	log.Println("Server starting on http://localhost:8080")
	router.Run(":8080")
}
