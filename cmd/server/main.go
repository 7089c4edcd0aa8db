package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/vahango/rental-gateway/internal/config"
	"github.com/vahango/rental-gateway/internal/database"
	"github.com/vahango/rental-gateway/internal/handlers"
	"github.com/vahango/rental-gateway/internal/middleware"
	"github.com/vahango/rental-gateway/internal/services"
	"github.com/vahango/rental-gateway/internal/upstream"
	"github.com/vahango/rental-gateway/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Vahango Rental Gateway")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Redis is optional; on failure the draft and snapshot layers fall
	// back to in-process memory
	redisClient := config.NewRedisClient(cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	upstreamClient := upstream.NewClient(cfg.Upstream, logger)
	auditRepository := database.NewCheckoutAuditRepository(db, logger)

	draftService := services.NewDraftService(redisClient, cfg.Redis.DraftTTL, logger)
	catalogService := services.NewCatalogService(upstreamClient, redisClient, logger)
	eventPublisher := services.NewEventPublisher(cfg.Events, logger)
	checkoutService := services.NewCheckoutService(
		upstreamClient,
		draftService,
		auditRepository,
		eventPublisher,
		cfg.Gateway,
		logger,
	)
	workflowService := services.NewWorkflowService(upstreamClient, auditRepository, eventPublisher, logger)

	// Initialize and start cron service
	cronService := services.NewCronService(catalogService, auditRepository)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	logger.Info("Cron service started - catalog refresh and checkout reconciliation enabled")

	logger.Info("Services initialized")

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService, upstreamClient)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	draftHandler := handlers.NewDraftHandler(draftService)
	bookingHandler := handlers.NewBookingHandler(workflowService, upstreamClient)
	profileHandler := handlers.NewProfileHandler(upstreamClient)
	reviewHandler := handlers.NewReviewHandler(upstreamClient)
	adminHandler := handlers.NewAdminHandler(upstreamClient, auditRepository)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public catalog browsing
		v1.GET("/vehicles", catalogHandler.Browse)
		v1.GET("/vehicles/:id", catalogHandler.GetVehicle)
		v1.GET("/vehicles/:id/owner", catalogHandler.GetOwner)
		v1.GET("/reviews/host/:id", reviewHandler.GetHostReviews)

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService))
		{
			authed.POST("/checkout", checkoutHandler.Checkout)

			authed.POST("/drafts", draftHandler.Create)
			authed.GET("/drafts/:token", draftHandler.Get)
			authed.DELETE("/drafts/:token", draftHandler.Delete)

			authed.GET("/bookings/renter", bookingHandler.ListRenterBookings)
			authed.GET("/bookings/owner", middleware.RequireRole("owner"), bookingHandler.ListOwnerBookings)
			authed.PATCH("/bookings/:id/status", middleware.RequireRole("owner"), bookingHandler.UpdateStatus)
			authed.PATCH("/bookings/:id/payment-status", middleware.RequireRole("owner"), bookingHandler.UpdatePaymentStatus)

			authed.GET("/profile", profileHandler.GetProfile)
			authed.POST("/profile/license", profileHandler.SubmitLicense)
			authed.GET("/profile/business", profileHandler.GetBusinessProfile)
			authed.PUT("/profile/business", profileHandler.UpdateBusinessProfile)

			authed.POST("/reviews", reviewHandler.AddReview)
		}

		// Admin routes guarded by the admin API key
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(cfg.Admin.KeyHash))
		{
			admin.GET("/verifications", adminHandler.ListVerifications)
			admin.PATCH("/verifications/:id", adminHandler.ReviewVerification)
			admin.GET("/audits", adminHandler.ListAudits)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	logger.Info("Stopping cron service...")
	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		// Record authorization presence, never the token itself
		fields["has_auth"] = c.GetHeader("Authorization") != ""

		if user, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = user.UserID
			fields["roles"] = user.Roles
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			switch {
			case status >= 500:
				entry.Error("Request completed with server error")
			case status >= 400:
				entry.Warn("Request completed with client error")
			default:
				entry.Info("Request completed successfully")
			}
		}
	}
}

func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
