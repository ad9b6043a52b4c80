package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/database"
	"github.com/foodbridge-api/internal/service"
	"github.com/foodbridge-api/pkg/logger"
)

// healthCheckTimeout bounds each backend ping made by /health
const healthCheckTimeout = 2 * time.Second

// Backends are the optional external stores behind the registries and
// sessions. Nil fields are not configured.
type Backends struct {
	DB    *database.DB
	Redis *database.RedisClient
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, backends Backends, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, log)
	donationHandler := NewDonationHandler(services, log)
	requestHandler := NewRequestHandler(services, log)
	userHandler := NewUserHandler(services, log)
	beneficiaryHandler := NewBeneficiaryHandler(services, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(backends, log))
	router.GET("/metrics", metricsHandler(services, backends))

	// API v1
	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/logout", requireSession(services.Auth), authHandler.Logout)
			auth.GET("/session", requireSession(services.Auth), authHandler.Session)
		}

		// Everything below needs a signed-in session; roles are not checked
		protected := v1.Group("", requireSession(services.Auth))

		donations := protected.Group("/donations")
		{
			donations.POST("", donationHandler.Post)
			donations.GET("", donationHandler.ListAll)
			donations.GET("/mine", donationHandler.ListMine)
			donations.GET("/:id", donationHandler.Get)
			donations.PATCH("/:id", donationHandler.Update)
			donations.DELETE("/:id", donationHandler.Delete)
		}

		requests := protected.Group("/requests")
		{
			requests.POST("", requestHandler.Create)
			requests.GET("", requestHandler.ListAll)
			requests.GET("/mine", requestHandler.ListMine)
			requests.PATCH("/:id", requestHandler.Update)
			requests.DELETE("/:id", requestHandler.Delete)
			requests.POST("/:id/cancel", requestHandler.Cancel)
		}

		users := protected.Group("/users")
		{
			users.GET("", userHandler.List)
			users.POST("", userHandler.Add)
			users.PATCH("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
			users.POST("/:id/approve", userHandler.Approve)
			users.POST("/:id/suspend", userHandler.Suspend)
			users.POST("/:id/reject", userHandler.Reject)
		}

		beneficiaries := protected.Group("/beneficiaries")
		{
			beneficiaries.GET("", beneficiaryHandler.List)
			beneficiaries.POST("", beneficiaryHandler.Add)
			beneficiaries.PATCH("/:id", beneficiaryHandler.Update)
			beneficiaries.DELETE("/:id", beneficiaryHandler.Delete)
		}

		protected.GET("/stats", statsHandler(services))
		protected.GET("/exports", exportHandler.StreamExport)
	}

	return router
}

// healthCheck pings the configured backends and reports 503 when any fails
func healthCheck(backends Backends, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}
		healthy := true

		check := func(name string, ping func(context.Context) error) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.Warn().Err(err).Str("backend", name).Msg("Health check failed")
				checks[name] = "unhealthy"
				healthy = false
				return
			}
			checks[name] = "healthy"
		}

		if backends.DB != nil {
			check("database", backends.DB.HealthCheck)
		}
		if backends.Redis != nil {
			check("redis", backends.Redis.HealthCheck)
		}

		status, code := "healthy", http.StatusOK
		if !healthy {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		})
	}
}

// metricsHandler returns registry sizes and, for Postgres, pool statistics
func metricsHandler(services *service.Services, backends Backends) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := services.Stats.Counts(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		body := gin.H{
			"registries": counts,
			"timestamp":  time.Now().Format(time.RFC3339),
		}

		if backends.DB != nil {
			stats := backends.DB.Stats()
			body["database"] = gin.H{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"wait_count":       stats.WaitCount,
				"max_open":         stats.MaxOpenConnections,
			}
		}

		c.JSON(http.StatusOK, body)
	}
}

// statsHandler returns the dashboard figures
func statsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := services.Stats.Dashboard(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", SessionHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
