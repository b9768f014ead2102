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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lingora/lingora-api/config"
	"github.com/lingora/lingora-api/internal/cache"
	"github.com/lingora/lingora-api/internal/database/postgres"
	"github.com/lingora/lingora-api/internal/handlers"
	"github.com/lingora/lingora-api/internal/middleware"
	"github.com/lingora/lingora-api/internal/repository"
	"github.com/lingora/lingora-api/internal/scheduling"
	"github.com/lingora/lingora-api/internal/services"
	"github.com/lingora/lingora-api/pkg/db"
	"github.com/lingora/lingora-api/pkg/httpclient"
	"github.com/lingora/lingora-api/pkg/jwt"
	"github.com/lingora/lingora-api/pkg/logger"
	"github.com/lingora/lingora-api/pkg/metrics"
	"github.com/lingora/lingora-api/pkg/profiling"
	"github.com/lingora/lingora-api/pkg/storage"
	"github.com/lingora/lingora-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerPublicRoutes registers the public catalog and calendar routes
func registerPublicRoutes(
	group *gin.RouterGroup,
	cfg *config.Config,
	generalRateLimiter *middleware.RateLimiter,
	mentorHandler *handlers.MentorHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	calendarHandler *handlers.CalendarHandler,
	tokenManager *jwt.TokenManager,
) {
	// The calendar route tolerates anonymous visitors; the session, when
	// present, only upgrades the viewer role for the mentor's own calendar.
	optionalSession := middleware.OptionalSessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)

	group.GET("/mentors", generalRateLimiter.Middleware(), mentorHandler.GetMentors)
	group.GET("/mentors/:id", generalRateLimiter.Middleware(), mentorHandler.GetMentorByID)
	group.GET("/mentors/slug/:slug", generalRateLimiter.Middleware(), mentorHandler.GetMentorBySlug)
	group.GET("/mentors/:id/availability", generalRateLimiter.Middleware(), availabilityHandler.GetMentorAvailability)
	group.GET("/mentors/:id/calendar", generalRateLimiter.Middleware(), optionalSession, calendarHandler.GetMentorCalendar)
	group.GET("/languages", generalRateLimiter.Middleware(), mentorHandler.GetLanguages)

	group.POST("/internal/mentors", generalRateLimiter.Middleware(), middleware.InternalAPIAuthMiddleware(cfg.Auth.InternalAPIToken), mentorHandler.GetInternalMentors)
}

// registerAuthRoutes registers passwordless login and account registration
func registerAuthRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authRateLimiter, registrationRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	tokenManager *jwt.TokenManager,
) {
	auth := router.Group("/api/v1/auth")
	auth.POST("/request-login", authRateLimiter.Middleware(), authHandler.RequestLogin)
	auth.POST("/verify", authHandler.VerifyLogin)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", middleware.SessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure), authHandler.GetSession)
	auth.POST("/register/mentor", registrationRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.RegisterMentor)
	auth.POST("/register/mentee", registrationRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.RegisterMentee)
}

// registerAccountRoutes registers the session-protected mentor, booking and
// calendar routes
func registerAccountRoutes(
	router *gin.Engine,
	cfg *config.Config,
	profileRateLimiter *middleware.RateLimiter,
	profileHandler *handlers.ProfileHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	calendarHandler *handlers.CalendarHandler,
	tokenManager *jwt.TokenManager,
) {
	session := middleware.SessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)

	// Mentor self-service routes
	mentor := router.Group("/api/v1/mentor")
	mentor.Use(session, middleware.RequireRole("mentor"))
	mentor.GET("/profile", profileHandler.GetProfile)
	mentor.PUT("/profile", profileRateLimiter.Middleware(), profileHandler.UpdateProfile)
	mentor.POST("/profile/avatar", profileRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), profileHandler.UploadAvatar)
	mentor.GET("/availability", availabilityHandler.GetOwnAvailability)
	mentor.POST("/availability", availabilityHandler.AddRange)
	mentor.PUT("/availability/:slotId", availabilityHandler.UpdateRange)
	mentor.DELETE("/availability/:slotId", availabilityHandler.DeleteRange)
	mentor.POST("/availability/delete-slot", availabilityHandler.DeleteOccurrence)

	// Booking routes, shared by mentors and mentees
	bookings := router.Group("/api/v1/bookings")
	bookings.Use(session)
	bookings.POST("", middleware.BodySizeLimitMiddleware(100*1024), bookingHandler.CreateBooking)
	bookings.GET("", bookingHandler.ListBookings)
	bookings.GET("/:id", bookingHandler.GetBooking)
	bookings.PATCH("/:id/status", bookingHandler.UpdateBookingStatus)

	// Own calendar, projected into the caller's timezone
	me := router.Group("/api/v1/me")
	me.Use(session)
	me.GET("/calendar", calendarHandler.GetOwnCalendar)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Lingora API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.CollectorEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling (no-op unless enabled)
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL client
	client, err := postgres.NewClient(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database client", zap.Error(err))
	}
	defer client.Close()

	// NOTE: Database migrations are run separately via the migrate command
	// before starting the app: ./migrate or docker-compose run migrate

	// Initialize avatar storage client
	var storageClient *storage.Client
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		storageClient, err = storage.NewClient(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			cfg.Storage.BucketName,
			cfg.Storage.Endpoint,
			cfg.Storage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize storage client", zap.Error(err))
		}
	}

	// The data source joins mentors with their availability rows; both the
	// caches and the repository read through it.
	dataSource := repository.NewMentorDataSource(client, client)

	var mentorCache *cache.MentorCache
	if cfg.Cache.DisableMentorCache {
		logger.Warn("Mentor cache is DISABLED - reading from database on every request (experimental feature)")
	} else {
		mentorCache = cache.NewMentorCache(dataSource, cfg.Cache.MentorTTLSeconds)
	}
	languagesCache := cache.NewLanguagesCache(dataSource)

	// Passing the interface value through a nil check avoids handing the
	// repository a typed-nil cache when caching is disabled.
	var cacheForRepo repository.MentorCacheInterface
	if mentorCache != nil {
		cacheForRepo = mentorCache
	}
	mentorRepo := repository.NewMentorRepository(client, dataSource, cacheForRepo)

	// Populate the caches synchronously before accepting requests, so the
	// container only reports healthy once the catalog is servable.
	if mentorCache != nil {
		if err := mentorCache.Initialize(); err != nil {
			logger.Fatal("Failed to initialize mentor cache", zap.Error(err))
		}
	}
	if err := languagesCache.Initialize(); err != nil {
		logger.Fatal("Failed to initialize languages cache", zap.Error(err))
	}

	// Initialize HTTP client for webhook triggers
	httpClient := httpclient.NewStandardClient()

	clock := scheduling.SystemClock()

	// Same typed-nil hazard as the cache above: the service only checks the
	// interface value against nil.
	var storageForService services.StorageClient
	if storageClient != nil {
		storageForService = storageClient
	}

	// Initialize services
	mentorService := services.NewMentorService(mentorRepo, languagesCache, storageForService, cfg)
	availabilityService := services.NewAvailabilityService(client, mentorRepo, cfg, httpClient)
	bookingService := services.NewBookingService(client, client, mentorRepo, clock, cfg, httpClient)
	calendarService := services.NewCalendarService(client, client, mentorRepo, clock, cfg)
	authService := services.NewAuthService(mentorRepo, client, cfg, httpClient)

	// Initialize handlers
	mentorHandler := handlers.NewMentorHandler(mentorService, cfg.Server.BaseURL)
	profileHandler := handlers.NewProfileHandler(mentorService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	authHandler := handlers.NewAuthHandler(authService, mentorService)
	// Health check: if the cache is disabled, always report it ready
	cacheReadyFunc := func() bool { return true }
	if mentorCache != nil {
		cacheReadyFunc = mentorCache.IsReady
	}
	healthHandler := handlers.NewHealthHandler(cacheReadyFunc)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "x-internal-lingora-api-auth-token", "X-CSRF-Token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for session cookies
		MaxAge:           12 * time.Hour,
	}))

	// SECURITY: Rate limiters to prevent abuse and DoS attacks
	// Different limits for different endpoint types
	generalRateLimiter := middleware.NewRateLimiter(100, 200)        // 100 req/sec, burst of 200
	profileRateLimiter := middleware.NewRateLimiter(10, 20)          // 10 req/sec, burst of 20
	registrationRateLimiter := middleware.NewRateLimiter(0.00667, 3) // 2 req/5min (0.00667 req/sec), burst of 3
	authRateLimiter := middleware.NewRateLimiter(0.00667, 2)         // 2 req/5min (0.00667 req/sec), burst of 2 (login abuse prevention)

	tokenManager := authService.GetTokenManager()

	// API routes
	api := router.Group("/api")
	// Utility endpoints (not versioned - operational endpoints)
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := router.Group("/api/v1")
	registerPublicRoutes(v1, cfg, generalRateLimiter, mentorHandler, availabilityHandler, calendarHandler, tokenManager)

	// Authentication and registration routes
	registerAuthRoutes(router, cfg, authRateLimiter, registrationRateLimiter, authHandler, tokenManager)

	// Session-protected account routes
	registerAccountRoutes(router, cfg, profileRateLimiter, profileHandler, availabilityHandler, bookingHandler, calendarHandler, tokenManager)

	// Create HTTP server
	// SECURITY: Bind to all interfaces for Docker Compose networking
	// Network isolation is enforced by Docker Compose (backend has no public ports)
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
