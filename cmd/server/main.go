package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jelajah/tour-booking-backend/internal/cache"
	"github.com/jelajah/tour-booking-backend/internal/config"
	"github.com/jelajah/tour-booking-backend/internal/database"
	"github.com/jelajah/tour-booking-backend/internal/fixture"
	"github.com/jelajah/tour-booking-backend/internal/handlers"
	"github.com/jelajah/tour-booking-backend/internal/middleware"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/jelajah/tour-booking-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
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

	logger.Info("Starting Jelajah tour booking backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatalf("Failed to register request validators: %v", err)
	}

	ctx := context.Background()

	// Select the data source
	var (
		stores services.Stores
		pinger handlers.Pinger
	)
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		db, err := database.NewConnection(cfg.Database, logger)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		logger.Info("Database connection established")
		stores = database.NewStores(db)
		pinger = db
	case config.DataSourceFixture:
		logger.Warn("Using in-memory demo data; nothing is persisted")
		stores = fixture.NewDemoStore().Stores()
	}

	// Optional Redis: location cache and chat rate counters
	var rateCounter services.RequestCounter = services.NewMemoryCounter()
	if cfg.Redis.URL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, continuing without cache")
		} else {
			defer redisClient.Close()
			stores.LocationCache = cache.NewLocationCache(redisClient, cfg.Redis.LocationTTL, logger)
			rateCounter = cache.NewRateCounter(redisClient)
			logger.Info("Redis connected: location cache and chat rate limit enabled")
		}
	}
	if memory, ok := rateCounter.(*services.MemoryCounter); ok {
		go sweepRateWindows(ctx, memory, cfg.AI.RateWindow)
	}

	// Optional Gemini chat replies
	var generator services.ContentGenerator
	if cfg.AI.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiGenerator(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model, cfg.AI.Timeout)
		if err != nil {
			logger.WithError(err).Warn("Gemini unavailable, chat uses template replies")
		} else {
			generator = gemini
			logger.WithField("model", cfg.AI.Model).Info("Gemini chat replies enabled")
		}
	}

	svc := services.New(stores, generator, logger)
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)
	rateLimitService := services.NewRateLimitService(rateCounter, cfg.AI.RateLimit, cfg.AI.RateWindow, logger)
	logger.Info("Services initialized")

	// Completion job
	var cronService *services.CronService
	if cfg.Cron.Enabled {
		loc, _ := time.LoadLocation(cfg.Cron.Timezone)
		cronService = services.NewCronService(svc.Bookings, cfg.Cron.CompletionSchedule, loc, logger)
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	err = handlers.RegisterRoutes(router, handlers.RouteDeps{
		Services:       svc,
		RateLimit:      rateLimitService,
		JWT:            jwtService,
		Health:         handlers.NewHealthHandler(cfg.DataSource, pinger),
		Logger:         logger,
		TrustedProxies: cfg.Server.TrustedProxies,
	})
	if err != nil {
		logger.Fatalf("Failed to register routes: %v", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"data_source": cfg.DataSource,
			"environment": cfg.Server.Environment,
		}).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if cronService != nil {
		cronService.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}

// sweepRateWindows drops expired in-memory chat rate windows
func sweepRateWindows(ctx context.Context, counter *services.MemoryCounter, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			counter.Cleanup()
		}
	}
}
