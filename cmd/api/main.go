package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/atomic"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/availability"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/booking"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/catalog"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/topup"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/wallet"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/notification"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/repository/memory"
	timeProvider "github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production, cfg.Logger.Level)
	defer appLogger.Flush()

	tp := timeProvider.NewRealTimeProvider()
	ctx := context.Background()

	// Storage
	var (
		uow       persistence.UnitOfWork
		dbManager *database.Manager
	)
	switch cfg.Database.Driver {
	case "memory":
		appLogger.Warn("Running on the in-memory store; data is lost on exit", nil)
		uow = memory.NewUnitOfWork(memory.NewStore())
	default:
		dbManager = database.NewManager(database.NewConfig(cfg), appLogger, tp)
		if _, err := dbManager.Connect(ctx); err != nil {
			appLogger.Error("Failed to connect to database", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer dbManager.Close()

		if err := dbManager.Migrate(ctx); err != nil {
			appLogger.Error("Failed to run migrations", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		uow = dbManager.NewUnitOfWork()
	}

	runner := atomic.NewRunner(uow, retryConfig(cfg.Transaction), appLogger)
	walletLedger := wallet.NewLedger(tp, appLogger)

	// Notifications never block startup: an unreachable broker yields the Unavailable client
	notifier := notification.New(notification.Config{
		Enabled:        cfg.Notification.Enabled,
		URL:            cfg.Notification.URL,
		Exchange:       cfg.Notification.Exchange,
		RoutingKey:     cfg.Notification.RoutingKey,
		QueueSize:      cfg.Notification.QueueSize,
		PublishTimeout: cfg.Notification.PublishTimeout,
	}, appLogger)

	// Initialize use cases
	accounts := account.NewUseCase(runner, walletLedger, tp, appLogger)
	screens := catalog.NewUseCase(runner, tp, appLogger)
	coordinator := booking.NewCoordinator(runner, booking.NewRevalidator(tp), walletLedger, notifier,
		tp, appLogger, cfg.Booking.LoyaltyPointsPerBooking)
	workflow := topup.NewWorkflow(runner, walletLedger, tp, appLogger)
	calculator := availability.NewCalculator(runner, tp, appLogger)

	if cfg.Seed.Enabled {
		if err := migration.SeedDemoData(ctx, accounts, screens, appLogger); err != nil {
			appLogger.Error("Failed to seed demo data", map[string]any{"error": err.Error()})
		}
	}

	limiter, redisClient := newLimiter(ctx, cfg, tp, appLogger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var pinger handler.Pinger
	if dbManager != nil {
		pinger = dbManager
	}

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, cfg.Server.AllowedOrigins, tp, appLogger)
	routes.SetupRoutes(router, routes.Handlers{
		Health:  handler.NewHealthHandler(pinger, tp, appLogger),
		Screens: handler.NewScreenHandler(screens, calculator, appLogger),
		Booking: handler.NewBookingHandler(coordinator, accounts, appLogger),
		Account: handler.NewAccountHandler(accounts, appLogger),
		TopUps:  handler.NewTopUpHandler(workflow, appLogger),
	}, routes.Security{
		Auth:    middleware.AuthConfig{Secret: cfg.Auth.JWTSecret, Issuer: cfg.Auth.Issuer},
		Limiter: limiter,
	}, tp, appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":   server.Addr,
			"env":    cfg.Environment,
			"driver": cfg.Database.Driver,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}

	// Drain queued confirmations after the last request finished
	if err := notifier.Close(shutdownCtx); err != nil {
		appLogger.Warn("Notification queue not drained", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// retryConfig converts the transaction settings, keeping defaults for unset values
func retryConfig(tc config.TransactionConfig) atomic.RetryConfig {
	rc := atomic.DefaultRetryConfig()
	if tc.MaxRetries > 0 {
		rc.MaxRetries = tc.MaxRetries
	}
	if tc.RetryIntervalMs > 0 {
		rc.RetryInterval = time.Duration(tc.RetryIntervalMs) * time.Millisecond
	}
	if tc.MaxRetryIntervalMs > 0 {
		rc.MaxInterval = time.Duration(tc.MaxRetryIntervalMs) * time.Millisecond
	}
	return rc
}

// newLimiter connects to redis when rate limiting is enabled. Without redis write endpoints are not throttled.
func newLimiter(ctx context.Context, cfg *config.Config, tp coreport.TimeProvider, appLogger coreport.Logger) (middleware.Limiter, *redis.Client) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}
	if !cfg.Redis.Enabled {
		appLogger.Warn("Rate limiting needs redis; continuing without it", nil)
		return nil, nil
	}

	client, err := cache.NewRedisClient(ctx, cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, appLogger)
	if err != nil {
		appLogger.Warn("Redis unavailable; continuing without rate limiting", map[string]any{"error": err.Error()})
		return nil, nil
	}

	return cache.NewTokenBucket(client, cache.BucketConfig{
		Capacity:       cfg.RateLimit.Capacity,
		RefillTokens:   cfg.RateLimit.RefillTokens,
		RefillInterval: cfg.RateLimit.RefillInterval,
		TTL:            cfg.RateLimit.TTL,
		Prefix:         cfg.RateLimit.Prefix,
	}, tp), client
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	switch cfg.Database.Driver {
	case "memory":
		if cfg.Environment == config.Production {
			return fmt.Errorf("database.driver memory is not allowed in production")
		}
	case "postgres":
		required := map[string]string{
			"database.host (or SB_DB_HOST)":         cfg.Database.Host,
			"database.username (or SB_DB_USERNAME)": cfg.Database.Username,
			"database.password (or SB_DB_PASSWORD)": cfg.Database.Password,
			"database.database (or SB_DB_NAME)":     cfg.Database.Database,
		}
		for key, value := range required {
			if value == "" {
				missingConfigs = append(missingConfigs, key)
			}
		}
		if cfg.Database.QueryTimeout == 0 {
			missingConfigs = append(missingConfigs, "database.queryTimeout")
		}
	default:
		return fmt.Errorf("invalid database.driver value: %q, must be postgres or memory", cfg.Database.Driver)
	}

	// Validate transaction configuration
	if cfg.Transaction.LockTimeoutMs == 0 {
		missingConfigs = append(missingConfigs, "transaction.lockTimeoutMs")
	}
	if cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or SB_JWT_SECRET)")
	}
	if cfg.Notification.Enabled && cfg.Notification.URL == "" {
		missingConfigs = append(missingConfigs, "notification.url (or SB_RABBITMQ_URL)")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if len(cfg.Auth.JWTSecret) < 32 {
			warnings = append(warnings, "auth.jwtSecret should be at least 32 bytes in production")
		}
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
