package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SB"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// SB_DATABASE_HOST style keys override the file
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short names such as SB_DB_PASSWORD win over both
	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env

	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.slowQueryMs", 200)
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("transaction.lockTimeoutMs", 2000)
	v.SetDefault("transaction.maxRetries", 3)
	v.SetDefault("transaction.retryIntervalMs", 50)
	v.SetDefault("transaction.maxRetryIntervalMs", 1000)

	v.SetDefault("booking.loyaltyPointsPerBooking", 10)

	v.SetDefault("auth.issuer", "screen-booking")

	v.SetDefault("notification.enabled", false)
	v.SetDefault("notification.exchange", "screen-booking.events")
	v.SetDefault("notification.routingKey", "booking.confirmed")
	v.SetDefault("notification.queueSize", 256)
	v.SetDefault("notification.publishTimeout", 5) // seconds

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rateLimit.enabled", false)
	v.SetDefault("rateLimit.capacity", 20)
	v.SetDefault("rateLimit.refillTokens", 1)
	v.SetDefault("rateLimit.refillInterval", 3) // seconds
	v.SetDefault("rateLimit.ttl", 600)          // seconds
	v.SetDefault("rateLimit.prefix", "sb:rl")

	v.SetDefault("seed.enabled", false)
}

// getEnvironment determines the environment to use based on SB_ENV environment variable
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// envOverrides maps short environment variable names onto config keys
var envOverrides = []struct {
	env     string
	key     string
	numeric bool
}{
	{"SB_DB_DRIVER", "database.driver", false},
	{"SB_DB_HOST", "database.host", false},
	{"SB_DB_PORT", "database.port", false},
	{"SB_DB_USERNAME", "database.username", false},
	{"SB_DB_PASSWORD", "database.password", false},
	{"SB_DB_NAME", "database.database", false},
	{"SB_DB_SSL_MODE", "database.sslMode", false},
	{"SB_DB_MAX_OPEN_CONNS", "database.maxOpenConns", true},
	{"SB_DB_MAX_IDLE_CONNS", "database.maxIdleConns", true},
	{"SB_DB_QUERY_TIMEOUT_SECONDS", "database.queryTimeout", true},
	{"SB_DB_RETRY_ATTEMPTS", "database.retryAttempts", true},
	{"SB_SERVER_HOST", "server.host", false},
	{"SB_SERVER_PORT", "server.port", true},
	{"SB_LOGGER_LEVEL", "logger.level", false},
	{"SB_TRANSACTION_LOCK_TIMEOUT_MS", "transaction.lockTimeoutMs", true},
	{"SB_TRANSACTION_MAX_RETRIES", "transaction.maxRetries", true},
	{"SB_JWT_SECRET", "auth.jwtSecret", false},
	{"SB_RABBITMQ_URL", "notification.url", false},
	{"SB_REDIS_ADDR", "redis.addr", false},
	{"SB_REDIS_PASSWORD", "redis.password", false},
}

// processEnvOverrides ensures environment variables override config values.
// Numeric overrides that do not parse are ignored.
func processEnvOverrides(v *viper.Viper) {
	for _, o := range envOverrides {
		value, ok := os.LookupEnv(o.env)
		if !ok || value == "" {
			continue
		}
		if !o.numeric {
			v.Set(o.key, value)
			continue
		}
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			v.Set(o.key, n)
		}
	}
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.SlowQuery = time.Duration(config.Database.SlowQuery) * time.Millisecond
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Notification.PublishTimeout = time.Duration(config.Notification.PublishTimeout) * time.Second

	config.RateLimit.RefillInterval = time.Duration(config.RateLimit.RefillInterval) * time.Second
	config.RateLimit.TTL = time.Duration(config.RateLimit.TTL) * time.Second
}
