package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment  string             `mapstructure:"environment"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Logger       LoggerConfig       `mapstructure:"logger"`
	Transaction  TransactionConfig  `mapstructure:"transaction"`
	Booking      BookingConfig      `mapstructure:"booking"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Notification NotificationConfig `mapstructure:"notification"`
	Redis        RedisConfig        `mapstructure:"redis"`
	RateLimit    RateLimitConfig    `mapstructure:"rateLimit"`
	Seed         SeedConfig         `mapstructure:"seed"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
}

// DatabaseConfig contains database connection settings.
// Driver "memory" runs the service on the in-memory store.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	SlowQuery       time.Duration `mapstructure:"slowQueryMs"`     // milliseconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"timeFormat"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// TransactionConfig contains unit of work settings
type TransactionConfig struct {
	LockTimeoutMs      int64 `mapstructure:"lockTimeoutMs"`
	MaxRetries         int   `mapstructure:"maxRetries"`
	RetryIntervalMs    int64 `mapstructure:"retryIntervalMs"`
	MaxRetryIntervalMs int64 `mapstructure:"maxRetryIntervalMs"`
}

// LockTimeout returns the per-transaction lock wait limit
func (t TransactionConfig) LockTimeout() time.Duration {
	return time.Duration(t.LockTimeoutMs) * time.Millisecond
}

// BookingConfig contains booking rules
type BookingConfig struct {
	LoyaltyPointsPerBooking int64 `mapstructure:"loyaltyPointsPerBooking"`
}

// AuthConfig contains bearer token verification settings
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
	Issuer    string `mapstructure:"issuer"`
}

// NotificationConfig contains RabbitMQ publisher settings
type NotificationConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	Exchange       string        `mapstructure:"exchange"`
	RoutingKey     string        `mapstructure:"routingKey"`
	QueueSize      int           `mapstructure:"queueSize"`
	PublishTimeout time.Duration `mapstructure:"publishTimeout"` // seconds
}

// RedisConfig contains redis client settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig contains token bucket settings for write endpoints
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Capacity       int           `mapstructure:"capacity"`
	RefillTokens   int           `mapstructure:"refillTokens"`
	RefillInterval time.Duration `mapstructure:"refillInterval"` // seconds
	TTL            time.Duration `mapstructure:"ttl"`            // seconds
	Prefix         string        `mapstructure:"prefix"`
}

// SeedConfig controls creation of demo accounts and screens at startup
type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
