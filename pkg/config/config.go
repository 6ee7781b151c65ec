package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/opskit/stockroom/pkg/observability"
	"github.com/opskit/stockroom/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Auth configuration
	Auth AuthConfig

	// Storage configuration
	Storage storage.Config

	// Sweeper configuration
	Sweeper SweeperConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	// JWTSecret signs and verifies access tokens. Required.
	JWTSecret string

	// TokenTTL is the access token lifetime. A role change takes at
	// most this long to reach tokens issued before the change.
	TokenTTL time.Duration

	// BcryptCost tunes password hashing work factor
	BcryptCost int

	// AdminPassword, when set, creates the bootstrap admin account at
	// startup if it does not already exist
	AdminPassword string

	// Throttle for the public signup and login endpoints
	LoginRequestsPerMinute int
	LoginBurstSize         int
}

// SweeperConfig holds the low-stock sweeper settings
type SweeperConfig struct {
	Enabled  bool
	Schedule string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Auth:          loadAuthConfig(),
		Storage:       loadStorageConfig(),
		Sweeper:       loadSweeperConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("STOCKROOM_HOST", "0.0.0.0"),
		Port:            getEnv("STOCKROOM_PORT", "8080"),
		ReadTimeout:     getEnvDuration("STOCKROOM_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("STOCKROOM_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("STOCKROOM_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("STOCKROOM_SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxBodyBytes:    getEnvInt64("STOCKROOM_MAX_BODY_BYTES", 1<<20),
		HealthPort:      getEnv("STOCKROOM_HEALTH_PORT", "9090"),
	}
}

// loadAuthConfig loads authentication configuration from environment
func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:              getEnv("STOCKROOM_JWT_SECRET", ""),
		TokenTTL:               getEnvDuration("STOCKROOM_AUTH_TOKEN_TTL", time.Hour),
		BcryptCost:             getEnvInt("STOCKROOM_BCRYPT_COST", 0),
		AdminPassword:          getEnv("STOCKROOM_ADMIN_PASSWORD", ""),
		LoginRequestsPerMinute: getEnvInt("STOCKROOM_LOGIN_REQUESTS_PER_MINUTE", 30),
		LoginBurstSize:         getEnvInt("STOCKROOM_LOGIN_BURST_SIZE", 10),
	}
}

// loadStorageConfig loads storage configuration from environment
func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	// Storage type
	if storageType := getEnv("STOCKROOM_STORAGE_TYPE", ""); storageType != "" {
		cfg.Type = storageType
	}

	// SQLite config
	if sqlitePath := getEnv("STOCKROOM_SQLITE_PATH", ""); sqlitePath != "" {
		cfg.SQLitePath = sqlitePath
	}

	// PostgreSQL config
	if pgURL := getEnv("STOCKROOM_POSTGRES_URL", ""); pgURL != "" {
		cfg.PostgresURL = pgURL
	}
	if maxConns := getEnvInt("STOCKROOM_POSTGRES_MAX_CONNS", 0); maxConns > 0 {
		cfg.PostgresMaxConns = maxConns
	}
	if minConns := getEnvInt("STOCKROOM_POSTGRES_MIN_CONNS", 0); minConns > 0 {
		cfg.PostgresMinConns = minConns
	}
	if timeout := getEnvDuration("STOCKROOM_QUERY_TIMEOUT", 0); timeout > 0 {
		cfg.QueryTimeout = timeout
	}

	// Redis config
	if redisURL := getEnv("STOCKROOM_REDIS_URL", ""); redisURL != "" {
		cfg.RedisURL = redisURL
	}
	if redisPassword := getEnv("STOCKROOM_REDIS_PASSWORD", ""); redisPassword != "" {
		cfg.RedisPassword = redisPassword
	}
	if redisDB := getEnvInt("STOCKROOM_REDIS_DB", -1); redisDB >= 0 {
		cfg.RedisDB = redisDB
	}

	// Cache config
	if cacheEnabled := getEnv("STOCKROOM_CACHE_ENABLED", ""); cacheEnabled != "" {
		cfg.CacheEnabled = strings.ToLower(cacheEnabled) == "true"
	}
	if cacheTTL := getEnvDuration("STOCKROOM_CACHE_TTL", 0); cacheTTL > 0 {
		cfg.CacheTTL = cacheTTL
	}
	if l1CacheSize := getEnvInt("STOCKROOM_L1_CACHE_SIZE", 0); l1CacheSize > 0 {
		cfg.L1CacheSize = l1CacheSize
	}

	return cfg
}

// loadSweeperConfig loads the low-stock sweeper configuration from environment
func loadSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Enabled:  getEnvBool("STOCKROOM_SWEEPER_ENABLED", true),
		Schedule: getEnv("STOCKROOM_SWEEPER_SCHEDULE", "@every 15m"),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("STOCKROOM_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("STOCKROOM_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	// Validate auth config
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required (set STOCKROOM_JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	// Validate storage config based on type
	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for sqlite storage")
		}
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("invalid storage type: %s (must be sqlite or postgres)", c.Storage.Type)
	}

	// Validate sweeper config
	if c.Sweeper.Enabled && c.Sweeper.Schedule == "" {
		return fmt.Errorf("sweeper schedule is required when the sweeper is enabled")
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
