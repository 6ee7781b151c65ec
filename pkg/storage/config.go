package storage

import "time"

// Config holds storage configuration
type Config struct {
	// Type selects the backend: "postgres" or "sqlite"
	Type string

	// PostgreSQL
	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int

	// SQLite
	SQLitePath string

	// QueryTimeout bounds every gateway operation
	QueryTimeout time.Duration

	// Redis cache (optional; enabled when RedisURL is set)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration
	L1CacheSize  int
}

// DefaultConfig returns the default storage configuration
func DefaultConfig() Config {
	return Config{
		Type:             "sqlite",
		SQLitePath:       "stockroom.db",
		PostgresMaxConns: 25,
		PostgresMinConns: 5,
		QueryTimeout:     5 * time.Second,
		CacheEnabled:     false,
		CacheTTL:         5 * time.Minute,
		L1CacheSize:      1024,
	}
}
