// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings except the token signing secret.
//
// # Configuration Structure
//
// Server settings:
//
//	STOCKROOM_HOST="0.0.0.0"
//	STOCKROOM_PORT="8080"
//	STOCKROOM_HEALTH_PORT="9090"
//	STOCKROOM_READ_TIMEOUT="15s"
//	STOCKROOM_WRITE_TIMEOUT="15s"
//
// Auth settings:
//
//	STOCKROOM_JWT_SECRET="..."          # required
//	STOCKROOM_AUTH_TOKEN_TTL="1h"
//	STOCKROOM_BCRYPT_COST="10"
//	STOCKROOM_ADMIN_PASSWORD="..."      # bootstrap admin account when set
//
// Storage settings:
//
//	STOCKROOM_STORAGE_TYPE="sqlite"     # sqlite, postgres
//	STOCKROOM_SQLITE_PATH="stockroom.db"
//	STOCKROOM_POSTGRES_URL="postgres://localhost/stockroom"
//	STOCKROOM_POSTGRES_MAX_CONNS="25"
//
// Cache settings:
//
//	STOCKROOM_CACHE_ENABLED="true"
//	STOCKROOM_REDIS_URL="redis://localhost:6379"
//	STOCKROOM_CACHE_TTL="5m"
//
// Observability settings:
//
//	STOCKROOM_LOG_LEVEL="info"  # debug, info, warn, error
//	STOCKROOM_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Storage: %s\n", cfg.Storage.Type)
//
// # Related Packages
//
//   - pkg/storage: Uses storage configuration
//   - pkg/observability: Uses observability configuration
package config
