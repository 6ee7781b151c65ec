// Package observability provides logging, metrics, health checks, and
// graceful shutdown for the stockroom server.
//
// # Logging
//
// Logger is a structured JSON logger built on stdlib slog:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("username", name).Info("user created")
//
// # Metrics
//
// Metrics holds all Prometheus collectors. HTTP traffic is instrumented by
// HTTPMetricsMiddleware; the storage gateway and auth service record their
// own counters:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//
// # Health
//
// HealthChecker exposes liveness and readiness probes that ping the database
// and, when configured, redis:
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	observability.RegisterHealthRoutes(mux, checker)
//
// # Shutdown
//
// ShutdownManager blocks on SIGINT/SIGTERM, drains the HTTP server, and runs
// registered cleanup functions with a bounded timeout.
package observability
