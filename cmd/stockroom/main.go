package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/opskit/stockroom/pkg/api"
	"github.com/opskit/stockroom/pkg/auth"
	"github.com/opskit/stockroom/pkg/config"
	"github.com/opskit/stockroom/pkg/inventory"
	"github.com/opskit/stockroom/pkg/middleware"
	"github.com/opskit/stockroom/pkg/observability"
	"github.com/opskit/stockroom/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).
			WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.WithFields(map[string]interface{}{
		"storage": cfg.Storage.Type,
		"port":    cfg.Server.Port,
	}).Info("Starting stockroom server")

	var metrics *observability.Metrics
	registry := prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	// Storage gateway, optionally wrapped in the cache layer
	sqlGateway, err := storage.OpenGateway(cfg.Storage, logger, metrics)
	if err != nil {
		logger.WithError(err).Error("Failed to open storage")
		os.Exit(1)
	}

	var gateway storage.Gateway = sqlGateway
	var redisClient *redis.Client
	if cfg.Storage.CacheEnabled && cfg.Storage.RedisURL != "" {
		client, err := storage.NewRedisClient(cfg.Storage)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to redis")
			os.Exit(1)
		}
		redisClient = client

		cached, err := storage.NewCachedGateway(sqlGateway, client, cfg.Storage, logger, metrics)
		if err != nil {
			logger.WithError(err).Error("Failed to build cache layer")
			os.Exit(1)
		}
		gateway = cached
		logger.Info("Read-through cache enabled")
	}

	// Auth and inventory services
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	authSvc := auth.NewService(auth.NewCredentialStore(gateway), hasher, tokens, logger, metrics)
	invSvc := inventory.NewService(gateway, logger)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	if err := authSvc.EnsureAdmin(bootCtx, cfg.Auth.AdminPassword); err != nil {
		cancelBoot()
		logger.WithError(err).Error("Failed to bootstrap admin account")
		os.Exit(1)
	}
	cancelBoot()

	// Low-stock sweeper
	var sweeper *inventory.Sweeper
	if cfg.Sweeper.Enabled {
		sweepLog := logrus.New()
		sweepLog.SetFormatter(&logrus.JSONFormatter{})
		sweeper = inventory.NewSweeper(invSvc, sweepLog)
		if err := sweeper.Start(cfg.Sweeper.Schedule); err != nil {
			logger.WithError(err).Error("Failed to start low-stock sweeper")
			os.Exit(1)
		}
		logger.WithField("schedule", cfg.Sweeper.Schedule).Info("Low-stock sweeper running")
	}

	// API server
	server := api.NewServer(api.Config{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Throttle: &middleware.ThrottleConfig{
			RequestsPerWindow: cfg.Auth.LoginRequestsPerMinute,
			WindowDuration:    time.Minute,
			BurstSize:         cfg.Auth.LoginBurstSize,
		},
	}, authSvc, invSvc, logger, metrics)

	throttleCtx, cancelThrottle := context.WithCancel(context.Background())
	server.StartThrottleCleanup(throttleCtx)

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on their own listener for probes
	healthMux := http.NewServeMux()
	checker := observability.NewHealthChecker(sqlGateway.DB(), redisClient)
	observability.RegisterHealthRoutes(healthMux, checker)
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(healthMux, registry)
		if metrics != nil {
			metrics.CollectDBStats(sqlGateway.DB())
		}
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		cancelThrottle()
		if sweeper != nil {
			sweeper.Stop()
		}
		return gateway.Close()
	})

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		logger.WithField("addr", apiServer.Addr).Info("API server listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("Health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return shutdown.WaitForShutdown()
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
}
