package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dukerupert/tally/internal"
	"github.com/dukerupert/tally/internal/domain"
	"github.com/dukerupert/tally/internal/events"
	"github.com/dukerupert/tally/internal/gst"
	"github.com/dukerupert/tally/internal/handler"
	"github.com/dukerupert/tally/internal/handler/api"
	"github.com/dukerupert/tally/internal/middleware"
	"github.com/dukerupert/tally/internal/postgres"
	"github.com/dukerupert/tally/internal/router"
	"github.com/dukerupert/tally/internal/service"
	"github.com/dukerupert/tally/internal/telemetry"
	"github.com/dukerupert/tally/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	defaultTenant, err := uuid.Parse(cfg.TenantID)
	if err != nil {
		return fmt.Errorf("failed to parse tenant ID: %w", err)
	}

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// ==========================================================================
	// Invoice store
	// ==========================================================================

	var (
		pool *pgxpool.Pool
		repo domain.InvoiceRepository
	)
	if cfg.Database.Enabled {
		pool, err = openPool(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		repo = postgres.NewInvoiceRepository(pool)
	} else {
		logger.Warn("Database disabled; stored invoice verification is unavailable")
	}

	// ==========================================================================
	// Services
	// ==========================================================================

	calc := gst.NewCalculator(gst.Options{
		Epsilon:       cfg.GST.Epsilon,
		AllowNilRated: cfg.GST.AllowNilRated,
		Logger:        logger,
	})
	businessMetrics := telemetry.NewBusinessMetrics(prometheus.DefaultRegisterer, "tally")

	taxService := service.NewTaxService(service.TaxServiceConfig{
		Calculator: calc,
		Repo:       repo,
		Cache:      cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
		Metrics:    businessMetrics,
		Logger:     logger,
	})

	var publisher events.Publisher = events.NewNoopPublisher(logger)
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.Connect(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher = natsPublisher
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	// ==========================================================================
	// Background sweeper
	// ==========================================================================

	sweeperDone := make(chan struct{})
	if cfg.Sweeper.Enabled && repo != nil {
		sweeper := worker.NewSweeper(repo, taxService, publisher, businessMetrics, worker.Config{
			Interval:       cfg.Sweeper.Interval,
			BatchSize:      cfg.Sweeper.BatchSize,
			MaxConcurrency: cfg.Sweeper.MaxConcurrency,
			Lookback:       cfg.Sweeper.Lookback,
		}, logger)

		go func() {
			defer close(sweeperDone)
			if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Sweeper stopped", "error", err)
			}
		}()
	} else {
		close(sweeperDone)
	}

	// ==========================================================================
	// HTTP
	// ==========================================================================

	httpMetrics := middleware.NewMetrics(prometheus.DefaultRegisterer, "tally")

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.HTTP.RateLimit,
		BurstSize:         cfg.HTTP.RateBurst,
	})

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(cfg.HTTP.MaxBodyBytes),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
		rateLimiter.Middleware,
		middleware.ResolveTenant(middleware.TenantConfig{
			Default: defaultTenant,
			Logger:  logger,
		}),
		telemetry.SentryTenantMiddleware(),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	gstHandler := api.NewGSTHandler(taxService, logger)
	r.Get("/api/gst/classify", gstHandler.Classify)
	r.Post("/api/gst/invoices/compute", gstHandler.Compute)
	r.Post("/api/gst/invoices/verify", gstHandler.Verify)

	stored := r.Group(middleware.RequireTenant)
	stored.Get("/api/gst/invoices/{id}/verify", gstHandler.VerifyStored)

	// Metrics endpoint (should be protected in production via firewall)
	r.Handle(http.MethodGet, "/metrics", httpMetrics.Handler())

	health := map[string]handler.Pinger{}
	if pool != nil {
		health["database"] = pool
	}
	r.Get("/health", handler.Health(health))

	r.NotFound(handler.NotFoundResponse)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.RequestTimeout + 5*time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	stop()
	<-sweeperDone
	return nil
}

// openPool connects to the invoice store and applies pending migrations.
func openPool(ctx context.Context, cfg internal.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.Info("Connecting to database...")

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.AutoMigrate {
		logger.Info("Running database migrations...")
		sqlDB := stdlib.OpenDBFromPool(pool)
		err := internal.RunMigrations(sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")
	}

	return pool, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
