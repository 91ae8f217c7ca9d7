// @title Pet Care Marketplace API
// @version 1.0
// @description Backend multi-tenant de empresas de cuidado de mascotas.
// @BasePath /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pet-care-marketplace/internal/adapters/auth/jwt"
	pg "pet-care-marketplace/internal/adapters/storage/postgres"
	"pet-care-marketplace/internal/platform/cache"
	"pet-care-marketplace/internal/platform/config"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/tracing"
	"pet-care-marketplace/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("config load failed", map[string]any{"error": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	defer func() { _ = logger.Zap(log).Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, cfg.AppName, cfg.Env)
	if err != nil {
		log.Warn("tracing init failed; continuing without traces", map[string]any{"error": err})
		shutdownTracing = func(context.Context) error { return nil }
	}

	opts := router.Options{
		Logger:             log,
		AnalyticsCacheTTL:  cfg.AnalyticsCacheTTL,
		AllowedOrigins:     cfg.AllowedOrigins(),
		TrustProxy:         cfg.TrustProxy,
		WaitlistRatePerMin: cfg.WaitlistRatePerMin,
		BaseCurrency:       cfg.BaseCurrency,
	}

	// DB_DSN vacío => in-memory (modo dev).
	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
		if err != nil {
			log.Error("database connection failed", map[string]any{"error": err})
			os.Exit(1)
		}
		defer db.Close()
		if cfg.DBAutoMigrate {
			if err := pg.Migrate(ctx, db); err != nil {
				log.Error("database migration failed", map[string]any{"error": err})
				os.Exit(1)
			}
		}
		opts.DB = db
		log.Info("storage: postgres", nil)
	} else {
		log.Warn("DB_DSN not set; using in-memory storage", nil)
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.AppName)
		if err != nil {
			log.Warn("redis unavailable; using in-memory cache", map[string]any{"error": err})
		} else {
			defer rc.Close()
			opts.Cache = rc
		}
	}

	if cfg.JWTSecret != "" {
		opts.AuthVerifier = jwt.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	} else if cfg.IsProduction() {
		log.Error("JWT_SECRET is required in production", nil)
		os.Exit(1)
	} else {
		log.Warn("JWT_SECRET not set; dev auth via X-Debug-* headers", nil)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(router.NewRouter(opts), "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]any{"error": err})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown failed", map[string]any{"error": err})
	}
}
