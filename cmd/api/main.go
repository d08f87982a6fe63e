package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"internhub/internal/config"
	"internhub/internal/database"
	apphttp "internhub/internal/http"
	"internhub/internal/http/handlers"
	"internhub/internal/http/metrics"
	httpmw "internhub/internal/http/middleware"
	"internhub/internal/http/response"
	"internhub/internal/observability"
	"internhub/internal/security"
	"internhub/internal/storage"
	"internhub/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := observability.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	adapter, cleanup, err := newAdapter(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	defer cleanup()

	identity, err := store.NewIdentityStore(ctx, adapter, logger)
	if err != nil {
		log.Fatalf("init identity store: %v", err)
	}
	engagements, err := store.NewEngagementStore(ctx, adapter, store.Options{
		StrictCapacity:             cfg.StrictCapacity,
		AllowDuplicateApplications: cfg.AllowDuplicateApplications,
	}, logger)
	if err != nil {
		log.Fatalf("init engagement store: %v", err)
	}

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	limiter := newLimiter(cfg, logger)

	authHandler := handlers.NewAuthHandler(identity, jwtProvider, limiter, cfg.TokenTTL)
	userHandler := handlers.NewUserHandler(identity)
	internshipHandler := handlers.NewInternshipHandler(engagements, identity)
	applicationHandler := handlers.NewApplicationHandler(engagements, identity, limiter)
	statsHandler := handlers.NewStatsHandler(identity, engagements)
	middleware := httpmw.NewAuthMiddleware(jwtProvider)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		InternshipHandler:  internshipHandler,
		ApplicationHandler: applicationHandler,
		StatsHandler:       statsHandler,
		AuthMiddleware:     middleware,
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

// newAdapter picks the storage backend: postgres when DATABASE_URL is set,
// sqlite when SQLITE_PATH is set, otherwise JSON files under DATA_DIR.
func newAdapter(ctx context.Context, cfg *config.Config) (storage.Adapter, func(), error) {
	switch {
	case cfg.PostgresDSN != "":
		db, err := database.NewPostgres(database.PostgresConfig{
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxIdle:     cfg.DBConnMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxLife,
		})
		if err != nil {
			return nil, nil, err
		}
		adapter, err := storage.NewPostgres(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return adapter, func() { _ = db.Close() }, nil
	case cfg.SQLitePath != "":
		adapter, err := storage.NewSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return adapter, func() { _ = adapter.Close() }, nil
	default:
		adapter, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return adapter, func() {}, nil
	}
}

func newLimiter(cfg *config.Config, logger *zap.Logger) httpmw.Limiter {
	if cfg.RedisAddr == "" {
		return httpmw.NewRateLimiter()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logger.Info("using redis rate limiter", zap.String("addr", cfg.RedisAddr))
	return httpmw.NewRedisLimiter(client)
}
