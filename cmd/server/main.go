package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mindmate-backend/internal/config"
	"github.com/AnshRaj112/mindmate-backend/internal/database"
	"github.com/AnshRaj112/mindmate-backend/internal/handlers"
	"github.com/AnshRaj112/mindmate-backend/internal/middleware"
	"github.com/AnshRaj112/mindmate-backend/internal/routes"
	"github.com/AnshRaj112/mindmate-backend/internal/services"
	"github.com/AnshRaj112/mindmate-backend/internal/storage"
	"github.com/AnshRaj112/mindmate-backend/pkg/log"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	logger := log.New(cfg.Environment, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	if envErr != nil {
		logger.Info("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres and Redis are optional: without them sign-in falls back to a
	// local demo identity and auth rate limiting stays in process.
	var pg *sql.DB
	if cfg.PostgresURI != "" {
		db, err := database.ConnectPostgres(cfg.PostgresURI, logger)
		if err != nil {
			logger.Warn("PostgreSQL unavailable, accounts disabled", zap.Error(err))
		} else {
			pg = db
			defer func() { _ = database.DisconnectPostgres(pg) }()
		}
	}

	var rdb *redis.Client
	if cfg.RedisURI != "" {
		client, err := database.ConnectRedis(ctx, cfg.RedisURI, logger)
		if err != nil {
			logger.Warn("Redis unavailable, sessions and shared rate limiting disabled", zap.Error(err))
		} else {
			rdb = client
			defer func() { _ = database.DisconnectRedis(rdb) }()
		}
	}

	medium, closeMedium, err := openMedium(ctx, cfg, pg, rdb, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer closeMedium()
	logger.Info("storage ready", zap.String("driver", cfg.StorageDriver))

	adapter := storage.NewAdapter(medium, logger.Named("storage"))
	opts := []services.Option{services.WithLocation(cfg.Location)}

	var sessionStore *services.SessionStore
	if rdb != nil {
		sessionStore = services.NewSessionStore(rdb)
	}
	sessions := services.NewSessionManager(services.NewAccountBackend(pg, sessionStore), logger.Named("identity"))

	h := handlers.New(handlers.Deps{
		Journal:     services.NewJournalService(ctx, adapter, opts...),
		Mood:        services.NewMoodService(ctx, adapter, opts...),
		Preferences: services.NewPreferencesService(ctx, adapter),
		Sessions:    sessions,
		Storage:     adapter,
		Logger:      logger.Named("http"),
	})

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.GlobalLimiter().Middleware)
		logger.Info("production security enabled")
	}

	authLimit := middleware.LoginLimiter().Middleware
	if rdb != nil {
		authLimit = middleware.NewRateLimiter(rdb, logger.Named("ratelimit")).Middleware
	}
	routes.SetupRoutes(r, h, sessions, authLimit)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("MindMate backend running", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	logger.Info("server stopped", zap.Int64("dropped_writes", adapter.Failures()))
}
