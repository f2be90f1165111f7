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
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/service-booking-backend/internal/app"
	"github.com/nekogravitycat/service-booking-backend/internal/booking"
	"github.com/nekogravitycat/service-booking-backend/internal/config"
	"github.com/nekogravitycat/service-booking-backend/internal/db"
	"github.com/nekogravitycat/service-booking-backend/internal/events"
	"github.com/nekogravitycat/service-booking-backend/internal/redisx"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// run owns every resource it opens, so deferred closes happen before main exits.
func run(ctx context.Context) error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	logger = logger.With("service", cfg.ServiceName)

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer pool.Close()

	if cfg.DBAutoMigrate {
		if err := db.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate db: %w", err)
		}
	}

	// Connect Redis (optional)
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisx.New(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
	} else {
		logger.Warn("REDIS_URL not set, lookup cache and idempotency keys disabled")
	}

	// Kafka publisher (optional)
	var publisher booking.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ServiceName)
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Error("failed to close kafka writer", "error", err)
			}
		}()
		publisher = kp
	} else {
		logger.Warn("KAFKA_BROKERS not set, lifecycle events disabled")
	}

	container := app.NewContainer(app.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		DBPool:         pool,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTAccessTokenTTL,
		Redis:          rdb,
		LookupCacheTTL: cfg.LookupCacheTTL,
		IdempotencyTTL: cfg.IdempotencyTTL,
		Publisher:      publisher,
		Logger:         logger,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for Ctrl+C or a listener failure
	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
