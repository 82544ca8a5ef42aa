package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/seatwise/ticketer/internal/app"
	"github.com/seatwise/ticketer/internal/auth"
	"github.com/seatwise/ticketer/internal/cache"
	"github.com/seatwise/ticketer/internal/clock"
	"github.com/seatwise/ticketer/internal/config"
	"github.com/seatwise/ticketer/internal/notify"
	"github.com/seatwise/ticketer/internal/payment"
	"github.com/seatwise/ticketer/internal/storage/postgres"
	transporthttp "github.com/seatwise/ticketer/internal/transport/http"
	"github.com/seatwise/ticketer/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", "error", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	clk := clock.NewSystem()

	var seatCache *cache.SeatCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(startupCtx).Err(); err != nil {
			logger.Warn("redis unreachable, availability cache disabled", "error", err)
		} else {
			seatCache = cache.NewSeatCache(client, 30*time.Second)
		}
	}

	var notifier notify.Notifier = notify.LogNotifier{Logger: logger}
	if cfg.AMQPURL != "" {
		notifier = notify.AMQPNotifier{URL: cfg.AMQPURL}
	}

	var gateway payment.Gateway = payment.Fake{}
	if key := os.Getenv("PAYMENT_API_KEY"); key != "" {
		gateway = payment.Stub{APIKey: key}
	}

	orderRepo := postgres.NewOrderRepository(pool)
	seatRepo := postgres.NewSeatRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	reservations := app.NewReservationService(
		orderRepo, seatRepo, adminRepo, userRepo, gateway, clk,
		app.WithHoldTTL(cfg.HoldTTL),
		app.WithNotifier(notifier),
		app.WithAvailabilityInvalidator(seatCache),
		app.WithLogger(logger),
	)
	adminSvc := app.NewAdminService(adminRepo, seatRepo, clk,
		app.WithAvailabilityCache(seatCache),
	)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, clk)
	authSvc := app.NewAuthService(userRepo, tokens, cfg.BcryptCost, clk)

	handler := transporthttp.NewRouter(transporthttp.RouterConfig{
		Orders:      reservations,
		Admin:       adminSvc,
		Auth:        authSvc,
		Verifier:    tokens,
		DB:          pool,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reservations.RunSweeper(stopCtx, cfg.SweepInterval)

	logger.Info("api listening", "port", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
