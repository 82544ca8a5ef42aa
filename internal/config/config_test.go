package config

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "CORS_ORIGINS", "HOLD_TTL", "SWEEP_INTERVAL",
		"JWT_SECRET", "ACCESS_TOKEN_TTL", "BCRYPT_COST", "REDIS_ADDR", "AMQP_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load(discardLogger())

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.HoldTTL != defaultHoldTTL {
		t.Fatalf("expected default hold TTL, got %v", cfg.HoldTTL)
	}
	if cfg.SweepInterval != defaultSweepEvery {
		t.Fatalf("expected default sweep interval, got %v", cfg.SweepInterval)
	}
	if cfg.BcryptCost != defaultBcryptCost {
		t.Fatalf("expected default bcrypt cost, got %d", cfg.BcryptCost)
	}
	if cfg.JWTSecret == "" {
		t.Fatalf("expected a development JWT secret fallback")
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Fatalf("expected default CORS origins")
	}
	if cfg.RedisAddr != "" || cfg.AMQPURL != "" {
		t.Fatalf("expected optional integrations unset")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HOLD_TTL", "5m")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load(discardLogger())

	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.HoldTTL != 5*time.Minute {
		t.Fatalf("expected 5m hold TTL, got %v", cfg.HoldTTL)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Fatalf("expected 30s sweep interval, got %v", cfg.SweepInterval)
	}
	if cfg.JWTSecret != "prod-secret" {
		t.Fatalf("expected configured secret")
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("expected redis addr set, got %s", cfg.RedisAddr)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("HOLD_TTL", "not-a-duration")
	t.Setenv("SWEEP_INTERVAL", "-1m")
	t.Setenv("BCRYPT_COST", "abc")

	cfg := Load(discardLogger())

	if cfg.HoldTTL != defaultHoldTTL {
		t.Fatalf("expected default hold TTL, got %v", cfg.HoldTTL)
	}
	if cfg.SweepInterval != defaultSweepEvery {
		t.Fatalf("expected default sweep interval, got %v", cfg.SweepInterval)
	}
	if cfg.BcryptCost != defaultBcryptCost {
		t.Fatalf("expected default bcrypt cost, got %d", cfg.BcryptCost)
	}
}
