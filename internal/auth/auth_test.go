package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/seatwise/ticketer/internal/clock"
)

func TestTokenIssuer(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("round trip", func(t *testing.T) {
		issuer := NewTokenIssuer("secret", time.Hour, clock.NewFixed(now))

		token, exp, err := issuer.Issue("user-1")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if !exp.Equal(now.Add(time.Hour)) {
			t.Fatalf("expected expiry %v, got %v", now.Add(time.Hour), exp)
		}

		subject, err := issuer.Verify(token)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if subject != "user-1" {
			t.Fatalf("expected subject user-1, got %s", subject)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		clk := clock.NewManual(now)
		issuer := NewTokenIssuer("secret", time.Hour, clk)

		token, _, err := issuer.Issue("user-1")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}

		clk.Advance(2 * time.Hour)

		if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		issuer := NewTokenIssuer("secret", time.Hour, clock.NewFixed(now))
		other := NewTokenIssuer("different", time.Hour, clock.NewFixed(now))

		token, _, err := issuer.Issue("user-1")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		issuer := NewTokenIssuer("secret", time.Hour, clock.NewFixed(now))
		if _, err := issuer.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("password1", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "password1") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "password2") {
		t.Fatalf("expected mismatch to fail")
	}
}
