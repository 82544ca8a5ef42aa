package cache

import (
	"context"
	"testing"
	"time"

	"github.com/seatwise/ticketer/internal/domain"
)

func TestSeatCache_DisabledIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seats := []domain.Seat{{ID: "seat-1", EventID: "event-1", State: domain.SeatFree}}

	t.Run("nil cache", func(t *testing.T) {
		var c *SeatCache
		c.SetAvailable(ctx, "event-1", seats)
		c.InvalidateAvailable(ctx, "event-1")
		if got, ok := c.GetAvailable(ctx, "event-1"); ok || got != nil {
			t.Fatalf("expected miss from nil cache, got %v", got)
		}
	})

	t.Run("nil client", func(t *testing.T) {
		c := NewSeatCache(nil, time.Minute)
		c.SetAvailable(ctx, "event-1", seats)
		c.InvalidateAvailable(ctx, "event-1")
		if got, ok := c.GetAvailable(ctx, "event-1"); ok || got != nil {
			t.Fatalf("expected miss from disabled cache, got %v", got)
		}
	})
}

func TestNewSeatCache_DefaultTTL(t *testing.T) {
	t.Parallel()

	c := NewSeatCache(nil, 0)
	if c.ttl <= 0 {
		t.Fatalf("expected a positive default TTL, got %v", c.ttl)
	}
}
