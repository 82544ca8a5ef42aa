// Package cache provides a Redis-backed read cache for seat availability
// listings. The cache is display-only: the reservation engine never reads
// it, so a stale entry can at worst show a seat that will fail to claim.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seatwise/ticketer/internal/domain"
)

// SeatCache caches the FREE-seat listing per event. A nil *SeatCache or a
// nil client disables caching entirely; every method degrades to a no-op
// so callers need no guards.
type SeatCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSeatCache(client *redis.Client, ttl time.Duration) *SeatCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &SeatCache{client: client, ttl: ttl}
}

func availableKey(eventID string) string {
	return "seats:free:" + eventID
}

// GetAvailable returns the cached listing and whether it was present.
func (c *SeatCache) GetAvailable(ctx context.Context, eventID string) ([]domain.Seat, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, availableKey(eventID)).Bytes()
	if err != nil {
		return nil, false
	}
	var seats []domain.Seat
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, false
	}
	return seats, true
}

// SetAvailable stores the listing with the configured TTL. Errors are
// swallowed: a failed cache write only costs the next reader a DB query.
func (c *SeatCache) SetAvailable(ctx context.Context, eventID string, seats []domain.Seat) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(seats)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, availableKey(eventID), raw, c.ttl).Err()
}

// InvalidateAvailable drops the cached listing after a seat-state change.
func (c *SeatCache) InvalidateAvailable(ctx context.Context, eventID string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, availableKey(eventID)).Err()
}
