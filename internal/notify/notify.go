// Package notify delivers best-effort order confirmations. Failures are
// reported to the caller for logging but never affect the order.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// Confirmation carries everything a downstream consumer needs to build a
// confirmation email without querying the primary database.
type Confirmation struct {
	OrderID     string    `json:"order_id"`
	UserEmail   string    `json:"user_email"`
	EventID     string    `json:"event_id"`
	SeatIDs     []string  `json:"seat_ids"`
	TotalCents  int64     `json:"total_cents"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type Notifier interface {
	OrderConfirmed(ctx context.Context, c Confirmation) error
}

// LogNotifier records confirmations in the application log. Used when no
// broker is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) OrderConfirmed(_ context.Context, c Confirmation) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("order confirmation",
		"order_id", c.OrderID,
		"user_email", c.UserEmail,
		"total_cents", c.TotalCents,
	)
	return nil
}
