package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLogNotifier_OrderConfirmed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := LogNotifier{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	err := n.OrderConfirmed(context.Background(), Confirmation{
		OrderID:     "order-1",
		UserEmail:   "a@example.com",
		EventID:     "event-1",
		SeatIDs:     []string{"seat-1"},
		TotalCents:  5000,
		ConfirmedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "order-1") || !strings.Contains(out, "a@example.com") {
		t.Fatalf("expected confirmation logged, got %s", out)
	}
}

func TestLogNotifier_NilLogger(t *testing.T) {
	t.Parallel()

	if err := (LogNotifier{}).OrderConfirmed(context.Background(), Confirmation{OrderID: "order-1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
