package app

import (
	"context"
	"errors"
	"time"

	"github.com/seatwise/ticketer/internal/domain"
)

// SweepExpired expires every PENDING order whose hold deadline has
// passed, releasing its seats. Candidates are listed without locks and
// each order is re-checked under its row lock in a fresh transaction, so
// the sweep is safe to run concurrently with confirm/cancel calls and
// with overlapping sweeps. Returns the number of orders expired.
func (s *ReservationService) SweepExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()
	ids, err := s.orders.ListExpiredOrderIDs(ctx, now)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, id := range ids {
		expired, err := s.expireOne(ctx, id, now)
		if err != nil {
			s.logger.Error("sweep: expire order failed", "order_id", id, "error", err)
			continue
		}
		if expired {
			swept++
		}
	}
	return swept, nil
}

func (s *ReservationService) expireOne(ctx context.Context, orderID string, now time.Time) (bool, error) {
	var (
		expired bool
		eventID string
	)

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		o, err := s.orders.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				return nil
			}
			return err
		}
		// An order confirmed or cancelled since the candidate scan is
		// skipped, not an error.
		if o.Status != domain.OrderPending {
			return nil
		}
		if o.HoldExpiresAt != nil && now.Before(*o.HoldExpiresAt) {
			return nil
		}

		if err := s.seats.ReleaseSeats(txCtx, o.SeatIDs()); err != nil {
			return err
		}
		if err := s.orders.SetOrderStatus(txCtx, o.ID, domain.OrderExpired); err != nil {
			return err
		}
		expired = true
		eventID = o.EventID
		return nil
	})
	if err != nil {
		return false, err
	}

	if expired {
		s.invalidate(ctx, eventID)
	}
	return expired, nil
}

// RunSweeper runs SweepExpired on a fixed interval until ctx is done.
func (s *ReservationService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			swept, err := s.SweepExpired(ctx)
			if err != nil {
				s.logger.Error("sweep failed", "error", err)
				continue
			}
			if swept > 0 {
				s.logger.Info("sweep expired stale holds", "orders", swept)
			}
		}
	}
}
