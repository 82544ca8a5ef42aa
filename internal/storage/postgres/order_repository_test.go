package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seatwise/ticketer/internal/domain"
	"github.com/seatwise/ticketer/internal/testutil"
)

func TestOrderRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewOrderRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	now := time.Now().UTC().Truncate(time.Millisecond)

	seed := func(t *testing.T, ctx context.Context) (userID, eventID, seatID string) {
		t.Helper()
		userID = testutil.InsertUser(t, ctx, pool, "buyer@example.com")
		_, eventID = testutil.InsertVenueAndEvent(t, ctx, pool, "Concert", 100)
		seatID = testutil.InsertSeat(t, ctx, pool, eventID, domain.Seat{
			Label: "A1", Row: "A", Col: 1, PriceCents: 5000, State: domain.SeatHeld,
		})
		return
	}

	t.Run("CreateOrder and GetOrder round trip with items", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID, eventID, seatID := seed(t, ctx)

		expires := now.Add(15 * time.Minute)
		orderID := uuid.NewString()
		order := domain.Order{
			ID:            orderID,
			UserID:        userID,
			EventID:       eventID,
			Status:        domain.OrderPending,
			TotalCents:    5000,
			HoldExpiresAt: &expires,
			CreatedAt:     now,
			Items: []domain.OrderItem{
				{OrderID: orderID, SeatID: seatID, PriceCents: 5000},
			},
		}

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.CreateOrder(txCtx, order)
		})
		if err != nil {
			t.Fatalf("create order: %v", err)
		}

		got, err := repo.GetOrder(ctx, orderID)
		if err != nil {
			t.Fatalf("get order: %v", err)
		}
		if got.Status != domain.OrderPending || got.TotalCents != 5000 {
			t.Fatalf("unexpected order: %+v", got)
		}
		if got.HoldExpiresAt == nil || !got.HoldExpiresAt.Equal(expires) {
			t.Fatalf("expected hold deadline %v, got %v", expires, got.HoldExpiresAt)
		}
		if len(got.Items) != 1 || got.Items[0].SeatID != seatID || got.Items[0].PriceCents != 5000 {
			t.Fatalf("unexpected items: %+v", got.Items)
		}
	})

	t.Run("GetOrder not found and invalid id", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		if _, err := repo.GetOrder(ctx, uuid.NewString()); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
		if _, err := repo.GetOrder(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("SetOrderStatus clears the hold deadline on terminal states", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID, eventID, _ := seed(t, ctx)

		expires := now.Add(15 * time.Minute)
		orderID := testutil.InsertOrder(t, ctx, pool, domain.Order{
			UserID: userID, EventID: eventID, Status: domain.OrderPending,
			TotalCents: 5000, HoldExpiresAt: &expires,
		})

		if err := repo.SetOrderStatus(ctx, orderID, domain.OrderConfirmed); err != nil {
			t.Fatalf("set status: %v", err)
		}
		got, err := repo.GetOrder(ctx, orderID)
		if err != nil {
			t.Fatalf("get order: %v", err)
		}
		if got.Status != domain.OrderConfirmed {
			t.Fatalf("expected CONFIRMED, got %s", got.Status)
		}
		if got.HoldExpiresAt != nil {
			t.Fatalf("expected hold deadline cleared, got %v", got.HoldExpiresAt)
		}

		if err := repo.SetOrderStatus(ctx, uuid.NewString(), domain.OrderExpired); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("CreatePayment allows one SUCCESS per order", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID, eventID, _ := seed(t, ctx)
		orderID := testutil.InsertOrder(t, ctx, pool, domain.Order{
			UserID: userID, EventID: eventID, Status: domain.OrderPending, TotalCents: 5000,
		})

		failed := domain.Payment{
			ID: uuid.NewString(), OrderID: orderID,
			Status: domain.PaymentFailed, CreatedAt: now,
		}
		if err := repo.CreatePayment(ctx, failed); err != nil {
			t.Fatalf("create failed payment: %v", err)
		}

		success := domain.Payment{
			ID: uuid.NewString(), OrderID: orderID,
			Status: domain.PaymentSuccess, GatewayRef: "txn_1", CreatedAt: now.Add(time.Second),
		}
		if err := repo.CreatePayment(ctx, success); err != nil {
			t.Fatalf("create success payment: %v", err)
		}

		second := success
		second.ID = uuid.NewString()
		if err := repo.CreatePayment(ctx, second); !errors.Is(err, domain.ErrInvalidOrderState) {
			t.Fatalf("expected ErrInvalidOrderState, got %v", err)
		}

		payments, err := repo.ListPayments(ctx, orderID)
		if err != nil {
			t.Fatalf("list payments: %v", err)
		}
		if len(payments) != 2 {
			t.Fatalf("expected 2 payments, got %d", len(payments))
		}
		if payments[0].Status != domain.PaymentFailed || payments[1].GatewayRef != "txn_1" {
			t.Fatalf("unexpected payments: %+v", payments)
		}
	})

	t.Run("ListExpiredOrderIDs returns only stale PENDING orders", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID, eventID, _ := seed(t, ctx)

		past := now.Add(-time.Minute)
		future := now.Add(time.Hour)

		stale := testutil.InsertOrder(t, ctx, pool, domain.Order{
			UserID: userID, EventID: eventID, Status: domain.OrderPending,
			TotalCents: 5000, HoldExpiresAt: &past,
		})
		testutil.InsertOrder(t, ctx, pool, domain.Order{
			UserID: userID, EventID: eventID, Status: domain.OrderPending,
			TotalCents: 5000, HoldExpiresAt: &future,
		})
		testutil.InsertOrder(t, ctx, pool, domain.Order{
			UserID: userID, EventID: eventID, Status: domain.OrderExpired,
			TotalCents: 5000, HoldExpiresAt: &past,
		})

		ids, err := repo.ListExpiredOrderIDs(ctx, now)
		if err != nil {
			t.Fatalf("list expired: %v", err)
		}
		if len(ids) != 1 || ids[0] != stale {
			t.Fatalf("expected only the stale order, got %v", ids)
		}
	})

	t.Run("transaction rollback reverts order and seat writes together", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		userID, eventID, seatID := seed(t, ctx)
		seats := NewSeatRepository(pool)

		boom := errors.New("boom")
		orderID := uuid.NewString()
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := seats.ReleaseSeats(txCtx, []string{seatID}); err != nil {
				return err
			}
			if err := repo.CreateOrder(txCtx, domain.Order{
				ID: orderID, UserID: userID, EventID: eventID,
				Status: domain.OrderPending, TotalCents: 5000, CreatedAt: now,
			}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		if _, err := repo.GetOrder(ctx, orderID); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected order rolled back, got %v", err)
		}
		var state string
		if err := pool.QueryRow(ctx, `SELECT state FROM seats WHERE id = $1`, seatID).Scan(&state); err != nil {
			t.Fatalf("read seat: %v", err)
		}
		if state != "HELD" {
			t.Fatalf("expected seat release rolled back, got %s", state)
		}
	})
}
