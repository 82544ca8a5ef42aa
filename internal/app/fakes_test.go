package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/seatwise/ticketer/internal/domain"
	"github.com/seatwise/ticketer/internal/payment"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. WithTx
// serializes callers on one mutex and rolls the state back when the fn
// returns an error, mirroring transactional behavior closely enough for
// the engine's concurrency tests.
type fakeStore struct {
	mu       sync.Mutex
	seats    map[string]domain.Seat
	orders   map[string]domain.Order
	payments []domain.Payment
	events   map[string]domain.Event
	users    map[string]domain.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seats:  make(map[string]domain.Seat),
		orders: make(map[string]domain.Order),
		events: make(map[string]domain.Event),
		users:  make(map[string]domain.User),
	}
}

type fakeTxKey struct{}

func (f *fakeStore) inTx(ctx context.Context) bool {
	return ctx.Value(fakeTxKey{}) != nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.inTx(ctx) {
		return fn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	snapSeats := make(map[string]domain.Seat, len(f.seats))
	for k, v := range f.seats {
		snapSeats[k] = v
	}
	snapOrders := make(map[string]domain.Order, len(f.orders))
	for k, v := range f.orders {
		snapOrders[k] = v
	}
	snapPayments := append([]domain.Payment(nil), f.payments...)

	err := fn(context.WithValue(ctx, fakeTxKey{}, struct{}{}))
	if err != nil {
		f.seats = snapSeats
		f.orders = snapOrders
		f.payments = snapPayments
	}
	return err
}

func (f *fakeStore) lockUnlessTx(ctx context.Context) func() {
	if f.inTx(ctx) {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

func (f *fakeStore) CreateOrder(ctx context.Context, order domain.Order) error {
	defer f.lockUnlessTx(ctx)()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeStore) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	return f.GetOrder(ctx, orderID)
}

func (f *fakeStore) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	defer f.lockUnlessTx(ctx)()
	o, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeStore) SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	defer f.lockUnlessTx(ctx)()
	o, ok := f.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	if status != domain.OrderPending {
		o.HoldExpiresAt = nil
	}
	f.orders[orderID] = o
	return nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, p domain.Payment) error {
	defer f.lockUnlessTx(ctx)()
	if p.Status == domain.PaymentSuccess {
		for _, existing := range f.payments {
			if existing.OrderID == p.OrderID && existing.Status == domain.PaymentSuccess {
				return domain.ErrInvalidOrderState
			}
		}
	}
	f.payments = append(f.payments, p)
	return nil
}

func (f *fakeStore) ListExpiredOrderIDs(ctx context.Context, now time.Time) ([]string, error) {
	defer f.lockUnlessTx(ctx)()
	var ids []string
	for _, o := range f.orders {
		if o.Status == domain.OrderPending && o.HoldExpiresAt != nil && o.HoldExpiresAt.Before(now) {
			ids = append(ids, o.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) ClaimSeats(ctx context.Context, eventID string, seatIDs []string) ([]domain.Seat, error) {
	defer f.lockUnlessTx(ctx)()
	claimed := make([]domain.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		seat, ok := f.seats[id]
		if !ok || seat.EventID != eventID || seat.State != domain.SeatFree {
			return nil, &domain.SeatUnavailableError{SeatID: id}
		}
		seat.State = domain.SeatHeld
		f.seats[id] = seat
		claimed = append(claimed, seat)
	}
	return claimed, nil
}

func (f *fakeStore) ReleaseSeats(ctx context.Context, seatIDs []string) error {
	defer f.lockUnlessTx(ctx)()
	for _, id := range seatIDs {
		seat, ok := f.seats[id]
		if ok && seat.State == domain.SeatHeld {
			seat.State = domain.SeatFree
			f.seats[id] = seat
		}
	}
	return nil
}

func (f *fakeStore) FinalizeSeats(ctx context.Context, seatIDs []string) error {
	defer f.lockUnlessTx(ctx)()
	for _, id := range seatIDs {
		seat, ok := f.seats[id]
		if !ok || seat.State != domain.SeatHeld {
			return domain.ErrSeatStateConflict
		}
		seat.State = domain.SeatReserved
		f.seats[id] = seat
	}
	return nil
}

func (f *fakeStore) ListAvailable(ctx context.Context, eventID string) ([]domain.Seat, error) {
	defer f.lockUnlessTx(ctx)()
	var free []domain.Seat
	for _, seat := range f.seats {
		if seat.EventID == eventID && seat.State == domain.SeatFree {
			free = append(free, seat)
		}
	}
	return free, nil
}

func (f *fakeStore) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	e, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeStore) GetUser(_ context.Context, userID string) (domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) seatState(id string) domain.SeatState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seats[id].State
}

func (f *fakeStore) paymentsFor(orderID string) []domain.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Payment
	for _, p := range f.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out
}

// scriptedGateway returns a fixed result (or transport error) per token.
type scriptedGateway struct {
	mu      sync.Mutex
	charges int
}

func (g *scriptedGateway) Charge(_ context.Context, _ int64, token string) (payment.Result, error) {
	g.mu.Lock()
	g.charges++
	g.mu.Unlock()
	switch token {
	case "ok":
		return payment.Result{Success: true, TransactionID: "txn_ok"}, nil
	case "declined":
		return payment.Result{Success: false, ErrorMessage: "insufficient funds"}, nil
	case "unreachable":
		return payment.Result{}, errors.New("gateway timeout")
	default:
		return payment.Result{Success: false, ErrorMessage: "unknown token"}, nil
	}
}

func (g *scriptedGateway) chargeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.charges
}
