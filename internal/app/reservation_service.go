package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/seatwise/ticketer/internal/clock"
	"github.com/seatwise/ticketer/internal/domain"
	"github.com/seatwise/ticketer/internal/notify"
	"github.com/seatwise/ticketer/internal/payment"
)

// OrderStore persists orders and payments. WithTx establishes the ambient
// transaction that SeatStore calls join, so seat transitions and the
// order/payment mutations that depend on them commit as one unit.
type OrderStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	CreatePayment(ctx context.Context, p domain.Payment) error
	ListExpiredOrderIDs(ctx context.Context, now time.Time) ([]string, error)
}

// SeatStore is the seat inventory contract. Claim, release and finalize
// must be invoked inside the OrderStore transaction.
type SeatStore interface {
	ClaimSeats(ctx context.Context, eventID string, seatIDs []string) ([]domain.Seat, error)
	ReleaseSeats(ctx context.Context, seatIDs []string) error
	FinalizeSeats(ctx context.Context, seatIDs []string) error
	ListAvailable(ctx context.Context, eventID string) ([]domain.Seat, error)
}

type EventLookup interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

type UserLookup interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
}

// AvailabilityInvalidator drops cached availability listings after a
// seat-state change. Implementations must tolerate being called on every
// transition; a nil invalidator disables the concern.
type AvailabilityInvalidator interface {
	InvalidateAvailable(ctx context.Context, eventID string)
}

const defaultHoldTTL = 15 * time.Minute

// ReservationService is the reservation engine: it owns every seat-state
// transition and the order lifecycle around them.
type ReservationService struct {
	orders      OrderStore
	seats       SeatStore
	events      EventLookup
	users       UserLookup
	gateway     payment.Gateway
	notifier    notify.Notifier
	invalidator AvailabilityInvalidator
	clock       clock.Clock
	holdTTL     time.Duration
	logger      *slog.Logger
}

func NewReservationService(
	orders OrderStore,
	seats SeatStore,
	events EventLookup,
	users UserLookup,
	gateway payment.Gateway,
	clk clock.Clock,
	opts ...ReservationOption,
) *ReservationService {
	svc := &ReservationService{
		orders:  orders,
		seats:   seats,
		events:  events,
		users:   users,
		gateway: gateway,
		clock:   clk,
		holdTTL: defaultHoldTTL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationOption func(*ReservationService)

// WithHoldTTL overrides the default hold duration for new orders.
func WithHoldTTL(d time.Duration) ReservationOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// WithNotifier sets the confirmation notifier.
func WithNotifier(n notify.Notifier) ReservationOption {
	return func(s *ReservationService) {
		s.notifier = n
	}
}

// WithAvailabilityInvalidator wires cache invalidation for seat listings.
func WithAvailabilityInvalidator(inv AvailabilityInvalidator) ReservationOption {
	return func(s *ReservationService) {
		s.invalidator = inv
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) ReservationOption {
	return func(s *ReservationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// CreateOrderInput names seats either explicitly (SeatIDs) or by count
// (Quantity), in which case the engine auto-assigns the best free seats.
type CreateOrderInput struct {
	UserID   string
	EventID  string
	SeatIDs  []string
	Quantity int
}

// CreateOrderWithHold claims the requested seats and persists a PENDING
// order with a hold deadline. On any failure nothing is created and no
// seat is held.
func (s *ReservationService) CreateOrderWithHold(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if in.UserID == "" || in.EventID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	if len(in.SeatIDs) == 0 && in.Quantity <= 0 {
		return domain.Order{}, domain.ErrEmptySelection
	}

	event, err := s.events.GetEvent(ctx, in.EventID)
	if err != nil {
		return domain.Order{}, err
	}
	if !event.SalesOpen {
		return domain.Order{}, domain.ErrEventSalesClosed
	}

	now := s.clock.Now()
	var order domain.Order

	err = s.orders.WithTx(ctx, func(txCtx context.Context) error {
		ids := in.SeatIDs
		if len(ids) == 0 {
			free, err := s.seats.ListAvailable(txCtx, in.EventID)
			if err != nil {
				return err
			}
			picked, err := PickBestSeats(free, in.Quantity)
			if err != nil {
				return err
			}
			ids = seatIDs(picked)
		}

		claimed, err := s.seats.ClaimSeats(txCtx, in.EventID, ids)
		if err != nil {
			return err
		}

		orderID := newID()
		expires := now.Add(s.holdTTL)
		items := make([]domain.OrderItem, 0, len(claimed))
		var total int64
		for _, seat := range claimed {
			items = append(items, domain.OrderItem{
				OrderID:    orderID,
				SeatID:     seat.ID,
				PriceCents: seat.PriceCents,
			})
			total += seat.PriceCents
		}

		order = domain.Order{
			ID:            orderID,
			UserID:        in.UserID,
			EventID:       in.EventID,
			Status:        domain.OrderPending,
			TotalCents:    total,
			HoldExpiresAt: &expires,
			CreatedAt:     now,
			Items:         items,
		}
		return s.orders.CreateOrder(txCtx, order)
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.invalidate(ctx, in.EventID)
	return order, nil
}

type confirmOutcome int

const (
	outcomeConfirmed confirmOutcome = iota
	outcomeAlreadyConfirmed
	outcomeExpired
	outcomeDeclined
)

// ConfirmOrder charges the order and finalizes its seats. Confirming an
// already-CONFIRMED order is a no-op success so client retries after a
// dropped response cannot double-charge. A hold found past its deadline
// is expired here rather than waiting for the sweeper, and the payment is
// never attempted.
func (s *ReservationService) ConfirmOrder(ctx context.Context, orderID, paymentToken string) (domain.Order, error) {
	now := s.clock.Now()
	var (
		order   domain.Order
		outcome confirmOutcome
	)

	// The decline and expiry branches return nil from the tx fn so their
	// side effects (FAILED payment row, EXPIRED transition) commit; the
	// domain error is surfaced after the transaction.
	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		o, err := s.orders.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}

		switch o.Status {
		case domain.OrderConfirmed:
			order, outcome = o, outcomeAlreadyConfirmed
			return nil
		case domain.OrderCancelled, domain.OrderExpired:
			return domain.ErrInvalidOrderState
		}

		if o.HoldExpiresAt == nil || now.After(*o.HoldExpiresAt) {
			if err := s.seats.ReleaseSeats(txCtx, o.SeatIDs()); err != nil {
				return err
			}
			if err := s.orders.SetOrderStatus(txCtx, o.ID, domain.OrderExpired); err != nil {
				return err
			}
			o.Status = domain.OrderExpired
			o.HoldExpiresAt = nil
			order, outcome = o, outcomeExpired
			return nil
		}

		res, chargeErr := s.gateway.Charge(ctx, o.TotalCents, paymentToken)
		if chargeErr != nil || !res.Success {
			pay := domain.Payment{
				ID:         newID(),
				OrderID:    o.ID,
				Status:     domain.PaymentFailed,
				GatewayRef: res.TransactionID,
				CreatedAt:  now,
			}
			if err := s.orders.CreatePayment(txCtx, pay); err != nil {
				return err
			}
			if chargeErr != nil {
				s.logger.Warn("payment gateway unreachable", "order_id", o.ID, "error", chargeErr)
			}
			order, outcome = o, outcomeDeclined
			return nil
		}

		pay := domain.Payment{
			ID:         newID(),
			OrderID:    o.ID,
			Status:     domain.PaymentSuccess,
			GatewayRef: res.TransactionID,
			CreatedAt:  now,
		}
		if err := s.orders.CreatePayment(txCtx, pay); err != nil {
			return err
		}
		if err := s.seats.FinalizeSeats(txCtx, o.SeatIDs()); err != nil {
			return err
		}
		if err := s.orders.SetOrderStatus(txCtx, o.ID, domain.OrderConfirmed); err != nil {
			return err
		}
		o.Status = domain.OrderConfirmed
		o.HoldExpiresAt = nil
		order, outcome = o, outcomeConfirmed
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	switch outcome {
	case outcomeExpired:
		s.invalidate(ctx, order.EventID)
		return domain.Order{}, domain.ErrHoldExpired
	case outcomeDeclined:
		return domain.Order{}, domain.ErrPaymentDeclined
	case outcomeConfirmed:
		s.invalidate(ctx, order.EventID)
		s.sendConfirmation(ctx, order, now)
	}
	return order, nil
}

// CancelOrder releases a pending order's seats. Cancelling an order that
// is already CANCELLED or EXPIRED is an idempotent no-op; cancelling a
// CONFIRMED order is rejected since refunds are out of scope.
func (s *ReservationService) CancelOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var (
		order     domain.Order
		cancelled bool
	)

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		o, err := s.orders.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}

		switch o.Status {
		case domain.OrderConfirmed:
			return domain.ErrInvalidOrderState
		case domain.OrderCancelled, domain.OrderExpired:
			order = o
			return nil
		}

		if err := s.seats.ReleaseSeats(txCtx, o.SeatIDs()); err != nil {
			return err
		}
		if err := s.orders.SetOrderStatus(txCtx, o.ID, domain.OrderCancelled); err != nil {
			return err
		}
		o.Status = domain.OrderCancelled
		o.HoldExpiresAt = nil
		order = o
		cancelled = true
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	if cancelled {
		s.invalidate(ctx, order.EventID)
	}
	return order, nil
}

// GetOrder returns an order with its items, read-only.
func (s *ReservationService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

func (s *ReservationService) invalidate(ctx context.Context, eventID string) {
	if s.invalidator != nil {
		s.invalidator.InvalidateAvailable(ctx, eventID)
	}
}

// sendConfirmation is best effort: a notification failure is logged and
// never affects the confirmed order.
func (s *ReservationService) sendConfirmation(ctx context.Context, order domain.Order, now time.Time) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.GetUser(ctx, order.UserID)
	if err != nil {
		s.logger.Warn("confirmation skipped, user lookup failed", "order_id", order.ID, "error", err)
		return
	}
	c := notify.Confirmation{
		OrderID:     order.ID,
		UserEmail:   user.Email,
		EventID:     order.EventID,
		SeatIDs:     order.SeatIDs(),
		TotalCents:  order.TotalCents,
		ConfirmedAt: now,
	}
	if err := s.notifier.OrderConfirmed(ctx, c); err != nil {
		s.logger.Warn("confirmation notification failed", "order_id", order.ID, "error", err)
	}
}
