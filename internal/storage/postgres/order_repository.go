package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seatwise/ticketer/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// CreateOrder persists an order and its items. Callers run it inside the
// same transaction that claimed the seats.
func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, user_id, event_id, status, total_cents, hold_expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt,
		order.ID, order.UserID, order.EventID, order.Status,
		order.TotalCents, order.HoldExpiresAt, order.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order: %w", err)
	}

	for _, item := range order.Items {
		const itemStmt = `
INSERT INTO order_items (order_id, seat_id, price_cents)
VALUES ($1, $2, $3)`
		if _, err := r.exec(ctx, itemStmt, item.OrderID, item.SeatID, item.PriceCents); err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}
	return nil
}

// GetOrderForUpdate loads an order and its items with an exclusive lock
// on the orders row. Confirm, cancel and the sweeper all serialize on
// this lock before mutating.
func (r *OrderRepository) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, user_id, event_id, status, total_cents, hold_expires_at, created_at
FROM orders
WHERE id = $1
FOR UPDATE`

	return r.getOrder(ctx, query, orderID)
}

// GetOrder loads an order and its items without locking.
func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, user_id, event_id, status, total_cents, hold_expires_at, created_at
FROM orders
WHERE id = $1`

	return r.getOrder(ctx, query, orderID)
}

func (r *OrderRepository) getOrder(ctx context.Context, query, orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.queryRow(ctx, query, orderID).Scan(
		&o.ID, &o.UserID, &o.EventID, &o.Status,
		&o.TotalCents, &o.HoldExpiresAt, &o.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const query = `
SELECT order_id, seat_id, price_cents
FROM order_items
WHERE order_id = $1
ORDER BY seat_id`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.OrderID, &item.SeatID, &item.PriceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

// SetOrderStatus moves an order to a new status. Leaving PENDING clears
// the hold deadline.
func (r *OrderRepository) SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	const stmt = `
UPDATE orders
SET status = $2,
    hold_expires_at = CASE WHEN $2 = 'PENDING' THEN hold_expires_at ELSE NULL END
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, status)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// CreatePayment records one charge attempt. The partial unique index on
// (order_id) WHERE status='SUCCESS' enforces at most one successful
// payment per order.
func (r *OrderRepository) CreatePayment(ctx context.Context, p domain.Payment) error {
	const stmt = `
INSERT INTO payments (id, order_id, status, gateway_ref, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, p.ID, p.OrderID, p.Status, p.GatewayRef, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidOrderState
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// ListPayments returns all charge attempts for an order, oldest first.
func (r *OrderRepository) ListPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	const query = `
SELECT id, order_id, status, COALESCE(gateway_ref, ''), created_at
FROM payments
WHERE order_id = $1
ORDER BY created_at`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Status, &p.GatewayRef, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// ListExpiredOrderIDs returns ids of PENDING orders whose hold deadline
// has passed. No locks are taken; the sweeper re-checks each order under
// its row lock before mutating.
func (r *OrderRepository) ListExpiredOrderIDs(ctx context.Context, now time.Time) ([]string, error) {
	const query = `
SELECT id
FROM orders
WHERE status = 'PENDING' AND hold_expires_at < $1
ORDER BY hold_expires_at`

	rows, err := r.query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list expired orders: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expired orders: %w", err)
	}
	return ids, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
