package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderExpired   OrderStatus = "EXPIRED"
)

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderConfirmed || s == OrderCancelled || s == OrderExpired
}

// Order is one purchase attempt. HoldExpiresAt is set only while PENDING;
// the total is derived from the items' price snapshots.
type Order struct {
	ID            string
	UserID        string
	EventID       string
	Status        OrderStatus
	TotalCents    int64
	HoldExpiresAt *time.Time
	CreatedAt     time.Time
	Items         []OrderItem
}

// OrderItem binds one claimed seat to its order. PriceCents is the seat
// price snapshotted at claim time, immune to later price changes.
type OrderItem struct {
	OrderID    string
	SeatID     string
	PriceCents int64
}

// SeatIDs returns the ids of all seats bound to the order's items.
func (o Order) SeatIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.SeatID)
	}
	return ids
}
