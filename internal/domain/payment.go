package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Payment is one attempt to charge an order. At most one SUCCESS payment
// may exist per order; a FAILED payment leaves the order retryable.
type Payment struct {
	ID         string
	OrderID    string
	Status     PaymentStatus
	GatewayRef string
	CreatedAt  time.Time
}
