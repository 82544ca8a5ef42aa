package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSeatUnavailable    = errors.New("seat unavailable")
	ErrInvalidOrderState  = errors.New("order state forbids this operation")
	ErrHoldExpired        = errors.New("hold expired")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrEventSalesClosed   = errors.New("event sales closed")
	ErrEventNotFound      = errors.New("event not found")
	ErrVenueNotFound      = errors.New("venue not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrSeatStateConflict  = errors.New("seat not in expected state")
	ErrSeatLabelTaken     = errors.New("seat label already exists for event")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmptySelection     = errors.New("at least one seat required")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidCapacity    = errors.New("invalid capacity")
	ErrEventNameRequired  = errors.New("event name required")
	ErrVenueNameRequired  = errors.New("venue name required")
	ErrSeatLabelRequired  = errors.New("seat label required")
	ErrInvalidID          = errors.New("invalid id")
)

// SeatUnavailableError reports the first seat that blocked a claim. It
// matches ErrSeatUnavailable under errors.Is so callers can branch on the
// kind without caring which seat lost the race.
type SeatUnavailableError struct {
	SeatID string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s unavailable", e.SeatID)
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}
