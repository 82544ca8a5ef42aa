package domain

type SeatState string

const (
	SeatFree     SeatState = "FREE"
	SeatHeld     SeatState = "HELD"
	SeatReserved SeatState = "RESERVED"
)

// Seat is one sellable place at an event. State transitions FREE→HELD,
// HELD→RESERVED and HELD→FREE happen only through the reservation engine.
type Seat struct {
	ID         string
	EventID    string
	Label      string
	Row        string
	Col        int
	PriceCents int64
	State      SeatState
}
