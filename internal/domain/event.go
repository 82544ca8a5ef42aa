package domain

import "time"

// Event represents a ticketed event with seat-level inventory.
type Event struct {
	ID        string
	VenueID   string
	Name      string
	StartsAt  time.Time
	Capacity  int
	SalesOpen bool
	CreatedAt time.Time
}
