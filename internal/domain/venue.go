package domain

// Venue is a physical location hosting events.
type Venue struct {
	ID      string
	Name    string
	Address string
}
