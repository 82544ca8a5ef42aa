package domain

import "time"

// User is a registered customer account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
