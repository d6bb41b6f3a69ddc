package domain

import "time"

// User is a resource owner known to the built-in password authenticator.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
