package domain

import "time"

// User represents an end-user identity resolvable through the user directory.
// Credential material never leaves the domain layer.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
