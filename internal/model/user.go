package model

import "time"

// User represents a registered account that owns audit history.
// PasswordHash holds the argon2id PHC string and never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
