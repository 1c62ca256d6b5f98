package entities

import "time"

// User represents a user entity in the database
type User struct {
	ID           string    `json:"id"` // UUID
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`                // Don't expose password hash in JSON
	Avatar       *string   `json:"avatar,omitempty"` // Pointer allows nil (no avatar uploaded)
	RefreshToken *string   `json:"-"`
	Confirmed    bool      `json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
}
