package entities

import "time"

// Contact represents a contact entity in the database
type Contact struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Birthday    time.Time `json:"birthday"`
	Description *string   `json:"description,omitempty"` // Pointer allows nil (no description)
	UserID      *string   `json:"user_id,omitempty"`     // Pointer allows nil (orphaned contacts), UUID
	CreatedAt   time.Time `json:"created_at"`
}
