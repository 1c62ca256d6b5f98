package models

// ContactRequest represents the request body for creating or replacing a contact.
// Updates are full replacements - every field is required except the description.
type ContactRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=20"`
	Surname     string  `json:"surname" binding:"required,min=2,max=20"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       string  `json:"phone" binding:"required,min=6,max=20"`
	Birthday    string  `json:"birthday" binding:"required"` // YYYY-MM-DD
	Description *string `json:"description,omitempty"`
}
