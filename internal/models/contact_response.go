package models

import (
	"time"

	"contactly-be/internal/entities"
)

// DateFormat is the wire format for birthdays
const DateFormat = "2006-01-02"

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Birthday    string    `json:"birthday"` // YYYY-MM-DD
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewContactResponse converts a contact entity to a response DTO
func NewContactResponse(contact *entities.Contact) *ContactResponse {
	return &ContactResponse{
		ID:          contact.ID,
		Name:        contact.Name,
		Surname:     contact.Surname,
		Email:       contact.Email,
		Phone:       contact.Phone,
		Birthday:    contact.Birthday.Format(DateFormat),
		Description: contact.Description,
		CreatedAt:   contact.CreatedAt,
	}
}

// NewContactListResponse converts a slice of contact entities to response DTOs
func NewContactListResponse(contacts []*entities.Contact) []*ContactResponse {
	responses := make([]*ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		responses = append(responses, NewContactResponse(contact))
	}
	return responses
}
