package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contactly-be/internal/entities"
	"contactly-be/internal/models"
	"contactly-be/internal/repository"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is returned when an input constraint is violated before
// any store access is attempted
var ErrValidation = errors.New("validation failed")

// Contacts become visible in the birthday list from one day before the
// anchored date up to (but not including) seven days ahead
const birthdayWindow = 7 * 24 * time.Hour

// ContactService defines the interface for contact business logic.
// Every operation is scoped to the authenticated user's id: a contact
// owned by someone else behaves exactly like a missing record.
type ContactService interface {
	List(ctx context.Context, userID string) ([]*entities.Contact, error)
	Get(ctx context.Context, userID string, contactID int64) (*entities.Contact, error)
	Create(ctx context.Context, userID string, req *models.ContactRequest) (*entities.Contact, error)
	Update(ctx context.Context, userID string, contactID int64, req *models.ContactRequest) (*entities.Contact, error)
	Remove(ctx context.Context, userID string, contactID int64) (*entities.Contact, error)
	Search(ctx context.Context, userID, query string) ([]*entities.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID string, now time.Time) ([]*entities.Contact, error)
}

type contactService struct {
	repo     repository.ContactRepository
	validate *validator.Validate
}

// NewContactService creates a new contact service
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{
		repo:     repo,
		validate: validator.New(),
	}
}

// validateRequest checks the field constraints and parses the birthday.
// It runs before any store access so a bad request never reaches the database.
func (s *contactService) validateRequest(req *models.ContactRequest) (time.Time, error) {
	if err := s.validate.Var(req.Name, "required,min=2,max=20"); err != nil {
		return time.Time{}, fmt.Errorf("%w: name must be 2-20 characters", ErrValidation)
	}
	if err := s.validate.Var(req.Surname, "required,min=2,max=20"); err != nil {
		return time.Time{}, fmt.Errorf("%w: surname must be 2-20 characters", ErrValidation)
	}
	if err := s.validate.Var(req.Email, "required,email"); err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if err := s.validate.Var(req.Phone, "required,min=6,max=20"); err != nil {
		return time.Time{}, fmt.Errorf("%w: phone must be 6-20 characters", ErrValidation)
	}

	birthday, err := time.Parse(models.DateFormat, req.Birthday)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birthday must be a YYYY-MM-DD date", ErrValidation)
	}

	return birthday, nil
}

// List returns all contacts owned by the user
func (s *contactService) List(ctx context.Context, userID string) ([]*entities.Contact, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Get returns the contact only when both id and owner match
func (s *contactService) Get(ctx context.Context, userID string, contactID int64) (*entities.Contact, error) {
	return s.repo.FindByID(ctx, contactID, userID)
}

// Create validates the request and stores a new contact owned by the user
func (s *contactService) Create(ctx context.Context, userID string, req *models.ContactRequest) (*entities.Contact, error) {
	birthday, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	contact := &entities.Contact{
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		Phone:       req.Phone,
		Birthday:    birthday,
		Description: req.Description,
		UserID:      &userID,
	}

	return s.repo.Create(ctx, contact)
}

// Update replaces every mutable field of an owned contact. Partial updates
// are not supported - the request body wins wholesale.
func (s *contactService) Update(ctx context.Context, userID string, contactID int64, req *models.ContactRequest) (*entities.Contact, error) {
	birthday, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	contact := &entities.Contact{
		ID:          contactID,
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		Phone:       req.Phone,
		Birthday:    birthday,
		Description: req.Description,
		UserID:      &userID,
	}

	return s.repo.Update(ctx, contact)
}

// Remove deletes an owned contact and returns the deleted record.
// A second call on the same id reports not-found.
func (s *contactService) Remove(ctx context.Context, userID string, contactID int64) (*entities.Contact, error) {
	contact, err := s.repo.FindByID(ctx, contactID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, contactID, userID); err != nil {
		return nil, err
	}

	return contact, nil
}

// Search walks the user's contacts in store order and keeps each contact
// whose name, surname, email or phone contains the query, case-insensitive.
// A contact matching on several fields is included once.
func (s *contactService) Search(ctx context.Context, userID, query string) ([]*entities.Contact, error) {
	contacts, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]*entities.Contact, 0)
	for _, contact := range contacts {
		if strings.Contains(strings.ToLower(contact.Name), needle) ||
			strings.Contains(strings.ToLower(contact.Surname), needle) ||
			strings.Contains(strings.ToLower(contact.Email), needle) ||
			strings.Contains(strings.ToLower(contact.Phone), needle) {
			matches = append(matches, contact)
		}
	}

	return matches, nil
}

// UpcomingBirthdays returns the user's contacts whose birthday, re-anchored
// onto now's year, falls in the open interval (now-1d, now+7d)
func (s *contactService) UpcomingBirthdays(ctx context.Context, userID string, now time.Time) ([]*entities.Contact, error) {
	contacts, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	upcoming := make([]*entities.Contact, 0)
	for _, contact := range contacts {
		anchored := anchorBirthday(contact.Birthday, now)
		delta := anchored.Sub(now)
		if delta > -24*time.Hour && delta < birthdayWindow {
			upcoming = append(upcoming, contact)
		}
	}

	return upcoming, nil
}

// anchorBirthday moves the birthday's month and day onto now's year.
// Feb 29 lands on Feb 28 in non-leap years; without the clamp time.Date
// would normalize it to Mar 1.
func anchorBirthday(birthday, now time.Time) time.Time {
	month, day := birthday.Month(), birthday.Day()
	if month == time.February && day == 29 && !isLeapYear(now.Year()) {
		day = 28
	}
	return time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
