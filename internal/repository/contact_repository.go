package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contactly-be/internal/entities"
)

// ContactRepository defines the interface for contact database operations.
// Every lookup that takes a userID is owner-scoped: a contact owned by
// another user behaves exactly like a missing row.
type ContactRepository interface {
	Create(ctx context.Context, contact *entities.Contact) (*entities.Contact, error)
	FindByID(ctx context.Context, contactID int64, userID string) (*entities.Contact, error)
	GetByUserID(ctx context.Context, userID string) ([]*entities.Contact, error)
	Update(ctx context.Context, contact *entities.Contact) (*entities.Contact, error)
	Delete(ctx context.Context, contactID int64, userID string) error
}

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, name, surname, email, phone, birthday, description, user_id, created_at`

func scanContact(row *sql.Row) (*entities.Contact, error) {
	var contact entities.Contact
	err := row.Scan(
		&contact.ID,
		&contact.Name,
		&contact.Surname,
		&contact.Email,
		&contact.Phone,
		&contact.Birthday,
		&contact.Description,
		&contact.UserID,
		&contact.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}
	return &contact, nil
}

// Create inserts a new contact into the database
func (r *contactRepository) Create(ctx context.Context, contact *entities.Contact) (*entities.Contact, error) {
	query := `
		INSERT INTO contacts (name, surname, email, phone, birthday, description, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + contactColumns

	created, err := scanContact(r.db.QueryRowContext(ctx, query,
		contact.Name,
		contact.Surname,
		contact.Email,
		contact.Phone,
		contact.Birthday,
		contact.Description,
		contact.UserID,
	))
	if uniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return created, nil
}

// FindByID finds a contact by id, scoped to its owner
func (r *contactRepository) FindByID(ctx context.Context, contactID int64, userID string) (*entities.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`
	return scanContact(r.db.QueryRowContext(ctx, query, contactID, userID))
}

// GetByUserID retrieves all contacts owned by a user, in insertion order.
// This is the full-iteration primitive behind search and the birthday list.
func (r *contactRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*entities.Contact
	for rows.Next() {
		var contact entities.Contact
		err := rows.Scan(
			&contact.ID,
			&contact.Name,
			&contact.Surname,
			&contact.Email,
			&contact.Phone,
			&contact.Birthday,
			&contact.Description,
			&contact.UserID,
			&contact.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &contact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// Update replaces every mutable field of an owned contact in place
func (r *contactRepository) Update(ctx context.Context, contact *entities.Contact) (*entities.Contact, error) {
	if contact.UserID == nil {
		return nil, fmt.Errorf("user ID required")
	}

	query := `
		UPDATE contacts
		SET name = $1, surname = $2, email = $3, phone = $4, birthday = $5, description = $6
		WHERE id = $7 AND user_id = $8
		RETURNING ` + contactColumns

	updated, err := scanContact(r.db.QueryRowContext(ctx, query,
		contact.Name,
		contact.Surname,
		contact.Email,
		contact.Phone,
		contact.Birthday,
		contact.Description,
		contact.ID,
		*contact.UserID,
	))
	if uniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a contact from the database (only if the user owns it)
func (r *contactRepository) Delete(ctx context.Context, contactID int64, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1 AND user_id = $2`, contactID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
