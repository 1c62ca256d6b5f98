package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contactly-be/internal/entities"
)

// QuoteRepository defines the interface for author/tag/quote database operations
type QuoteRepository interface {
	CreateAuthor(ctx context.Context, author *entities.Author) (*entities.Author, error)
	FindAuthorByID(ctx context.Context, id int64) (*entities.Author, error)
	FindTagByName(ctx context.Context, name string) (*entities.Tag, error)
	GetTagCounts(ctx context.Context) ([]*entities.TagCount, error)
	CreateQuote(ctx context.Context, authorID int64, text string, tagNames []string) (*entities.Quote, error)
	GetQuotes(ctx context.Context, tagID *int64, limit, offset int) ([]*entities.Quote, error)
	CountQuotes(ctx context.Context, tagID *int64) (int, error)
}

type quoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sql.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

// CreateAuthor inserts a new author into the database
func (r *quoteRepository) CreateAuthor(ctx context.Context, author *entities.Author) (*entities.Author, error) {
	query := `
		INSERT INTO authors (fullname, born_date, born_location, bio)
		VALUES ($1, $2, $3, $4)
		RETURNING id, fullname, born_date, born_location, bio
	`

	var created entities.Author
	err := r.db.QueryRowContext(ctx, query,
		author.Fullname, author.BornDate, author.BornLocation, author.Bio,
	).Scan(&created.ID, &created.Fullname, &created.BornDate, &created.BornLocation, &created.Bio)

	if uniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return &created, nil
}

// FindAuthorByID finds an author by id
func (r *quoteRepository) FindAuthorByID(ctx context.Context, id int64) (*entities.Author, error) {
	query := `SELECT id, fullname, born_date, born_location, bio FROM authors WHERE id = $1`

	var author entities.Author
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&author.ID, &author.Fullname, &author.BornDate, &author.BornLocation, &author.Bio,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find author: %w", err)
	}

	return &author, nil
}

// FindTagByName finds a tag by its exact name
func (r *quoteRepository) FindTagByName(ctx context.Context, name string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE name = $1`, name).Scan(&tag.ID, &tag.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}

	return &tag, nil
}

// GetTagCounts retrieves every tag with the number of quotes referencing it.
// No ordering - ranking is business logic and happens in the service.
func (r *quoteRepository) GetTagCounts(ctx context.Context) ([]*entities.TagCount, error) {
	query := `
		SELECT t.id, t.name, COUNT(qt.quote_id)
		FROM tags t
		LEFT JOIN quote_tags qt ON qt.tag_id = t.id
		GROUP BY t.id, t.name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag counts: %w", err)
	}
	defer rows.Close()

	var counts []*entities.TagCount
	for rows.Next() {
		var tc entities.TagCount
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.QuoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		counts = append(counts, &tc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag counts: %w", err)
	}

	return counts, nil
}

// CreateQuote inserts a quote and attaches its tags (creating missing tags)
// inside a single transaction
func (r *quoteRepository) CreateQuote(ctx context.Context, authorID int64, text string, tagNames []string) (*entities.Quote, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var quote entities.Quote
	err = tx.QueryRowContext(ctx, `
		INSERT INTO quotes (author_id, text)
		VALUES ($1, $2)
		RETURNING id, author_id, text
	`, authorID, text).Scan(&quote.ID, &quote.AuthorID, &quote.Text)
	if uniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	for _, name := range tagNames {
		var tag entities.Tag
		// Upsert keeps the insert race-free and always returns the row
		err = tx.QueryRowContext(ctx, `
			INSERT INTO tags (name)
			VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id, name
		`, name).Scan(&tag.ID, &tag.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert tag: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO quote_tags (quote_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, quote.ID, tag.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to attach tag: %w", err)
		}

		quote.Tags = append(quote.Tags, tag)
	}

	err = tx.QueryRowContext(ctx, `SELECT fullname FROM authors WHERE id = $1`, authorID).Scan(&quote.Author)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote author: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit quote: %w", err)
	}

	return &quote, nil
}

// GetQuotes retrieves one page of quotes ordered by descending id,
// optionally restricted to quotes referencing the given tag
func (r *quoteRepository) GetQuotes(ctx context.Context, tagID *int64, limit, offset int) ([]*entities.Quote, error) {
	var rows *sql.Rows
	var err error

	if tagID != nil {
		rows, err = r.db.QueryContext(ctx, `
			SELECT q.id, q.author_id, a.fullname, q.text
			FROM quotes q
			JOIN authors a ON a.id = q.author_id
			JOIN quote_tags qt ON qt.quote_id = q.id
			WHERE qt.tag_id = $1
			ORDER BY q.id DESC
			LIMIT $2 OFFSET $3
		`, *tagID, limit, offset)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT q.id, q.author_id, a.fullname, q.text
			FROM quotes q
			JOIN authors a ON a.id = q.author_id
			ORDER BY q.id DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*entities.Quote
	for rows.Next() {
		var quote entities.Quote
		if err := rows.Scan(&quote.ID, &quote.AuthorID, &quote.Author, &quote.Text); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, &quote)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}

	for _, quote := range quotes {
		tags, err := r.getQuoteTags(ctx, quote.ID)
		if err != nil {
			return nil, err
		}
		quote.Tags = tags
	}

	return quotes, nil
}

func (r *quoteRepository) getQuoteTags(ctx context.Context, quoteID int64) ([]entities.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name
		FROM tags t
		JOIN quote_tags qt ON qt.tag_id = t.id
		WHERE qt.quote_id = $1
		ORDER BY t.name
	`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote tags: %w", err)
	}
	defer rows.Close()

	var tags []entities.Tag
	for rows.Next() {
		var tag entities.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// CountQuotes counts the quotes visible through the optional tag filter
func (r *quoteRepository) CountQuotes(ctx context.Context, tagID *int64) (int, error) {
	var total int
	var err error

	if tagID != nil {
		err = r.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM quotes q
			JOIN quote_tags qt ON qt.quote_id = q.id
			WHERE qt.tag_id = $1
		`, *tagID).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&total)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count quotes: %w", err)
	}

	return total, nil
}
