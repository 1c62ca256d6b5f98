package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"
	"unicode"

	"contactly-be/internal/cache"
	"contactly-be/internal/entities"
	"contactly-be/internal/models"
	"contactly-be/internal/repository"
)

const (
	defaultTopTags = 10
	tagRankingKey  = "tags:ranking"
	tagRankingTTL  = 5 * time.Minute
)

// QuoteService defines the interface for quote and tag business logic
type QuoteService interface {
	TopTags(ctx context.Context, n int) ([]*entities.TagCount, error)
	ListQuotes(ctx context.Context, tagName string, page int) (*models.QuotePageResponse, error)
	CreateAuthor(ctx context.Context, req *models.AuthorRequest) (*entities.Author, error)
	GetAuthor(ctx context.Context, id int64) (*entities.Author, error)
	CreateQuote(ctx context.Context, req *models.QuoteRequest) (*entities.Quote, error)
}

type quoteService struct {
	repo     repository.QuoteRepository
	cache    cache.Cache
	pageSize int
}

// NewQuoteService creates a new quote service
func NewQuoteService(repo repository.QuoteRepository, cacheClient cache.Cache, pageSize int) QuoteService {
	if pageSize <= 0 {
		pageSize = 4
	}
	return &quoteService{
		repo:     repo,
		cache:    cacheClient,
		pageSize: pageSize,
	}
}

// TopTags ranks all tags by quote count (descending) with tag name
// (descending) as the tie-break, and returns the first n (default 10)
func (s *quoteService) TopTags(ctx context.Context, n int) ([]*entities.TagCount, error) {
	if n <= 0 {
		n = defaultTopTags
	}

	ranking, err := s.tagRanking(ctx)
	if err != nil {
		return nil, err
	}

	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking, nil
}

// tagRanking returns the full sorted ranking, cached for a short TTL
func (s *quoteService) tagRanking(ctx context.Context) ([]*entities.TagCount, error) {
	if s.cache != nil {
		var cached []*entities.TagCount
		if err := s.cache.GetJSON(ctx, tagRankingKey, &cached); err == nil && cached != nil {
			return cached, nil
		}
	}

	counts, err := s.repo.GetTagCounts(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].QuoteCount != counts[j].QuoteCount {
			return counts[i].QuoteCount > counts[j].QuoteCount
		}
		return counts[i].Name > counts[j].Name
	})

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, tagRankingKey, counts, tagRankingTTL); err != nil {
			log.Printf("Warning: failed to cache tag ranking: %v", err)
		}
	}

	return counts, nil
}

// ListQuotes returns one page of quotes ordered by descending id.
// An unknown tag name yields an empty page, never an error.
func (s *quoteService) ListQuotes(ctx context.Context, tagName string, page int) (*models.QuotePageResponse, error) {
	if page < 1 {
		page = 1
	}

	var tagID *int64
	if tagName != "" {
		// Tag names are stored capitalized; the filter is an exact match
		// after the same normalization
		tag, err := s.repo.FindTagByName(ctx, capitalize(tagName))
		if errors.Is(err, repository.ErrNotFound) {
			return &models.QuotePageResponse{
				Quotes:   []*entities.Quote{},
				Page:     page,
				PageSize: s.pageSize,
			}, nil
		}
		if err != nil {
			return nil, err
		}
		tagID = &tag.ID
	}

	total, err := s.repo.CountQuotes(ctx, tagID)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * s.pageSize
	quotes, err := s.repo.GetQuotes(ctx, tagID, s.pageSize, offset)
	if err != nil {
		return nil, err
	}
	if quotes == nil {
		quotes = []*entities.Quote{}
	}

	return &models.QuotePageResponse{
		Quotes:   quotes,
		Page:     page,
		PageSize: s.pageSize,
		Pages:    (total + s.pageSize - 1) / s.pageSize,
		Total:    total,
	}, nil
}

// CreateAuthor stores a new author; a duplicate fullname reports a conflict
func (s *quoteService) CreateAuthor(ctx context.Context, req *models.AuthorRequest) (*entities.Author, error) {
	return s.repo.CreateAuthor(ctx, &entities.Author{
		Fullname:     req.Fullname,
		BornDate:     req.BornDate,
		BornLocation: req.BornLocation,
		Bio:          req.Bio,
	})
}

// GetAuthor returns the author behind the about page
func (s *quoteService) GetAuthor(ctx context.Context, id int64) (*entities.Author, error) {
	return s.repo.FindAuthorByID(ctx, id)
}

// CreateQuote stores a new quote for an existing author, attaching its tags
// (created when missing), and invalidates the cached tag ranking
func (s *quoteService) CreateQuote(ctx context.Context, req *models.QuoteRequest) (*entities.Quote, error) {
	if _, err := s.repo.FindAuthorByID(ctx, req.AuthorID); err != nil {
		return nil, err
	}

	tagNames := make([]string, 0, len(req.Tags))
	for _, name := range req.Tags {
		name = strings.TrimSpace(name)
		if name != "" {
			tagNames = append(tagNames, capitalize(name))
		}
	}

	quote, err := s.repo.CreateQuote(ctx, req.AuthorID, req.Text, tagNames)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, tagRankingKey); err != nil {
			log.Printf("Warning: failed to invalidate tag ranking cache: %v", err)
		}
	}

	return quote, nil
}

// capitalize upper-cases the first rune and lower-cases the rest
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
