package service

import (
	"context"
	"testing"

	"contactly-be/internal/entities"
	"contactly-be/internal/models"
	"contactly-be/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuoteRepo is an in-memory stand-in for the postgres repository
type fakeQuoteRepo struct {
	authors []*entities.Author
	tags    map[string]*entities.Tag
	quotes  []*entities.Quote
	counts  []*entities.TagCount
	nextID  int64
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{tags: make(map[string]*entities.Tag), nextID: 1}
}

func (f *fakeQuoteRepo) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeQuoteRepo) CreateAuthor(_ context.Context, author *entities.Author) (*entities.Author, error) {
	for _, a := range f.authors {
		if a.Fullname == author.Fullname {
			return nil, repository.ErrDuplicate
		}
	}
	stored := *author
	stored.ID = f.id()
	f.authors = append(f.authors, &stored)
	return &stored, nil
}

func (f *fakeQuoteRepo) FindAuthorByID(_ context.Context, id int64) (*entities.Author, error) {
	for _, a := range f.authors {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeQuoteRepo) FindTagByName(_ context.Context, name string) (*entities.Tag, error) {
	if tag, ok := f.tags[name]; ok {
		return tag, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeQuoteRepo) GetTagCounts(_ context.Context) ([]*entities.TagCount, error) {
	return f.counts, nil
}

func (f *fakeQuoteRepo) CreateQuote(_ context.Context, authorID int64, text string, tagNames []string) (*entities.Quote, error) {
	for _, q := range f.quotes {
		if q.Text == text {
			return nil, repository.ErrDuplicate
		}
	}
	quote := &entities.Quote{ID: f.id(), AuthorID: authorID, Text: text}
	for _, name := range tagNames {
		tag, ok := f.tags[name]
		if !ok {
			tag = &entities.Tag{ID: f.id(), Name: name}
			f.tags[name] = tag
		}
		quote.Tags = append(quote.Tags, *tag)
	}
	f.quotes = append(f.quotes, quote)
	return quote, nil
}

func (f *fakeQuoteRepo) filtered(tagID *int64) []*entities.Quote {
	if tagID == nil {
		return f.quotes
	}
	var out []*entities.Quote
	for _, q := range f.quotes {
		for _, tag := range q.Tags {
			if tag.ID == *tagID {
				out = append(out, q)
				break
			}
		}
	}
	return out
}

func (f *fakeQuoteRepo) GetQuotes(_ context.Context, tagID *int64, limit, offset int) ([]*entities.Quote, error) {
	quotes := f.filtered(tagID)

	// descending id, the store's listing order
	ordered := make([]*entities.Quote, len(quotes))
	copy(ordered, quotes)
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}

	if offset >= len(ordered) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[offset:end], nil
}

func (f *fakeQuoteRepo) CountQuotes(_ context.Context, tagID *int64) (int, error) {
	return len(f.filtered(tagID)), nil
}

func TestTopTagsRanking(t *testing.T) {
	repo := newFakeQuoteRepo()
	repo.counts = []*entities.TagCount{
		{Tag: entities.Tag{ID: 1, Name: "Life"}, QuoteCount: 5},
		{Tag: entities.Tag{ID: 2, Name: "Love"}, QuoteCount: 3},
		{Tag: entities.Tag{ID: 3, Name: "Wisdom"}, QuoteCount: 5},
		{Tag: entities.Tag{ID: 4, Name: "Humor"}, QuoteCount: 1},
	}
	svc := NewQuoteService(repo, nil, 4)

	tags, err := svc.TopTags(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, tags, 4)

	// equal counts break the tie by name, descending: Wisdom before Life
	assert.Equal(t, "Wisdom", tags[0].Name)
	assert.Equal(t, "Life", tags[1].Name)
	assert.Equal(t, "Love", tags[2].Name)
	assert.Equal(t, "Humor", tags[3].Name)
}

func TestTopTagsTruncatesToN(t *testing.T) {
	repo := newFakeQuoteRepo()
	for i := 0; i < 15; i++ {
		repo.counts = append(repo.counts, &entities.TagCount{
			Tag:        entities.Tag{ID: int64(i + 1), Name: string(rune('A' + i))},
			QuoteCount: i,
		})
	}
	svc := NewQuoteService(repo, nil, 4)

	tags, err := svc.TopTags(context.Background(), 0) // 0 falls back to the default of 10
	require.NoError(t, err)
	assert.Len(t, tags, 10)
	assert.Equal(t, 14, tags[0].QuoteCount)
}

func seedQuotes(t *testing.T, svc QuoteService, n int, tags []string) {
	t.Helper()
	author, err := svc.CreateAuthor(context.Background(), &models.AuthorRequest{
		Fullname:     "Albert Einstein",
		BornDate:     "March 14, 1879",
		BornLocation: "in Ulm, Germany",
		Bio:          "Theoretical physicist.",
	})
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		_, err := svc.CreateQuote(context.Background(), &models.QuoteRequest{
			AuthorID: author.ID,
			Text:     string(rune('a'+i)) + " quote",
			Tags:     tags,
		})
		require.NoError(t, err)
	}
}

func TestListQuotesPagination(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc := NewQuoteService(repo, nil, 4)

	seedQuotes(t, svc, 9, []string{"wisdom"})

	page, err := svc.ListQuotes(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Len(t, page.Quotes, 4)
	assert.Equal(t, 9, page.Total)
	assert.Equal(t, 3, page.Pages)

	// newest first
	assert.Greater(t, page.Quotes[0].ID, page.Quotes[1].ID)

	page, err = svc.ListQuotes(context.Background(), "", 3)
	require.NoError(t, err)
	assert.Len(t, page.Quotes, 1)

	page, err = svc.ListQuotes(context.Background(), "", 4)
	require.NoError(t, err)
	assert.Empty(t, page.Quotes)
}

func TestListQuotesTagFilter(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc := NewQuoteService(repo, nil, 4)

	seedQuotes(t, svc, 3, []string{"wisdom"})

	// the filter capitalizes the requested name before the exact match
	page, err := svc.ListQuotes(context.Background(), "wISDom", 1)
	require.NoError(t, err)
	assert.Len(t, page.Quotes, 3)

	// an unknown tag fails silently to an empty page
	page, err = svc.ListQuotes(context.Background(), "nosuchtag", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Quotes)
	assert.Equal(t, 0, page.Total)
}

func TestCreateQuoteErrors(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc := NewQuoteService(repo, nil, 4)

	_, err := svc.CreateQuote(context.Background(), &models.QuoteRequest{
		AuthorID: 42,
		Text:     "no author",
		Tags:     []string{"life"},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	author, err := svc.CreateAuthor(context.Background(), &models.AuthorRequest{
		Fullname:     "Mark Twain",
		BornDate:     "November 30, 1835",
		BornLocation: "in Florida, Missouri",
		Bio:          "Author and humorist.",
	})
	require.NoError(t, err)

	_, err = svc.CreateQuote(context.Background(), &models.QuoteRequest{AuthorID: author.ID, Text: "once", Tags: []string{"life"}})
	require.NoError(t, err)

	_, err = svc.CreateQuote(context.Background(), &models.QuoteRequest{AuthorID: author.ID, Text: "once", Tags: []string{"life"}})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = svc.CreateAuthor(context.Background(), &models.AuthorRequest{
		Fullname:     "Mark Twain",
		BornDate:     "November 30, 1835",
		BornLocation: "in Florida, Missouri",
		Bio:          "Author and humorist.",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Wisdom", capitalize("wISDOM"))
	assert.Equal(t, "Life", capitalize("life"))
	assert.Equal(t, "", capitalize(""))
}
