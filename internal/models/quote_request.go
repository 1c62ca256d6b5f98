package models

// AuthorRequest represents the request body for creating an author
type AuthorRequest struct {
	Fullname     string `json:"fullname" binding:"required,max=50"`
	BornDate     string `json:"born_date" binding:"required,max=10"`
	BornLocation string `json:"born_location" binding:"required,max=100"`
	Bio          string `json:"bio" binding:"required"`
}

// QuoteRequest represents the request body for creating a quote
type QuoteRequest struct {
	AuthorID int64    `json:"author_id" binding:"required"`
	Text     string   `json:"text" binding:"required"`
	Tags     []string `json:"tags" binding:"required,min=1"`
}
