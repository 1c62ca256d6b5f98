package models

import "contactly-be/internal/entities"

// QuotePageResponse represents one page of quotes plus pagination metadata
type QuotePageResponse struct {
	Quotes   []*entities.Quote `json:"quotes"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Pages    int               `json:"pages"`
	Total    int               `json:"total"`
}

// TopTagsResponse represents the top-N tag ranking
type TopTagsResponse struct {
	Tags []*entities.TagCount `json:"tags"`
}
