package entities

// Author represents a quote author entity in the database
type Author struct {
	ID           int64  `json:"id"`
	Fullname     string `json:"fullname"`
	BornDate     string `json:"born_date"`
	BornLocation string `json:"born_location"`
	Bio          string `json:"bio"`
}

// Tag represents a quote tag entity in the database
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagCount pairs a tag with the number of quotes referencing it
type TagCount struct {
	Tag
	QuoteCount int `json:"quote_count"`
}

// Quote represents a quote entity in the database
type Quote struct {
	ID       int64  `json:"id"`
	AuthorID int64  `json:"author_id"`
	Author   string `json:"author"`
	Text     string `json:"text"`
	Tags     []Tag  `json:"tags"`
}
