package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Uploader pushes image bytes to a third-party host and returns the
// public URL of the stored image.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

type client struct {
	http      *resty.Client
	uploadURL string
}

type uploadResponse struct {
	URL string `json:"url"`
}

// NewClient creates an image host client for the given upload endpoint
func NewClient(uploadURL, apiKey string) Uploader {
	httpClient := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("Authorization", "Bearer "+apiKey)

	return &client{
		http:      httpClient,
		uploadURL: uploadURL,
	}
}

// Upload sends the image as a multipart form and returns the hosted URL
func (c *client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	var result uploadResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", name, bytes.NewReader(data)).
		SetResult(&result).
		Post(c.uploadURL)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("image host returned %s", resp.Status())
	}
	if result.URL == "" {
		return "", fmt.Errorf("image host returned no URL")
	}

	return result.URL, nil
}
