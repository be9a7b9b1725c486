// Package fetcher retrieves web pages for analysis when the caller has a URL
// rather than page text.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves the page at url.
	Fetch(ctx context.Context, url string) (Page, error)

	// Type returns a string identifying the fetcher type (e.g., "static").
	Type() string
}

// Page is a fetched document.
type Page struct {
	URL         string
	HTML        string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

var (
	// ErrUnsupportedContent is returned for responses that are not HTML or text.
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrEmptyBody is returned when the server sent no body.
	ErrEmptyBody = errors.New("empty response body")
)
