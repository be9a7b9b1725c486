package fetcher

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/pagelens/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration
	// MaxBodySize caps the response body in bytes. Zero uses colly's default.
	MaxBodySize int
}

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent:   defaultUserAgent,
		Timeout:     30 * time.Second,
		MaxBodySize: 10 << 20,
	}
}

const defaultUserAgent = "Mozilla/5.0 (compatible; pagelens/1.0; +https://github.com/jmylchreest/pagelens)"

// StaticFetcher fetches pages with a plain HTTP request through colly. It
// does not run JavaScript.
type StaticFetcher struct {
	config StaticConfig
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	defaults := DefaultStaticConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = defaults.MaxBodySize
	}
	return &StaticFetcher{config: cfg}
}

// Fetch retrieves the page at targetURL.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) (Page, error) {
	page := Page{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	// A new collector per request keeps fetches independent.
	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.StdlibContext(ctx),
		colly.MaxBodySize(f.config.MaxBodySize),
	)
	c.SetRequestTimeout(f.config.Timeout)

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		page.StatusCode = r.StatusCode
		page.ContentType = r.Headers.Get("Content-Type")
		page.HTML = string(r.Body)
		logger.Debug("page fetched",
			"url", targetURL,
			"status", r.StatusCode,
			"content_type", page.ContentType,
			"body_size", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			page.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
		logger.Debug("page fetch failed", "url", targetURL, "status", page.StatusCode, "error", err)
	})

	if err := c.Visit(targetURL); err != nil {
		return page, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return page, fetchErr
	}

	if !isTextual(page.ContentType) {
		return page, fmt.Errorf("%w: %s", ErrUnsupportedContent, page.ContentType)
	}
	if strings.TrimSpace(page.HTML) == "" {
		return page, ErrEmptyBody
	}

	page.Title = title(page.HTML)
	return page, nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}

// isTextual reports whether a Content-Type header names HTML or text.
// A missing header is accepted.
func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/xhtml+xml"
}

func title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
