package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() != "pagelens-test" {
			http.Error(w, "bad agent", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title> Harbour \n News </title></head><body><p>The harbour reopened.</p></body></html>"))
	})
	mux.HandleFunc("/image", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticFetcher_Fetch(t *testing.T) {
	srv := newServer(t)
	f := NewStatic(StaticConfig{UserAgent: "pagelens-test"})

	page, err := f.Fetch(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", page.StatusCode)
	}
	if page.Title != "Harbour News" {
		t.Errorf("Title = %q, want %q", page.Title, "Harbour News")
	}
	if !strings.Contains(page.HTML, "The harbour reopened.") {
		t.Errorf("HTML missing body: %q", page.HTML)
	}
}

func TestStaticFetcher_Errors(t *testing.T) {
	srv := newServer(t)
	f := NewStatic(StaticConfig{UserAgent: "pagelens-test"})

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("expected error for 404")
	}

	_, err := f.Fetch(context.Background(), srv.URL+"/image")
	if !errors.Is(err, ErrUnsupportedContent) {
		t.Errorf("expected ErrUnsupportedContent, got %v", err)
	}
}

func TestNewStatic_Defaults(t *testing.T) {
	f := NewStatic(StaticConfig{})
	if f.config.UserAgent == "" || f.config.Timeout == 0 || f.config.MaxBodySize == 0 {
		t.Errorf("expected defaults, got %+v", f.config)
	}
	if f.Type() != "static" {
		t.Errorf("Type() = %q, want static", f.Type())
	}
}

func TestIsTextual(t *testing.T) {
	tests := map[string]bool{
		"":                         true,
		"text/html; charset=utf-8": true,
		"text/plain":               true,
		"application/xhtml+xml":    true,
		"application/pdf":          false,
		"image/png":                false,
		"not a media type;;;":      false,
	}
	for in, want := range tests {
		if got := isTextual(in); got != want {
			t.Errorf("isTextual(%q) = %v, want %v", in, got, want)
		}
	}
}
