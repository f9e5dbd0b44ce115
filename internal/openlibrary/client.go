// Package openlibrary provides a read-only client for the Open Library search and books APIs.
package openlibrary

import (
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/bookshelf/internal/config"
	"github.com/lepinkainen/bookshelf/internal/ratelimit"
)

const (
	opSearch  = "search"
	opDetails = "details"
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is an Open Library API client.
type Client struct {
	searchURL   string
	detailURL   string
	userAgent   string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
}

// NewClient creates a new Open Library client using the public endpoints.
func NewClient(opts ...Option) *Client {
	client := &Client{
		searchURL:   config.DefaultSearchURL,
		detailURL:   config.DefaultDetailURL,
		userAgent:   config.DefaultUserAgent,
		httpClient:  &http.Client{Timeout: config.DefaultTimeout},
		rateLimiter: ratelimit.New("OpenLibrary", config.DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// NewClientFromSettings builds a client from resolved configuration.
func NewClientFromSettings(s config.Settings, opts ...Option) *Client {
	base := []Option{
		WithSearchURL(s.SearchURL),
		WithDetailURL(s.DetailURL),
		WithUserAgent(s.UserAgent),
		WithRateLimiter(ratelimit.New("OpenLibrary", s.RateLimit)),
	}
	if s.Timeout > 0 {
		base = append(base, WithHTTPClient(&http.Client{Timeout: s.Timeout}))
	}
	return NewClient(append(base, opts...)...)
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithSearchURL sets the search endpoint, e.g. https://openlibrary.org/search.json.
func WithSearchURL(endpoint string) Option {
	return func(client *Client) {
		if endpoint != "" {
			client.searchURL = strings.TrimSuffix(endpoint, "/")
		}
	}
}

// WithDetailURL sets the books endpoint, e.g. https://openlibrary.org/api/books.
func WithDetailURL(endpoint string) Option {
	return func(client *Client) {
		if endpoint != "" {
			client.detailURL = strings.TrimSuffix(endpoint, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(client *Client) {
		if ua != "" {
			client.userAgent = ua
		}
	}
}

// WithRateLimiter sets the rate limiter; nil disables limiting.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}

// WithTimeout replaces the HTTP client with one using the given timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			client.httpClient = &http.Client{Timeout: timeout}
		}
	}
}
