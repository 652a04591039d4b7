// Package fetcher wraps HTTP retrieval for the scanner: a shared client,
// a fixed User-Agent, body size capping and per-request timeouts.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agentscan/agentscan/models"
)

// Response is one fetched document.
type Response struct {
	// Status is the HTTP status code.
	Status int
	// OK is true for 2xx responses.
	OK bool
	// Body is the response body, capped at the configured byte limit.
	Body string
	// Duration is wall time from request start to body read completion.
	Duration time.Duration
	// Truncated is true when the body hit the byte cap.
	Truncated bool
}

// Fetcher issues the scans' HTTP requests.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// New builds a Fetcher from config. Redirects are followed with the
// client's default policy.
func New(cfg models.ScanConfig) *Fetcher {
	return NewWithClient(&http.Client{}, cfg)
}

// NewWithClient builds a Fetcher on an existing client. Used by tests to
// inject TLS-aware clients.
func NewWithClient(client *http.Client, cfg models.ScanConfig) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// Fetch retrieves a URL with the given timeout. Oversized bodies are
// truncated at the byte cap, never rejected. Non-2xx statuses are not
// errors; the caller inspects Response.OK.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain,*/*")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	// Read one byte past the cap to distinguish "exactly at cap" from
	// "truncated".
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}
	truncated := int64(len(body)) > f.maxBody
	if truncated {
		body = body[:f.maxBody]
	}

	return &Response{
		Status:    resp.StatusCode,
		OK:        resp.StatusCode >= 200 && resp.StatusCode < 300,
		Body:      string(body),
		Duration:  time.Since(start),
		Truncated: truncated,
	}, nil
}
