// Package http provides the HTTP client infrastructure used by the scraping
// fallback source and the image capture paths: per-domain rate limiting,
// retry with exponential backoff, and rate-limit aware error handling.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"ytexport/retry"
)

// Config holds HTTP client configuration.
type Config struct {
	// Timeout for individual HTTP requests.
	Timeout time.Duration
	// Retry configuration for transient failures.
	Retry retry.Config
	// UserAgent sent with every request unless overridden.
	UserAgent string
	// RateLimiter configuration.
	RateLimiter RateLimiterConfig
}

// DefaultConfig returns sensible defaults for scraping YouTube surfaces.
func DefaultConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		Retry:       retry.DefaultConfig(),
		UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		RateLimiter: DefaultRateLimiterConfig(),
	}
}

// Client wraps an HTTP client with retry logic and rate limiting.
type Client struct {
	base        *http.Client
	config      *Config
	rateLimiter *RateLimiter
}

// New creates a new HTTP client with the given configuration.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		base: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config:      cfg,
		rateLimiter: NewRateLimiter(cfg.RateLimiter),
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get performs a GET request with retry logic.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, nil)
}

// Do performs an HTTP request with rate limiting and retry on transient
// failures. 429/403/503 responses surface as *RateLimitError, other non-2xx
// as *HTTPError.
func (c *Client) Do(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) (*Response, error) {
	if err := c.rateLimiter.Wait(ctx, urlStr); err != nil {
		return nil, err
	}

	var out *Response

	err := retry.Do(ctx, c.config.Retry, c.isRetryable, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = newByteReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
		if err != nil {
			return err
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("http request failed: %w", err)
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusForbidden:
			return &RateLimitError{
				StatusCode:     resp.StatusCode,
				RetryAfter:     parseRetryAfter(resp.Header),
				IsBotDetection: resp.StatusCode == http.StatusForbidden,
			}
		}

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &HTTPError{StatusCode: resp.StatusCode, Body: respBody}
		}

		out = &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       respBody,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

// isRetryable decides if a request failure is worth another attempt.
func (c *Client) isRetryable(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}
	if _, ok := err.(*RateLimitError); ok {
		return true
	}
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.StatusCode >= 500
	}
	return true
}

// parseRetryAfter extracts the Retry-After header as a duration, accepting
// either a second count or an HTTP date. Absent or malformed returns 0.
func parseRetryAfter(header http.Header) time.Duration {
	retryAfter := header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(retryAfter); err == nil {
		return time.Until(t)
	}
	return 0
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.base.CloseIdleConnections()
	return nil
}

// byteReader is a fresh reader per retry attempt so request bodies can be
// resent.
type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader {
	return &byteReader{data: data}
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
