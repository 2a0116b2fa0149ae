// Package transport wraps outbound HTTP requests with bounded
// retry/backoff for transient provider failures. It carries no business
// knowledge; callers hand it a URL and get bytes or an error back.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultMaxAttempts bounds how many times a single Get is tried.
	DefaultMaxAttempts = 3
	// DefaultBackoff is the base delay; attempt N waits N * DefaultBackoff.
	DefaultBackoff = 500 * time.Millisecond
)

// StatusError reports a response the transport gave up on.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client issues GET requests with automatic retry on transient failures.
type Client struct {
	httpClient  *http.Client
	maxAttempts int
	backoff     time.Duration
}

// New creates a transport client with the default retry policy.
func New(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
	}
}

// WithRetryPolicy overrides the retry ceiling and base backoff delay.
func (c *Client) WithRetryPolicy(maxAttempts int, backoff time.Duration) *Client {
	if maxAttempts > 0 {
		c.maxAttempts = maxAttempts
	}
	c.backoff = backoff
	return c
}

// retryable reports whether a status code is worth another attempt.
// 429 and 5xx are transient; any other non-2xx status is permanent.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// Get fetches the URL, retrying network errors and transient statuses with
// linearly increasing delay. Permanent statuses are returned immediately as
// a *StatusError without retry.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "context canceled during retry")
			case <-time.After(time.Duration(attempt-1) * c.backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = errors.Wrap(err, "failed to execute request")
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = errors.Wrap(err, "failed to read response body")
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		statusErr := &StatusError{Code: resp.StatusCode, Body: string(body)}
		if !retryable(resp.StatusCode) {
			return nil, statusErr
		}
		lastErr = statusErr
	}

	return nil, errors.Wrapf(lastErr, "giving up after %d attempts", c.maxAttempts)
}
