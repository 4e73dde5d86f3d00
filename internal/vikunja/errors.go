package vikunja

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// APIError represents a non-2xx response from the Vikunja API. The remote
// status and message are preserved so callers can explain the failure; the
// bearer token is never included.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int

	// Message is the error message from the response body, if any.
	Message string

	// RetryAfter is the delay requested by a rate-limit response, zero when
	// the server did not send one.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vikunja: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("vikunja: HTTP %d %s", e.Status, http.StatusText(e.Status))
}

// Retryable reports whether the error class permits another attempt:
// rate limits and server errors are retryable, other client errors are not.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// retryable classifies an arbitrary dispatch error. API errors carry their
// own classification; cancellation is terminal; anything else (connection
// resets, timeouts, malformed responses from proxies) counts as a network
// error and is retried.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return true
}

// retryAfterOf extracts the server-requested delay from a rate-limit error,
// zero when none applies.
func retryAfterOf(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}

// parseRetryAfter parses a Retry-After header value, which may be either a
// delay in seconds or an HTTP date.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
