package engine

import (
	"context"
	"fmt"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Retry policy comes from go-stealth: exponential backoff on 429/5xx and
// transient network errors.
type RetryConfig = stealth.RetryConfig

// DefaultRetryConfig is used by the search and YouTube endpoints.
var DefaultRetryConfig = stealth.DefaultRetryConfig

func IsRetryableStatus(code int) bool { return stealth.IsRetryableStatus(code) }

func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	return stealth.RetryDo(ctx, rc, fn)
}

// RetryHTTP runs fn under stealth.RetryHTTP. A retryable status that
// outlasts every retry surfaces as *StatusError so callers keep the
// "HTTP Error <code>" message. Other statuses reach the caller with the
// body open.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	var calls, lastStatus int
	resp, err := stealth.RetryHTTP(ctx, rc, func() (*http.Response, error) {
		calls++
		if calls > 1 {
			metrics.Retries.Add(1)
		}
		r, err := fn()
		lastStatus = 0
		if err == nil {
			lastStatus = r.StatusCode
		}
		return r, err
	})
	if err != nil && ctx.Err() == nil && IsRetryableStatus(lastStatus) {
		return nil, &StatusError{StatusCode: lastStatus}
	}
	return resp, err
}

// StatusError is a non-2xx HTTP status. Its message is the user-facing
// "HTTP Error <code>: <reason>" form.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}
