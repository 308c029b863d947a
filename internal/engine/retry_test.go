package engine

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

var fastRetry = func() RetryConfig {
	rc := DefaultRetryConfig
	rc.MaxRetries = 3
	rc.InitialWait = time.Millisecond
	rc.MaxWait = 10 * time.Millisecond
	return rc
}()

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{StatusCode: 403}
	if got, want := err.Error(), "HTTP Error 403: Forbidden"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestRetryDoRetryThenSuccess(t *testing.T) {
	calls := 0
	got, err := RetryDo(context.Background(), fastRetry, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryDoNonRetryable(t *testing.T) {
	calls := 0
	_, err := RetryDo(context.Background(), fastRetry, func() (string, error) {
		calls++
		return "", errors.New("permanent error")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retry for non-retryable), got %d", calls)
	}
}

func TestRetryDoContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RetryDo(ctx, fastRetry, func() (string, error) {
		return "", &net.OpError{Op: "dial", Err: errors.New("refused")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetryHTTP(t *testing.T) {
	t.Run("recovers after 503", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		resp, err := RetryHTTP(context.Background(), fastRetry, func() (*http.Response, error) {
			return http.Get(srv.URL)
		})
		if err != nil {
			t.Fatalf("RetryHTTP() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if hits.Load() != 2 {
			t.Errorf("hits = %d, want 2", hits.Load())
		}
	})

	t.Run("persistent 502 surfaces StatusError", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		before := metrics.Retries.Load()
		_, err := RetryHTTP(context.Background(), fastRetry, func() (*http.Response, error) {
			return http.Get(srv.URL)
		})
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
			t.Fatalf("expected StatusError 502, got %v", err)
		}
		if got, want := err.Error(), "HTTP Error 502: Bad Gateway"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
		if hits.Load() < 2 {
			t.Errorf("hits = %d, want retries", hits.Load())
		}
		if got := metrics.Retries.Load() - before; got != int64(hits.Load()-1) {
			t.Errorf("retries counted = %d, want %d", got, hits.Load()-1)
		}
	})

	t.Run("404 passes through", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		resp, err := RetryHTTP(context.Background(), fastRetry, func() (*http.Response, error) {
			return http.Get(srv.URL)
		})
		if err != nil {
			t.Fatalf("RetryHTTP() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}
