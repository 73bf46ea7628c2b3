// Package httpclient builds HTTP clients with the guards outbound calls
// need: request timeouts, a circuit breaker, and response size limits.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"glycall/internal/logging"
)

// New returns an HTTP client with the given total-request timeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// NewWithCircuitBreaker builds an HTTP client guarded by a circuit breaker.
func NewWithCircuitBreaker(timeout time.Duration, name string, logger logging.Logger) *http.Client {
	client := New(timeout)
	client.Transport = &breakerRoundTripper{
		base:    http.DefaultTransport,
		breaker: newBreaker(name, logger),
	}
	return client
}

type breakerRoundTripper struct {
	base    http.RoundTripper
	breaker *breaker
}

func (t *breakerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if err := t.breaker.allow(); err != nil {
		return nil, err
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		// A caller-cancelled request says nothing about upstream health.
		if errors.Is(err, context.Canceled) {
			t.breaker.mark(nil)
			return nil, err
		}
		t.breaker.mark(err)
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		t.breaker.mark(fmt.Errorf("http status %d", resp.StatusCode))
	} else {
		t.breaker.mark(nil)
	}
	return resp, nil
}

// ResponseTooLargeError reports that the response body exceeded the limit.
type ResponseTooLargeError struct {
	Limit int64
}

func (e ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeded limit of %d bytes", e.Limit)
}

// ReadAllWithLimit reads the response body up to the provided limit.
// If limit <= 0, it behaves like io.ReadAll.
func ReadAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	lr := &io.LimitedReader{R: r, N: limit + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ResponseTooLargeError{Limit: limit}
	}
	return data, nil
}
