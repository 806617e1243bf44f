// Package sourcehttp holds the request plumbing shared by the profile
// source clients: a single HTTP round trip with a bounded body and a small
// error vocabulary callers can classify.
package sourcehttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/internal/resilience"
)

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 4 << 20

// Sentinel errors returned by the source clients.
var (
	ErrNotFound      = eris.New("profile not found")
	ErrLoginRequired = eris.New("login required")
	ErrMalformed     = eris.New("malformed response")
)

// StatusError reports a non-2xx response. The body is never included so
// upstream content cannot leak into results or logs.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Service, e.StatusCode)
}

// RequestError wraps a transport failure (DNS, connect, TLS, deadline).
type RequestError struct {
	Service string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Service, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// MalformedError reports a body that could not be decoded.
type MalformedError struct {
	Service string
	Err     error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Service, e.Err)
}

// Is lets errors.Is(err, ErrMalformed) match.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Malformed wraps a decode failure for service.
func Malformed(service string, err error) error {
	return &MalformedError{Service: service, Err: err}
}

// NewHTTPClient returns the client used by source clients when none is
// injected.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Do performs a single request and returns the body of a 2xx response.
// 404 and 410 map to ErrNotFound; other non-2xx codes yield *StatusError,
// wrapped in a resilience.TransientError when the status is retryable.
func Do(ctx context.Context, hc *http.Client, req *http.Request, service string) ([]byte, error) {
	resp, err := hc.Do(req.WithContext(ctx))
	if err != nil {
		return nil, &RequestError{Service: service, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodyBytes))
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodyBytes))
		se := &StatusError{Service: service, StatusCode: resp.StatusCode}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(se, resp.StatusCode)
		}
		return nil, se
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, &RequestError{Service: service, Err: err}
	}
	if len(body) > MaxBodyBytes {
		return nil, Malformed(service, eris.Errorf("body exceeds %d bytes", MaxBodyBytes))
	}
	return body, nil
}
