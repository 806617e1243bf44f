package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"upstream 503", NewTransientError(errors.New("twitter: unexpected status 503"), 503), true},
		{"wrapped upstream 429", fmt.Errorf("fetch profile: %w", NewTransientError(errors.New("rate limited"), 429)), true},
		{"deadline", context.DeadlineExceeded, true},
		{"dns timeout", &net.DNSError{IsTimeout: true, Err: "timeout"}, true},
		{"econnreset", fmt.Errorf("read tcp: %w", syscall.ECONNRESET), true},
		{"econnrefused", fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED), true},
		{"no such host text", errors.New("dial tcp: lookup api.x.com: no such host"), true},
		{"unexpected eof text", errors.New("linkedin: request failed: unexpected EOF"), true},
		{"cancelled", context.Canceled, false},
		{"login wall", errors.New("login required"), false},
		{"not found", errors.New("profile not found"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	t.Parallel()

	for code, want := range map[int]bool{
		200: false, 400: false, 401: false, 403: false, 404: false, 410: false, 501: false,
		408: true, 429: true, 500: true, 502: true, 503: true, 504: true,
	} {
		assert.Equal(t, want, IsTransientHTTPStatus(code), "status %d", code)
	}
}

func TestTransientError_KeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("instagram: unexpected status 502")
	err := fmt.Errorf("fetch: %w", NewTransientError(cause, 502))

	var te *TransientError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, 502, te.StatusCode)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), te.Error())
}

func TestIsTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), true},
		{"net timeout", &net.DNSError{IsTimeout: true, Err: "timeout"}, true},
		{"client timeout text", errors.New("Get x: Client.Timeout exceeded while awaiting headers"), true},
		{"tls handshake text", errors.New("net/http: TLS handshake timeout"), true},
		{"cancelled", context.Canceled, false},
		{"transient status", NewTransientError(errors.New("503"), 503), false},
		{"plain", errors.New("bad request"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTimeout(tt.err))
		})
	}
}
