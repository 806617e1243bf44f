package model

import (
	"errors"
	"fmt"
)

// Source identifies an external data provider queried for lead signals.
type Source string

const (
	SourceLinkedIn  Source = "linkedin"
	SourceInstagram Source = "instagram"
	SourceFacebook  Source = "facebook"
	SourceTwitter   Source = "twitter"
)

// AllSources lists every source in canonical order. Anything that emits
// per-source output iterates this slice so results never depend on
// completion order.
var AllSources = []Source{SourceLinkedIn, SourceInstagram, SourceFacebook, SourceTwitter}

// Label returns the display name used in summaries.
func (s Source) Label() string {
	switch s {
	case SourceLinkedIn:
		return "LinkedIn"
	case SourceInstagram:
		return "Instagram"
	case SourceFacebook:
		return "Facebook"
	case SourceTwitter:
		return "Twitter"
	default:
		return string(s)
	}
}

// SourceStatus is the outcome tag of a SourceResult.
type SourceStatus string

const (
	StatusSuccess     SourceStatus = "success"
	StatusUnavailable SourceStatus = "unavailable"
	StatusFailed      SourceStatus = "failed"
	StatusTimedOut    SourceStatus = "timed_out"
)

// ErrorKind is the coarse failure classification surfaced to callers.
// Raw upstream errors never leave the adapter; only the kind does.
type ErrorKind string

const (
	KindAuth        ErrorKind = "auth_error"
	KindRateLimited ErrorKind = "rate_limited"
	KindNotFound    ErrorKind = "not_found"
	KindTimedOut    ErrorKind = "timed_out"
	KindParse       ErrorKind = "parse_error"
	KindNetwork     ErrorKind = "network_error"
	KindValidation  ErrorKind = "validation_error"
	KindInternal    ErrorKind = "internal_error"
)

// SourceError is the error form of a non-success SourceResult. The retry
// loop works on errors, so guarded calls round-trip through this type.
type SourceError struct {
	Source    Source
	Kind      ErrorKind
	Reason    string
	Retryable bool
}

func (e *SourceError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Kind, e.Reason)
}

// SourceResult is the tagged outcome for one (lead, source) pair. Build it
// with Success, Unavailable, Failed or TimedOut; a result is never both a
// success and a failure.
type SourceResult struct {
	Source    Source       `json:"source"`
	Status    SourceStatus `json:"status"`
	Kind      ErrorKind    `json:"error_kind,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Attempts  int          `json:"attempts,omitempty"`
	Payload   Payload      `json:"-"`
	retryable bool
}

// Success wraps a normalized payload.
func Success(src Source, payload Payload) SourceResult {
	return SourceResult{Source: src, Status: StatusSuccess, Payload: payload}
}

// Unavailable records that the source was not queried for this lead.
func Unavailable(src Source, reason string) SourceResult {
	return SourceResult{Source: src, Status: StatusUnavailable, Reason: reason}
}

// Failed records a classified failure. Reason must be safe to show to
// callers: no credentials, no upstream bodies.
func Failed(src Source, kind ErrorKind, reason string) SourceResult {
	if kind == KindTimedOut {
		return TimedOut(src)
	}
	return SourceResult{Source: src, Status: StatusFailed, Kind: kind, Reason: reason}
}

// Transient marks a failure as safe to retry.
func Transient(r SourceResult) SourceResult {
	if r.Status == StatusFailed || r.Status == StatusTimedOut {
		r.retryable = true
	}
	return r
}

// TimedOut records a source that did not settle in time.
func TimedOut(src Source) SourceResult {
	return SourceResult{Source: src, Status: StatusTimedOut, Kind: KindTimedOut, Reason: "source did not respond in time", retryable: true}
}

// OK reports whether the result carries usable data.
func (r SourceResult) OK() bool {
	return r.Status == StatusSuccess && r.Payload != nil
}

// Queried reports whether the source was actually asked for data.
func (r SourceResult) Queried() bool {
	return r.Status != StatusUnavailable && r.Status != ""
}

// Retryable reports whether the failure is transient.
func (r SourceResult) Retryable() bool {
	return r.retryable
}

// Err returns nil on success and a *SourceError otherwise.
func (r SourceResult) Err() error {
	if r.Status == StatusSuccess {
		return nil
	}
	kind := r.Kind
	if r.Status == StatusUnavailable {
		kind = ""
	}
	return &SourceError{Source: r.Source, Kind: kind, Reason: r.Reason, Retryable: r.retryable}
}

// ResultFromError converts an error produced by SourceResult.Err back into
// a result. Any other error is treated as a network failure.
func ResultFromError(src Source, err error) SourceResult {
	var se *SourceError
	if !errors.As(err, &se) {
		return Failed(src, KindNetwork, "request failed")
	}
	if se.Kind == "" {
		return Unavailable(src, se.Reason)
	}
	r := Failed(src, se.Kind, se.Reason)
	if se.Retryable {
		r = Transient(r)
	}
	return r
}
