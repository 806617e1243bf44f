package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/resilience"
	"github.com/sells-group/lead-qualifier/pkg/sourcehttp"
)

// Classify maps a client error onto a SourceResult. Reasons are fixed
// phrases so upstream bodies and credentials never reach callers.
func Classify(src model.Source, err error) model.SourceResult {
	if err == nil {
		return model.Failed(src, model.KindParse, "empty result")
	}

	var (
		te *resilience.TransientError
		se *sourcehttp.StatusError
	)
	switch {
	case errors.Is(err, resilience.ErrTokenUnavailable):
		return model.Failed(src, model.KindRateLimited, "local rate limit budget exhausted")
	case errors.Is(err, sourcehttp.ErrLoginRequired):
		return model.Failed(src, model.KindAuth, "login required")
	case errors.Is(err, sourcehttp.ErrNotFound):
		return model.Failed(src, model.KindNotFound, "profile not found")
	case errors.Is(err, sourcehttp.ErrMalformed):
		return model.Failed(src, model.KindParse, "unexpected response format")
	case errors.As(err, &te) && te.StatusCode > 0:
		return retryableStatus(src, te.StatusCode)
	case errors.As(err, &se):
		return classifyStatus(src, se.StatusCode)
	case errors.Is(err, context.Canceled):
		return model.TimedOut(src)
	case resilience.IsTimeout(err):
		return model.TimedOut(src)
	case resilience.IsTransient(err):
		return model.Transient(model.Failed(src, model.KindNetwork, "transient network failure"))
	default:
		return model.Failed(src, model.KindNetwork, "request failed")
	}
}

// retryableStatus handles statuses the client marked transient.
func retryableStatus(src model.Source, code int) model.SourceResult {
	if code == http.StatusTooManyRequests {
		return model.Transient(model.Failed(src, model.KindRateLimited, "upstream rate limit (429)"))
	}
	return model.Transient(model.Failed(src, model.KindNetwork, fmt.Sprintf("upstream status %d", code)))
}

func classifyStatus(src model.Source, code int) model.SourceResult {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.Failed(src, model.KindAuth, fmt.Sprintf("upstream rejected credentials (%d)", code))
	case http.StatusNotFound, http.StatusGone:
		return model.Failed(src, model.KindNotFound, "profile not found")
	default:
		return model.Failed(src, model.KindParse, fmt.Sprintf("unexpected upstream status %d", code))
	}
}

func notConfigured(src model.Source) model.SourceResult {
	return model.Failed(src, model.KindAuth, "credentials not configured")
}

func badHandle(src model.Source) model.SourceResult {
	return model.Failed(src, model.KindNotFound, "handle not recognized")
}
