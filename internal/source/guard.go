package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/resilience"
)

// Guard wraps an adapter with its source's token bucket, the retry policy
// and a per-attempt timeout. Every attempt takes one token.
type Guard struct {
	adapter        Adapter
	tokens         resilience.TokenSource
	retry          resilience.RetryConfig
	attemptTimeout time.Duration
}

// NewGuard creates a guarded adapter.
func NewGuard(a Adapter, tokens resilience.TokenSource, retry resilience.RetryConfig, attemptTimeout time.Duration) *Guard {
	return &Guard{
		adapter:        a,
		tokens:         tokens,
		retry:          retry,
		attemptTimeout: attemptTimeout,
	}
}

// Source returns the wrapped adapter's source.
func (g *Guard) Source() model.Source { return g.adapter.Source() }

// Fetch runs the adapter under the retry policy and reports the final
// outcome with the number of attempts made.
func (g *Guard) Fetch(ctx context.Context, handle string) model.SourceResult {
	src := g.Source()

	cfg := g.retry
	cfg.ShouldRetry = func(err error) bool {
		var se *model.SourceError
		return errors.As(err, &se) && se.Retryable
	}
	cfg.OnRetry = resilience.RetryLogger(string(src), "fetch_profile")

	res, attempts, _ := resilience.DoVal(ctx, cfg, func(ctx context.Context, _ int) (model.SourceResult, error) {
		r := g.attempt(ctx, handle)
		return r, r.Err()
	})

	// A deadline only replaces outcomes that another attempt could have
	// changed; a definite answer such as not_found is kept.
	if res.Status != model.StatusSuccess && res.Retryable() && ctx.Err() != nil {
		res = model.TimedOut(src)
	}
	res.Attempts = attempts
	return res
}

func (g *Guard) attempt(ctx context.Context, handle string) (res model.SourceResult) {
	src := g.Source()
	defer func() {
		if p := recover(); p != nil {
			zap.L().Error("source adapter panicked",
				zap.String("source", string(src)),
				zap.String("panic", fmt.Sprint(p)),
			)
			res = model.Failed(src, model.KindParse, "adapter failed unexpectedly")
		}
	}()

	if err := g.tokens.Acquire(ctx); err != nil {
		return Classify(src, err)
	}

	actx := ctx
	if g.attemptTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, g.attemptTimeout)
		defer cancel()
	}

	res = g.adapter.Fetch(actx, handle)
	if res.Status == "" {
		return model.Failed(src, model.KindParse, "adapter returned no result")
	}
	if res.Source != src {
		res.Source = src
	}
	return res
}
