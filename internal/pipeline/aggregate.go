// Package pipeline runs lead qualification: per-source aggregation, scoring
// and summary generation over a bounded worker pool.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/source"
)

// Adapters resolves the (guarded) adapter for a source. A nil return means
// the source is not configured.
type Adapters interface {
	Get(src model.Source) source.Adapter
}

// Aggregator fetches every applicable source for a lead concurrently and
// merges the outcomes into one profile.
type Aggregator struct {
	adapters    Adapters
	leadTimeout time.Duration
}

// NewAggregator creates an Aggregator. A non-positive leadTimeout leaves
// the lead bounded only by the caller's context.
func NewAggregator(adapters Adapters, leadTimeout time.Duration) *Aggregator {
	return &Aggregator{adapters: adapters, leadTimeout: leadTimeout}
}

type fetched struct {
	src model.Source
	res model.SourceResult
}

// Aggregate returns the enriched profile for lead. It always returns a
// result for every source: sources still pending when the lead deadline
// passes are recorded as timed out.
func (a *Aggregator) Aggregate(ctx context.Context, lead model.LeadInput) *model.EnrichedProfile {
	results := make(map[model.Source]model.SourceResult, len(model.AllSources))

	lctx := ctx
	if a.leadTimeout > 0 {
		var cancel context.CancelFunc
		lctx, cancel = context.WithTimeout(ctx, a.leadTimeout)
		defer cancel()
	}

	// Buffered so late fetches never block after the deadline.
	ch := make(chan fetched, len(model.AllSources))
	pending := make(map[model.Source]bool, len(model.AllSources))

	for _, src := range model.AllSources {
		handle := lead.Handle(src)
		if handle == "" {
			results[src] = model.Unavailable(src, "no handle provided")
			continue
		}
		adapter := a.adapters.Get(src)
		if adapter == nil {
			results[src] = model.Failed(src, model.KindAuth, "source not configured")
			continue
		}
		pending[src] = true
		go func() {
			ch <- fetched{src: src, res: safeFetch(lctx, adapter, src, handle)}
		}()
	}

	for len(pending) > 0 {
		select {
		case f := <-ch:
			if !pending[f.src] {
				continue
			}
			delete(pending, f.src)
			results[f.src] = f.res
		case <-lctx.Done():
			for src := range pending {
				results[src] = model.TimedOut(src)
			}
			zap.L().Debug("lead deadline reached with sources pending",
				zap.Int64("lead_id", lead.ID),
				zap.Int("pending", len(pending)),
			)
			pending = nil
		}
	}

	return model.NewEnrichedProfile(lead.ID, results)
}

func safeFetch(ctx context.Context, adapter source.Adapter, src model.Source, handle string) (res model.SourceResult) {
	defer func() {
		if p := recover(); p != nil {
			zap.L().Error("source fetch panicked",
				zap.String("source", string(src)),
				zap.String("panic", fmt.Sprint(p)),
			)
			res = model.Failed(src, model.KindParse, "adapter failed unexpectedly")
		}
	}()
	res = adapter.Fetch(ctx, handle)
	if res.Status == "" {
		return model.Failed(src, model.KindParse, "adapter returned no result")
	}
	res.Source = src
	return res
}
