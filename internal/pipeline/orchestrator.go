package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/scorer"
	"github.com/sells-group/lead-qualifier/internal/summary"
)

const defaultWorkers = 4

// Options configures an Orchestrator.
type Options struct {
	Workers      int
	LeadTimeout  time.Duration
	BatchTimeout time.Duration
}

// Orchestrator qualifies batches of leads.
type Orchestrator struct {
	agg          *Aggregator
	scorer       *scorer.Scorer
	workers      int
	batchTimeout time.Duration
}

// New creates an Orchestrator.
func New(adapters Adapters, sc *scorer.Scorer, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if sc == nil {
		sc = scorer.Default()
	}
	return &Orchestrator{
		agg:          NewAggregator(adapters, opts.LeadTimeout),
		scorer:       sc,
		workers:      opts.Workers,
		batchTimeout: opts.BatchTimeout,
	}
}

// Qualify returns one QualifiedLead per input lead, in input order. It never
// fails as a whole: invalid leads come back unqualifiable and leads not
// reached before the batch deadline come back timed out.
func (o *Orchestrator) Qualify(ctx context.Context, leads []model.LeadInput) []model.QualifiedLead {
	start := time.Now()
	log := zap.L().With(
		zap.String("batch_id", uuid.NewString()),
		zap.Int("leads", len(leads)),
	)

	bctx := ctx
	if o.batchTimeout > 0 {
		var cancel context.CancelFunc
		bctx, cancel = context.WithTimeout(ctx, o.batchTimeout)
		defer cancel()
	}

	out := make([]model.QualifiedLead, len(leads))
	done := make([]bool, len(leads))
	invalid := ValidateBatch(leads)

	jobs := make(chan int)
	var g errgroup.Group
	for range min(o.workers, len(leads)) {
		g.Go(func() error {
			for idx := range jobs {
				if bctx.Err() != nil {
					continue
				}
				out[idx] = o.process(bctx, leads[idx], log)
				done[idx] = true
			}
			return nil
		})
	}

dispatch:
	for i, lead := range leads {
		if reason, bad := invalid[i]; bad {
			log.Debug("lead rejected", zap.Int64("lead_id", lead.ID), zap.String("reason", reason))
			out[i] = unqualifiable(lead, model.KindValidation, reason)
			done[i] = true
			continue
		}
		select {
		case jobs <- i:
		case <-bctx.Done():
			break dispatch
		}
	}
	close(jobs)
	_ = g.Wait()

	timedOut := 0
	for i, lead := range leads {
		if !done[i] {
			out[i] = o.timedOut(lead)
			timedOut++
		}
	}

	log.Info("batch qualified",
		zap.Int("unqualifiable", len(invalid)),
		zap.Int("timed_out", timedOut),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out
}

func (o *Orchestrator) process(ctx context.Context, lead model.LeadInput, log *zap.Logger) (q model.QualifiedLead) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("lead qualification panicked",
				zap.Int64("lead_id", lead.ID),
				zap.String("panic", fmt.Sprint(p)),
			)
			q = unqualifiable(lead, model.KindInternal, "internal error during qualification")
		}
	}()

	p := o.agg.Aggregate(ctx, lead)
	q = o.assemble(lead, p)
	if ctx.Err() != nil && hasTimedOut(p) {
		q.Status = model.LeadTimedOut
	}

	log.Debug("lead qualified",
		zap.Int64("lead_id", lead.ID),
		zap.Float64("score", q.Score),
		zap.Float64("confidence", q.Confidence),
		zap.String("status", string(q.Status)),
	)
	return q
}

// timedOut builds the result for a lead the batch never reached: every
// source it would have queried is marked timed out.
func (o *Orchestrator) timedOut(lead model.LeadInput) model.QualifiedLead {
	results := make(map[model.Source]model.SourceResult, len(model.AllSources))
	for _, src := range model.AllSources {
		if lead.Handle(src) == "" {
			results[src] = model.Unavailable(src, "no handle provided")
			continue
		}
		results[src] = model.TimedOut(src)
	}
	q := o.assemble(lead, model.NewEnrichedProfile(lead.ID, results))
	q.Status = model.LeadTimedOut
	return q
}

func (o *Orchestrator) assemble(lead model.LeadInput, p *model.EnrichedProfile) model.QualifiedLead {
	b := o.scorer.Score(lead, p)
	employment := o.scorer.Employment(lead, p)

	q := model.NewQualifiedLead(lead)
	q.Score = b.Total
	q.Employment = employment
	q.Confidence = b.Confidence
	q.Breakdown = b.Factors
	q.QualificationSummary = summary.Generate(lead, p, b, employment)
	q.Status = model.LeadQualified
	q.AttachProfile(p)
	return q
}

func unqualifiable(lead model.LeadInput, kind model.ErrorKind, reason string) model.QualifiedLead {
	q := model.NewQualifiedLead(lead)
	q.Status = model.LeadUnqualifiable
	q.ErrorKind = kind
	q.QualificationSummary = summary.Unqualifiable(lead, reason)
	return q
}

func hasTimedOut(p *model.EnrichedProfile) bool {
	for _, r := range p.Results {
		if r.Status == model.StatusTimedOut {
			return true
		}
	}
	return false
}
