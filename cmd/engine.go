package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/config"
	"github.com/sells-group/lead-qualifier/internal/pipeline"
	"github.com/sells-group/lead-qualifier/internal/resilience"
	"github.com/sells-group/lead-qualifier/internal/scorer"
	"github.com/sells-group/lead-qualifier/internal/source"
)

// engine holds the wired qualification stack shared by serve and qualify.
type engine struct {
	Orchestrator *pipeline.Orchestrator
	Limiters     *resilience.LimiterSet
	Registry     *source.Registry
}

// initEngine validates cfg for mode and builds limiters, adapters, the
// scorer and the orchestrator.
func initEngine(c *config.Config, mode string) (*engine, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	sc, err := buildScorer(c.Scoring)
	if err != nil {
		return nil, err
	}

	limiters := source.NewLimiterSet(c)
	reg := source.NewRegistryFromConfig(c, limiters)

	orch := pipeline.New(reg, sc, pipeline.Options{
		Workers:      c.Qualify.Workers,
		LeadTimeout:  c.Qualify.LeadTimeout(),
		BatchTimeout: c.Qualify.BatchTimeout(),
	})

	zap.L().Info("qualification engine ready",
		zap.String("mode", mode),
		zap.Int("workers", c.Qualify.Workers),
		zap.Strings("sources", limiters.Names()),
	)

	return &engine{Orchestrator: orch, Limiters: limiters, Registry: reg}, nil
}

func buildScorer(sc config.ScoringConfig) (*scorer.Scorer, error) {
	scfg := scorer.DefaultConfig()
	if sc.WeightsFile != "" {
		loaded, err := scorer.LoadConfig(sc.WeightsFile)
		if err != nil {
			return nil, eris.Wrap(err, "load scoring weights")
		}
		scfg = loaded
	}
	if len(sc.PersonalEmailDomains) > 0 {
		scfg.PersonalEmailDomains = sc.PersonalEmailDomains
	}
	return scorer.New(scfg)
}
