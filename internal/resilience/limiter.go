package resilience

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ErrTokenUnavailable is returned when a token cannot be obtained within the
// configured wait.
var ErrTokenUnavailable = eris.New("rate limit token unavailable")

// TokenSource hands out request permits. Implementations must be safe for
// concurrent use.
type TokenSource interface {
	Acquire(ctx context.Context) error
}

// LimiterConfig controls a single source's token bucket.
type LimiterConfig struct {
	// RatePerSec is the steady refill rate. Default: 2.
	RatePerSec float64

	// Burst is the bucket capacity. Default: 4.
	Burst int

	// MaxWait bounds how long Acquire blocks for a token. A reservation
	// that would wait longer is released and ErrTokenUnavailable returned.
	// Default: 2s.
	MaxWait time.Duration
}

// DefaultLimiterConfig returns the bucket used when a source has no
// explicit settings.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		RatePerSec: 2,
		Burst:      4,
		MaxWait:    2 * time.Second,
	}
}

// Limiter is a token bucket with a bounded wait.
type Limiter struct {
	lim     *rate.Limiter
	maxWait time.Duration
}

// NewLimiter creates a token bucket that starts full.
func NewLimiter(cfg LimiterConfig) *Limiter {
	def := DefaultLimiterConfig()
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = def.RatePerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.MaxWait < 0 {
		cfg.MaxWait = 0
	}
	return &Limiter{
		lim:     rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		maxWait: cfg.MaxWait,
	}
}

// Acquire takes one token, waiting up to MaxWait for the bucket to refill.
// Tokens reserved but not used (wait too long, context done) are returned
// to the bucket.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r := l.lim.Reserve()
	if !r.OK() {
		return ErrTokenUnavailable
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	if delay > l.maxWait {
		r.Cancel()
		return ErrTokenUnavailable
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Tokens returns the number of tokens currently in the bucket.
func (l *Limiter) Tokens() float64 {
	return l.lim.Tokens()
}

// LimiterSet manages token buckets for multiple sources. Buckets are
// created lazily and shared by every lead in the process.
type LimiterSet struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	configs  map[string]LimiterConfig
	def      LimiterConfig
}

// NewLimiterSet creates a registry of per-source token buckets. Sources
// missing from configs use def.
func NewLimiterSet(def LimiterConfig, configs map[string]LimiterConfig) *LimiterSet {
	cfgs := make(map[string]LimiterConfig, len(configs))
	for name, c := range configs {
		cfgs[name] = c
	}
	return &LimiterSet{
		limiters: make(map[string]*Limiter),
		configs:  cfgs,
		def:      def,
	}
}

// Get returns the token bucket for the named source, creating one if needed.
func (ls *LimiterSet) Get(source string) *Limiter {
	ls.mu.RLock()
	l, ok := ls.limiters[source]
	ls.mu.RUnlock()
	if ok {
		return l
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	// Double-check after acquiring write lock.
	if l, ok = ls.limiters[source]; ok {
		return l
	}
	cfg, ok := ls.configs[source]
	if !ok {
		cfg = ls.def
	}
	l = NewLimiter(cfg)
	ls.limiters[source] = l
	return l
}

// Snapshot returns the available tokens per created bucket.
func (ls *LimiterSet) Snapshot() map[string]float64 {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	out := make(map[string]float64, len(ls.limiters))
	for name, l := range ls.limiters {
		out[name] = l.Tokens()
	}
	return out
}

// Names returns the sources with a created bucket, sorted.
func (ls *LimiterSet) Names() []string {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	names := make([]string, 0, len(ls.limiters))
	for name := range ls.limiters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
