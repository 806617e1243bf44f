package source

import (
	"sync"
	"time"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/resilience"
)

// Registry holds the guarded adapter for each source.
type Registry struct {
	mu             sync.RWMutex
	guards         map[model.Source]*Guard
	retry          resilience.RetryConfig
	attemptTimeout time.Duration
}

// NewRegistry creates an empty registry whose adapters share one retry
// policy and attempt timeout.
func NewRegistry(retry resilience.RetryConfig, attemptTimeout time.Duration) *Registry {
	return &Registry{
		guards:         make(map[model.Source]*Guard),
		retry:          retry,
		attemptTimeout: attemptTimeout,
	}
}

// Register wraps a in a Guard drawing from tokens and adds it, replacing
// any adapter already registered for the same source.
func (r *Registry) Register(a Adapter, tokens resilience.TokenSource) {
	g := NewGuard(a, tokens, r.retry, r.attemptTimeout)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[a.Source()] = g
}

// Get returns the guarded adapter for src, or nil if none is registered.
func (r *Registry) Get(src model.Source) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.guards[src]
	if !ok {
		return nil
	}
	return g
}

// List returns the registered sources in canonical order.
func (r *Registry) List() []model.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Source, 0, len(r.guards))
	for _, src := range model.AllSources {
		if _, ok := r.guards[src]; ok {
			out = append(out, src)
		}
	}
	return out
}
