// Package source adapts the external profile clients to the qualification
// pipeline: handle normalization, error classification and the guarded
// fetch that applies rate limits, retries and timeouts.
package source

import (
	"context"

	"github.com/sells-group/lead-qualifier/internal/model"
)

// Adapter fetches one source's data for a lead. Implementations make a
// single attempt and report every outcome as a SourceResult.
type Adapter interface {
	Source() model.Source
	Fetch(ctx context.Context, handle string) model.SourceResult
}
