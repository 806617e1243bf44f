package source

import (
	"context"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/pkg/facebook"
)

// Facebook adapts the Facebook scraper. A nil client means no session
// cookie is configured.
type Facebook struct {
	client facebook.Client
}

// NewFacebook creates the Facebook adapter.
func NewFacebook(client facebook.Client) *Facebook {
	return &Facebook{client: client}
}

func (a *Facebook) Source() model.Source { return model.SourceFacebook }

func (a *Facebook) Fetch(ctx context.Context, handle string) model.SourceResult {
	src := a.Source()
	if a.client == nil {
		return notConfigured(src)
	}
	ref, ok := FacebookRef(handle)
	if !ok {
		return badHandle(src)
	}

	p, err := a.client.Profile(ctx, ref)
	if err != nil {
		return Classify(src, err)
	}
	return model.Success(src, &model.FacebookProfile{
		Name:       p.Name,
		Friends:    p.Friends,
		About:      p.About,
		PostsCount: p.Posts,
	})
}
