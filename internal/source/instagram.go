package source

import (
	"context"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/pkg/instagram"
)

// Instagram adapts the Instagram client. A nil client means no credentials.
type Instagram struct {
	client instagram.Client
}

// NewInstagram creates the Instagram adapter.
func NewInstagram(client instagram.Client) *Instagram {
	return &Instagram{client: client}
}

func (a *Instagram) Source() model.Source { return model.SourceInstagram }

func (a *Instagram) Fetch(ctx context.Context, handle string) model.SourceResult {
	src := a.Source()
	if a.client == nil {
		return notConfigured(src)
	}
	username, ok := InstagramUsername(handle)
	if !ok {
		return badHandle(src)
	}

	p, err := a.client.Profile(ctx, username)
	if err != nil {
		return Classify(src, err)
	}
	return model.Success(src, &model.InstagramProfile{
		Username:   p.Username,
		FullName:   p.FullName,
		Followers:  p.Followers,
		Following:  p.Following,
		PostsCount: p.Posts,
		Bio:        p.Biography,
		Private:    p.IsPrivate,
		Verified:   p.IsVerified,
	})
}
