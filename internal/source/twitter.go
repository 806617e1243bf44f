package source

import (
	"context"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/pkg/twitter"
)

// Twitter adapts the Twitter client. A nil client means no bearer token.
type Twitter struct {
	client twitter.Client
}

// NewTwitter creates the Twitter adapter.
func NewTwitter(client twitter.Client) *Twitter {
	return &Twitter{client: client}
}

func (a *Twitter) Source() model.Source { return model.SourceTwitter }

func (a *Twitter) Fetch(ctx context.Context, handle string) model.SourceResult {
	src := a.Source()
	if a.client == nil {
		return notConfigured(src)
	}
	username, ok := TwitterUsername(handle)
	if !ok {
		return badHandle(src)
	}

	u, err := a.client.User(ctx, username)
	if err != nil {
		return Classify(src, err)
	}
	return model.Success(src, &model.TwitterProfile{
		Username:    u.Username,
		Name:        u.Name,
		Followers:   u.PublicMetrics.FollowersCount,
		Following:   u.PublicMetrics.FollowingCount,
		TweetsCount: u.PublicMetrics.TweetCount,
		Description: u.Description,
		Verified:    u.Verified,
		RecentTweet: u.PinnedTweet,
	})
}
