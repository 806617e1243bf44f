// Package twitter provides a client for the X (Twitter) v2 user lookup API.
package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/pkg/sourcehttp"
)

const service = "twitter"

// Client defines the Twitter user operations.
type Client interface {
	// User looks up a user by handle, including the pinned tweet when set.
	User(ctx context.Context, username string) (*User, error)
}

// PublicMetrics are the counters returned with user.fields=public_metrics.
type PublicMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	ListedCount    int `json:"listed_count"`
}

// User is a looked-up account.
type User struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Verified      bool          `json:"verified"`
	PinnedTweetID string        `json:"pinned_tweet_id"`
	PublicMetrics PublicMetrics `json:"public_metrics"`

	// PinnedTweet is filled from the includes expansion.
	PinnedTweet string `json:"-"`
}

type apiError struct {
	Title  string `json:"title"`
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

type userResponse struct {
	Data     *User `json:"data"`
	Includes struct {
		Tweets []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"tweets"`
	} `json:"includes"`
	Errors []apiError `json:"errors"`
}

// Option configures the Twitter client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	bearer  string
	baseURL string
	http    *http.Client
}

// NewClient creates a client authenticated with an app bearer token.
func NewClient(bearerToken string, opts ...Option) Client {
	c := &httpClient{
		bearer:  bearerToken,
		baseURL: "https://api.twitter.com",
		http:    sourcehttp.NewHTTPClient(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) User(ctx context.Context, username string) (*User, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, sourcehttp.ErrNotFound
	}

	q := url.Values{}
	q.Set("user.fields", "description,public_metrics,verified,pinned_tweet_id")
	q.Set("expansions", "pinned_tweet_id")
	q.Set("tweet.fields", "text")
	endpoint := c.baseURL + "/2/users/by/username/" + url.PathEscape(username) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "twitter: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	req.Header.Set("Accept", "application/json")

	body, err := sourcehttp.Do(ctx, c.http, req, service)
	if err != nil {
		return nil, err
	}

	var resp userResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, sourcehttp.Malformed(service, err)
	}
	if resp.Data == nil {
		if len(resp.Errors) > 0 {
			return nil, sourcehttp.ErrNotFound
		}
		return nil, sourcehttp.Malformed(service, eris.New("response has neither data nor errors"))
	}

	u := resp.Data
	for _, tw := range resp.Includes.Tweets {
		if tw.ID == u.PinnedTweetID {
			u.PinnedTweet = tw.Text
			break
		}
	}
	return u, nil
}
