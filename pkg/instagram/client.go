// Package instagram provides a client for Instagram web profile lookups.
package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/pkg/sourcehttp"
)

const service = "instagram"

// Client defines the Instagram profile operations.
type Client interface {
	// Profile fetches public profile info for a username.
	Profile(ctx context.Context, username string) (*Profile, error)
}

// Profile is the subset of web_profile_info used for qualification.
type Profile struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Biography  string `json:"biography"`
	IsPrivate  bool   `json:"is_private"`
	IsVerified bool   `json:"is_verified"`
	Followers  int    `json:"-"`
	Following  int    `json:"-"`
	Posts      int    `json:"-"`
}

type countEdge struct {
	Count int `json:"count"`
}

type webProfileResponse struct {
	Data struct {
		User *struct {
			Username       string    `json:"username"`
			FullName       string    `json:"full_name"`
			Biography      string    `json:"biography"`
			IsPrivate      bool      `json:"is_private"`
			IsVerified     bool      `json:"is_verified"`
			EdgeFollowedBy countEdge `json:"edge_followed_by"`
			EdgeFollow     countEdge `json:"edge_follow"`
			EdgeMedia      countEdge `json:"edge_owner_to_timeline_media"`
		} `json:"user"`
	} `json:"data"`
	Status string `json:"status"`
}

// Option configures the Instagram client.
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

// WithSessionID attaches a logged-in session cookie.
func WithSessionID(id string) Option {
	return func(c *httpClient) {
		c.sessionID = id
	}
}

type httpClient struct {
	appID     string
	sessionID string
	baseURL   string
	http      *http.Client
}

// NewClient creates an Instagram client identified by a web app id.
func NewClient(appID string, opts ...Option) Client {
	c := &httpClient{
		appID:   appID,
		baseURL: "https://i.instagram.com",
		http:    sourcehttp.NewHTTPClient(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Profile(ctx context.Context, username string) (*Profile, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, sourcehttp.ErrNotFound
	}

	endpoint := c.baseURL + "/api/v1/users/web_profile_info/?username=" + url.QueryEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "instagram: create request")
	}
	req.Header.Set("X-IG-App-ID", c.appID)
	req.Header.Set("Accept", "application/json")
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: c.sessionID})
	}

	body, err := sourcehttp.Do(ctx, c.http, req, service)
	if err != nil {
		return nil, err
	}

	var resp webProfileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, sourcehttp.Malformed(service, err)
	}
	u := resp.Data.User
	if u == nil {
		return nil, sourcehttp.ErrNotFound
	}

	return &Profile{
		Username:   u.Username,
		FullName:   u.FullName,
		Biography:  u.Biography,
		IsPrivate:  u.IsPrivate,
		IsVerified: u.IsVerified,
		Followers:  u.EdgeFollowedBy.Count,
		Following:  u.EdgeFollow.Count,
		Posts:      u.EdgeMedia.Count,
	}, nil
}
