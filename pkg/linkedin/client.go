// Package linkedin provides a client for LinkedIn public profile lookups.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/pkg/sourcehttp"
)

const service = "linkedin"

// Client defines the LinkedIn profile operations.
type Client interface {
	// Profile fetches the profile view for a public identifier (the
	// segment after /in/ in a profile URL).
	Profile(ctx context.Context, publicID string) (*Profile, error)
}

// Profile is the subset of the profile view used for qualification.
type Profile struct {
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Headline     string      `json:"headline"`
	IndustryName string      `json:"industryName"`
	Experience   []Position  `json:"experience"`
	Skills       []Skill     `json:"skills"`
	Education    []Education `json:"education"`
	Connections  int         `json:"connections"`
}

// Position is one entry of the experience section.
type Position struct {
	CompanyName string `json:"companyName"`
	Title       string `json:"title"`
	Current     bool   `json:"current"`
}

// Skill is a listed skill.
type Skill struct {
	Name string `json:"name"`
}

// Education is one entry of the education section.
type Education struct {
	SchoolName string `json:"schoolName"`
	DegreeName string `json:"degreeName"`
}

// FullName joins first and last name.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// CurrentPosition returns the first position marked current, falling back
// to the first listed position.
func (p *Profile) CurrentPosition() (Position, bool) {
	for _, pos := range p.Experience {
		if pos.Current {
			return pos, true
		}
	}
	if len(p.Experience) > 0 {
		return p.Experience[0], true
	}
	return Position{}, false
}

// Option configures the LinkedIn client.
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
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a LinkedIn client authenticated with a bearer token.
func NewClient(accessToken string, opts ...Option) Client {
	c := &httpClient{
		token:   accessToken,
		baseURL: "https://www.linkedin.com/voyager/api",
		http:    sourcehttp.NewHTTPClient(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Profile makes a single request; retries are the caller's concern.
func (c *httpClient) Profile(ctx context.Context, publicID string) (*Profile, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return nil, sourcehttp.ErrNotFound
	}

	endpoint := fmt.Sprintf("%s/identity/profiles/%s/profileView", c.baseURL, url.PathEscape(publicID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "linkedin: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	body, err := sourcehttp.Do(ctx, c.http, req, service)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, sourcehttp.Malformed(service, err)
	}
	if p.FirstName == "" && p.LastName == "" && len(p.Experience) == 0 {
		return nil, sourcehttp.ErrNotFound
	}
	return &p, nil
}
