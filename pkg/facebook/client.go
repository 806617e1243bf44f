// Package facebook scrapes public Facebook profile pages.
package facebook

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/pkg/sourcehttp"
)

const (
	service          = "facebook"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Client defines the Facebook profile operations.
type Client interface {
	// Profile scrapes a profile page. ref is either a vanity name
	// ("dana.reyes") or "profile.php?id=<numeric id>".
	Profile(ctx context.Context, ref string) (*Profile, error)
}

// Profile holds the fields scraped from a profile page.
type Profile struct {
	Name    string
	Friends int
	About   string
	Posts   int
}

// Option configures the Facebook client.
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

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

type httpClient struct {
	cookie    string
	userAgent string
	baseURL   string
	http      *http.Client
}

// NewClient creates a scraper that sends cookie as the raw Cookie header.
func NewClient(cookie string, opts ...Option) Client {
	c := &httpClient{
		cookie:    cookie,
		userAgent: defaultUserAgent,
		baseURL:   "https://mbasic.facebook.com",
		http:      sourcehttp.NewHTTPClient(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Profile(ctx context.Context, ref string) (*Profile, error) {
	endpoint, err := c.profileURL(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "facebook: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	body, err := sourcehttp.Do(ctx, c.http, req, service)
	if err != nil {
		return nil, err
	}
	return ParseProfile(body)
}

func (c *httpClient) profileURL(ref string) (string, error) {
	ref = strings.Trim(strings.TrimSpace(ref), "/")
	if ref == "" {
		return "", sourcehttp.ErrNotFound
	}
	if id, ok := strings.CutPrefix(ref, "profile.php?id="); ok {
		if id == "" {
			return "", sourcehttp.ErrNotFound
		}
		return c.baseURL + "/profile.php?" + url.Values{"id": {id}}.Encode(), nil
	}
	return c.baseURL + "/" + url.PathEscape(ref), nil
}

var friendsRe = regexp.MustCompile(`(?i)(\d[\d,.]*)\s*([KM])?\s+friends`)

// ParseProfile extracts profile fields from a profile page.
func ParseProfile(page []byte) (*Profile, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, sourcehttp.Malformed(service, err)
	}

	if doc.Find("form#login_form, input[name=pass]").Length() > 0 {
		return nil, sourcehttp.ErrLoginRequired
	}

	text := strings.ToLower(doc.Text())
	if strings.Contains(text, "content isn't available") || strings.Contains(text, "page isn't available") {
		return nil, sourcehttp.ErrNotFound
	}

	p := &Profile{
		Name: profileName(doc),
	}
	if p.Name == "" {
		return nil, sourcehttp.Malformed(service, eris.New("profile name not found"))
	}

	friendsText := doc.Find(`a[href*="friends"]`).Text()
	if n, ok := parseFriends(friendsText); ok {
		p.Friends = n
	} else if n, ok := parseFriends(doc.Text()); ok {
		p.Friends = n
	}

	p.About = strings.TrimSpace(doc.Find("#bio").First().Text())
	if p.About == "" {
		p.About = strings.TrimSpace(doc.Find(`[data-testid="profile-about"]`).First().Text())
	}
	p.About = strings.Join(strings.Fields(p.About), " ")

	p.Posts = doc.Find("article").Length()
	return p, nil
}

func profileName(doc *goquery.Document) string {
	name := strings.TrimSpace(doc.Find("title").First().Text())
	if i := strings.Index(name, " | "); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

func parseFriends(s string) (int, bool) {
	m := friendsRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	num := strings.ReplaceAll(m[1], ",", "")
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToUpper(m[2]) {
	case "K":
		f *= 1_000
	case "M":
		f *= 1_000_000
	}
	// Scraped counts are capped so int conversion cannot wrap.
	if math.IsNaN(f) || f < 0 {
		return 0, false
	}
	return int(math.Min(f, math.MaxInt32)), true
}
