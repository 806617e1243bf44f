package model

// Payload is the normalized success data of one source. Each adapter owns
// the mapping from its wire format into its payload type.
type Payload interface {
	Source() Source
	Signals() Signals
}

// Signals are the source-independent fields extracted from a payload.
type Signals struct {
	Followers  int
	Following  int
	Posts      int
	Employer   string
	Title      string
	Industry   string
	Positions  int
	Skills     int
	Education  int
	Bio        string
	RecentPost string
}

// LinkedInProfile is the normalized professional-network payload.
type LinkedInProfile struct {
	FullName    string   `json:"full_name,omitempty"`
	Headline    string   `json:"headline,omitempty"`
	Employment  string   `json:"employment,omitempty"`
	Title       string   `json:"title,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	Positions   []string `json:"positions,omitempty"`
	Education   []string `json:"education,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Connections int      `json:"connections,omitempty"`
}

func (p *LinkedInProfile) Source() Source { return SourceLinkedIn }

func (p *LinkedInProfile) Signals() Signals {
	return Signals{
		Followers: p.Connections,
		Employer:  p.Employment,
		Title:     p.Title,
		Industry:  p.Industry,
		Positions: len(p.Positions),
		Skills:    len(p.Skills),
		Education: len(p.Education),
		Bio:       p.Headline,
	}
}

// InstagramProfile is the normalized photo-sharing payload.
type InstagramProfile struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name,omitempty"`
	Followers  int    `json:"followers"`
	Following  int    `json:"following"`
	PostsCount int    `json:"posts_count"`
	Bio        string `json:"bio,omitempty"`
	Private    bool   `json:"private,omitempty"`
	Verified   bool   `json:"verified,omitempty"`
}

func (p *InstagramProfile) Source() Source { return SourceInstagram }

func (p *InstagramProfile) Signals() Signals {
	return Signals{
		Followers: p.Followers,
		Following: p.Following,
		Posts:     p.PostsCount,
		Bio:       p.Bio,
	}
}

// FacebookProfile is the normalized social-graph payload.
type FacebookProfile struct {
	Name       string `json:"name,omitempty"`
	Friends    int    `json:"friends"`
	About      string `json:"about,omitempty"`
	PostsCount int    `json:"posts_count"`
}

func (p *FacebookProfile) Source() Source { return SourceFacebook }

func (p *FacebookProfile) Signals() Signals {
	return Signals{
		Followers: p.Friends,
		Posts:     p.PostsCount,
		Bio:       p.About,
	}
}

// TwitterProfile is the normalized microblogging payload.
type TwitterProfile struct {
	Username    string `json:"username"`
	Name        string `json:"name,omitempty"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	TweetsCount int    `json:"tweets_count"`
	Description string `json:"description,omitempty"`
	Verified    bool   `json:"verified,omitempty"`
	RecentTweet string `json:"recent_tweet,omitempty"`
}

func (p *TwitterProfile) Source() Source { return SourceTwitter }

func (p *TwitterProfile) Signals() Signals {
	return Signals{
		Followers:  p.Followers,
		Following:  p.Following,
		Posts:      p.TweetsCount,
		Bio:        p.Description,
		RecentPost: p.RecentTweet,
	}
}

// EnrichedProfile merges every source outcome for one lead. Derived fields
// are populated only from successful results.
type EnrichedProfile struct {
	LeadID  int64                   `json:"lead_id"`
	Results map[Source]SourceResult `json:"results"`

	Employer           string `json:"employer,omitempty"`
	Title              string `json:"title,omitempty"`
	Industry           string `json:"industry,omitempty"`
	Positions          int    `json:"positions"`
	Skills             int    `json:"skills"`
	InstagramFollowers int    `json:"instagram_followers"`
	FacebookFriends    int    `json:"facebook_friends"`
	TwitterFollowers   int    `json:"twitter_followers"`
	TotalFollowers     int    `json:"total_followers"`
	TotalPosts         int    `json:"total_posts"`
	RecentPost         string `json:"recent_post,omitempty"`
}

// NewEnrichedProfile builds a profile from per-source results and derives
// the normalized fields. Iteration follows AllSources so the outcome is
// independent of the order results arrived in.
func NewEnrichedProfile(leadID int64, results map[Source]SourceResult) *EnrichedProfile {
	p := &EnrichedProfile{
		LeadID:  leadID,
		Results: make(map[Source]SourceResult, len(results)),
	}
	for src, r := range results {
		p.Results[src] = r
	}

	for _, src := range AllSources {
		r, ok := p.Results[src]
		if !ok || !r.OK() {
			continue
		}
		sig := r.Payload.Signals()
		switch src {
		case SourceLinkedIn:
			p.Employer = sig.Employer
			p.Title = sig.Title
			p.Industry = sig.Industry
			p.Positions = sig.Positions
			p.Skills = sig.Skills
			continue
		case SourceInstagram:
			p.InstagramFollowers = sig.Followers
		case SourceFacebook:
			p.FacebookFriends = sig.Followers
		case SourceTwitter:
			p.TwitterFollowers = sig.Followers
		}
		p.TotalFollowers += sig.Followers
		p.TotalPosts += sig.Posts
		if p.RecentPost == "" && sig.RecentPost != "" {
			p.RecentPost = sig.RecentPost
		}
	}
	return p
}

// Result returns the outcome for a source; missing sources read as
// unavailable.
func (p *EnrichedProfile) Result(src Source) SourceResult {
	if p == nil {
		return Unavailable(src, "no handle provided")
	}
	if r, ok := p.Results[src]; ok {
		return r
	}
	return Unavailable(src, "no handle provided")
}

// Queried counts the sources that were actually asked for data.
func (p *EnrichedProfile) Queried() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, r := range p.Results {
		if r.Queried() {
			n++
		}
	}
	return n
}

// Succeeded counts the sources that returned usable data.
func (p *EnrichedProfile) Succeeded() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, r := range p.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Confidence is the fraction of queried sources that succeeded. A lead
// with nothing to query has zero confidence.
func (p *EnrichedProfile) Confidence() float64 {
	q := p.Queried()
	if q == 0 {
		return 0
	}
	return float64(p.Succeeded()) / float64(q)
}

// Unreached returns the queried sources that did not succeed, in
// canonical order.
func (p *EnrichedProfile) Unreached() []SourceResult {
	if p == nil {
		return nil
	}
	var out []SourceResult
	for _, src := range AllSources {
		r, ok := p.Results[src]
		if ok && r.Queried() && !r.OK() {
			out = append(out, r)
		}
	}
	return out
}
