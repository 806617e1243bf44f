// Package model defines the lead, source, profile and score types shared by
// the qualification engine.
package model

import "strings"

// LeadInput is a prospective sales contact submitted for qualification.
// An empty handle means the corresponding source is not queried.
type LeadInput struct {
	ID                int64  `json:"id" validate:"required"`
	Name              string `json:"name"`
	Age               int    `json:"age" validate:"gte=0,lte=130"`
	Email             string `json:"email"`
	City              string `json:"city"`
	State             string `json:"state"`
	Income            string `json:"income"`
	LinkedInURL       string `json:"linkedin_url"`
	InstagramUsername string `json:"instagram_username"`
	FacebookURL       string `json:"facebook_url"`
	TwitterUsername   string `json:"twitter_username"`
}

// Handle returns the trimmed handle for a source, or "" when absent.
func (l LeadInput) Handle(src Source) string {
	switch src {
	case SourceLinkedIn:
		return strings.TrimSpace(l.LinkedInURL)
	case SourceInstagram:
		return strings.TrimSpace(l.InstagramUsername)
	case SourceFacebook:
		return strings.TrimSpace(l.FacebookURL)
	case SourceTwitter:
		return strings.TrimSpace(l.TwitterUsername)
	default:
		return ""
	}
}

// Handles returns the non-empty handles keyed by source.
func (l LeadInput) Handles() map[Source]string {
	out := make(map[Source]string, len(AllSources))
	for _, src := range AllSources {
		if h := l.Handle(src); h != "" {
			out[src] = h
		}
	}
	return out
}

// LeadStatus describes how far qualification got for a lead.
type LeadStatus string

const (
	LeadQualified     LeadStatus = "qualified"
	LeadUnqualifiable LeadStatus = "unqualifiable"
	LeadTimedOut      LeadStatus = "timed_out"
)

// SourceStatusView is the per-source diagnostic entry in a response.
type SourceStatusView struct {
	Status   SourceStatus `json:"status"`
	Kind     ErrorKind    `json:"error_kind,omitempty"`
	Attempts int          `json:"attempts,omitempty"`
}

// QualifiedLead is the qualification result for one submitted lead.
type QualifiedLead struct {
	ID                   int64                       `json:"id"`
	Name                 string                      `json:"name"`
	Age                  int                         `json:"age"`
	Email                string                      `json:"email"`
	City                 string                      `json:"city"`
	State                string                      `json:"state"`
	Income               string                      `json:"income"`
	Score                float64                     `json:"score"`
	Employment           string                      `json:"employment"`
	QualificationSummary string                      `json:"qualification_summary"`
	Confidence           float64                     `json:"confidence"`
	Status               LeadStatus                  `json:"status"`
	ErrorKind            ErrorKind                   `json:"error_kind,omitempty"`
	Sources              map[Source]SourceStatusView `json:"sources,omitempty"`
	Breakdown            []Factor                    `json:"breakdown,omitempty"`
	LinkedInSummary      *LinkedInProfile            `json:"linkedin_summary,omitempty"`
	InstagramSummary     *InstagramProfile           `json:"instagram_summary,omitempty"`
	FacebookSummary      *FacebookProfile            `json:"facebook_summary,omitempty"`
	TwitterSummary       *TwitterProfile             `json:"twitter_summary,omitempty"`
}

// NewQualifiedLead copies the submitted fields into a result shell.
func NewQualifiedLead(in LeadInput) QualifiedLead {
	return QualifiedLead{
		ID:         in.ID,
		Name:       in.Name,
		Age:        in.Age,
		Email:      in.Email,
		City:       in.City,
		State:      in.State,
		Income:     in.Income,
		Employment: UnknownEmployment,
	}
}

// UnknownEmployment is reported when no source resolved an employer.
const UnknownEmployment = "Unknown"

// AttachProfile fills the per-source status map and profile summaries.
func (q *QualifiedLead) AttachProfile(p *EnrichedProfile) {
	if p == nil {
		return
	}
	q.Sources = make(map[Source]SourceStatusView, len(p.Results))
	for _, src := range AllSources {
		r, ok := p.Results[src]
		if !ok {
			continue
		}
		q.Sources[src] = SourceStatusView{Status: r.Status, Kind: r.Kind, Attempts: r.Attempts}
		if !r.OK() {
			continue
		}
		switch v := r.Payload.(type) {
		case *LinkedInProfile:
			q.LinkedInSummary = v
		case *InstagramProfile:
			q.InstagramSummary = v
		case *FacebookProfile:
			q.FacebookSummary = v
		case *TwitterProfile:
			q.TwitterSummary = v
		}
	}
}
