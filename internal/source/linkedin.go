package source

import (
	"context"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/pkg/linkedin"
)

// LinkedIn adapts the LinkedIn client. A nil client means no credentials.
type LinkedIn struct {
	client linkedin.Client
}

// NewLinkedIn creates the LinkedIn adapter.
func NewLinkedIn(client linkedin.Client) *LinkedIn {
	return &LinkedIn{client: client}
}

func (a *LinkedIn) Source() model.Source { return model.SourceLinkedIn }

func (a *LinkedIn) Fetch(ctx context.Context, handle string) model.SourceResult {
	src := a.Source()
	if a.client == nil {
		return notConfigured(src)
	}
	id, ok := LinkedInID(handle)
	if !ok {
		return badHandle(src)
	}

	p, err := a.client.Profile(ctx, id)
	if err != nil {
		return Classify(src, err)
	}
	return model.Success(src, linkedInPayload(p))
}

func linkedInPayload(p *linkedin.Profile) *model.LinkedInProfile {
	out := &model.LinkedInProfile{
		FullName:    p.FullName(),
		Headline:    p.Headline,
		Industry:    p.IndustryName,
		Connections: p.Connections,
	}
	if pos, ok := p.CurrentPosition(); ok {
		out.Employment = pos.CompanyName
		out.Title = pos.Title
	}
	for _, pos := range p.Experience {
		label := pos.Title
		if pos.CompanyName != "" {
			if label != "" {
				label += " at "
			}
			label += pos.CompanyName
		}
		if label != "" {
			out.Positions = append(out.Positions, label)
		}
	}
	for _, s := range p.Skills {
		if s.Name != "" {
			out.Skills = append(out.Skills, s.Name)
		}
	}
	for _, e := range p.Education {
		if e.SchoolName != "" {
			out.Education = append(out.Education, e.SchoolName)
		}
	}
	return out
}
