// Package summary renders the narrative qualification summary for a lead.
package summary

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/scorer"
)

// NoSocialData is the sentence used when no source contributed data.
const NoSocialData = "Qualification is based solely on submitted fields; no social data is available, so confidence is low."

const (
	strongSubScore = 0.6
	weakSubScore   = 0.25
	maxSampleRunes = 200
)

var strengths = map[string]string{
	scorer.FactorIncome:              "strong income bracket",
	scorer.FactorWorkEmail:           "work email address",
	scorer.FactorEmployment:          "verified employment",
	scorer.FactorProfessionalDepth:   "substantial professional history",
	scorer.FactorSocialPresence:      "broad social presence",
	scorer.FactorInstagramAudience:   "large Instagram audience",
	scorer.FactorFacebookAudience:    "large Facebook network",
	scorer.FactorTwitterAudience:     "large Twitter audience",
	scorer.FactorProfileCompleteness: "complete profile across sources",
}

var printer = message.NewPrinter(language.English)

// Generate renders the summary for a scored lead. It only reports data
// present in the profile and breakdown.
func Generate(lead model.LeadInput, p *model.EnrichedProfile, b model.ScoreBreakdown, employment string) string {
	var sb strings.Builder

	name := strings.TrimSpace(lead.Name)
	if name == "" {
		name = fmt.Sprintf("Lead %d", lead.ID)
	}
	if employment == "" {
		employment = model.UnknownEmployment
	}
	fmt.Fprintf(&sb, "%s scored %.2f/100. Likely employment: %s. Confidence: %s (%s).\n",
		name, b.Total, employment, b.ConfidenceLevel, sourceCount(p))

	if p.Succeeded() == 0 {
		sb.WriteString(NoSocialData + "\n")
	}

	writeBreakdown(&sb, b)
	writeDrivers(&sb, b)
	writeHighlights(&sb, p)
	writeUnavailable(&sb, p)

	return strings.TrimRight(sb.String(), "\n")
}

// Unqualifiable renders the summary for a lead rejected before scoring.
func Unqualifiable(lead model.LeadInput, reason string) string {
	name := strings.TrimSpace(lead.Name)
	if name == "" {
		name = fmt.Sprintf("Lead %d", lead.ID)
	}
	return fmt.Sprintf("%s could not be qualified: %s. No sources were queried and the score is 0.", name, reason)
}

func sourceCount(p *model.EnrichedProfile) string {
	q := p.Queried()
	if q == 0 {
		return "no sources queried"
	}
	return fmt.Sprintf("%d of %d sources returned data", p.Succeeded(), q)
}

func writeBreakdown(sb *strings.Builder, b model.ScoreBreakdown) {
	sb.WriteString("\nScoring Breakdown:\n")
	n := 0
	for _, f := range b.Factors {
		if f.Contribution <= 0 {
			continue
		}
		fmt.Fprintf(sb, "- %s: %.2f of %.0f\n", f.Label, f.Contribution, f.Weight)
		n++
	}
	if n == 0 {
		sb.WriteString("- No factor contributed to the score.\n")
	}
	if b.HasFlag(scorer.FlagIncomeUnparsed) {
		sb.WriteString("- Submitted income could not be interpreted.\n")
	}
}

func writeDrivers(sb *strings.Builder, b model.ScoreBreakdown) {
	var strong, weak []string
	for _, f := range b.Factors {
		if f.Weight <= 0 {
			continue
		}
		if phrase, ok := strengths[f.Name]; ok && f.SubScore >= strongSubScore {
			strong = append(strong, phrase)
		}
	}
	if f, ok := b.Factor(scorer.FactorSocialPresence); ok && f.Weight > 0 && f.SubScore < weakSubScore {
		weak = append(weak, "low social footprint")
	}
	if f, ok := b.Factor(scorer.FactorIncome); ok && f.Weight > 0 && f.SubScore < weakSubScore {
		if b.HasFlag(scorer.FlagIncomeUnparsed) || f.Raw == 0 {
			weak = append(weak, "no usable income")
		} else {
			weak = append(weak, "modest income bracket")
		}
	}
	if f, ok := b.Factor(scorer.FactorEmployment); ok && f.Weight > 0 && f.SubScore == 0 {
		weak = append(weak, "employment not verified")
	}

	sb.WriteString("\nDrivers:\n")
	if len(strong) > 0 {
		fmt.Fprintf(sb, "- Strengths: %s.\n", strings.Join(strong, ", "))
	} else {
		sb.WriteString("- Strengths: none stood out.\n")
	}
	if len(weak) > 0 {
		fmt.Fprintf(sb, "- Weaknesses: %s.\n", strings.Join(weak, ", "))
	}
}

func writeHighlights(sb *strings.Builder, p *model.EnrichedProfile) {
	var lines []string
	for _, src := range model.AllSources {
		r := p.Result(src)
		if !r.OK() {
			continue
		}
		if line := highlight(r.Payload); line != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", src.Label(), line))
		}
	}
	if len(lines) == 0 {
		return
	}
	sb.WriteString("\nProfile Highlights:\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n")
}

func highlight(payload model.Payload) string {
	switch v := payload.(type) {
	case *model.LinkedInProfile:
		var parts []string
		switch {
		case v.Title != "" && v.Employment != "":
			parts = append(parts, fmt.Sprintf("%s at %s", v.Title, v.Employment))
		case v.Employment != "":
			parts = append(parts, v.Employment)
		case v.Headline != "":
			parts = append(parts, v.Headline)
		}
		parts = append(parts, printer.Sprintf("%d positions, %d skills", len(v.Positions), len(v.Skills)))
		if v.Industry != "" {
			parts = append(parts, v.Industry)
		}
		return strings.Join(parts, "; ")
	case *model.InstagramProfile:
		s := printer.Sprintf("@%s, %d followers, %d posts", v.Username, v.Followers, v.PostsCount)
		if v.Verified {
			s += ", verified"
		}
		return s
	case *model.FacebookProfile:
		return printer.Sprintf("%d friends, %d posts", v.Friends, v.PostsCount)
	case *model.TwitterProfile:
		s := printer.Sprintf("@%s, %d followers, %d tweets", v.Username, v.Followers, v.TweetsCount)
		if v.RecentTweet != "" {
			s += fmt.Sprintf(". Recent tweet: %q", truncate(v.RecentTweet, maxSampleRunes))
		}
		return s
	default:
		return ""
	}
}

func writeUnavailable(sb *strings.Builder, p *model.EnrichedProfile) {
	var lines []string
	for _, src := range model.AllSources {
		r := p.Result(src)
		if r.OK() {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", src.Label(), describe(r)))
	}
	if len(lines) == 0 {
		return
	}
	sb.WriteString("\nUnavailable Sources:\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n")
}

func describe(r model.SourceResult) string {
	switch r.Status {
	case model.StatusUnavailable:
		return "not queried (no handle provided)"
	case model.StatusTimedOut:
		return "timed out"
	case model.StatusFailed:
		return fmt.Sprintf("failed (%s)", r.Kind)
	default:
		return "returned no data"
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
