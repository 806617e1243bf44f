package scorer

import (
	"math"
	"strings"

	"github.com/sells-group/lead-qualifier/internal/model"
)

// Factor names, in breakdown order.
const (
	FactorIncome              = "income"
	FactorWorkEmail           = "work_email"
	FactorEmployment          = "employment"
	FactorProfessionalDepth   = "professional_depth"
	FactorSocialPresence      = "social_presence"
	FactorInstagramAudience   = "instagram_audience"
	FactorFacebookAudience    = "facebook_audience"
	FactorTwitterAudience     = "twitter_audience"
	FactorProfileCompleteness = "profile_completeness"
	FactorAgeFit              = "age_fit"
	FactorLocality            = "locality"
)

// FlagIncomeUnparsed marks a submitted income that could not be read.
const FlagIncomeUnparsed = "income_unparsed"

var factorLabels = map[string]string{
	FactorIncome:              "Income bracket",
	FactorWorkEmail:           "Work email domain",
	FactorEmployment:          "Verified employment",
	FactorProfessionalDepth:   "Professional depth",
	FactorSocialPresence:      "Social presence",
	FactorInstagramAudience:   "Instagram audience",
	FactorFacebookAudience:    "Facebook network",
	FactorTwitterAudience:     "Twitter audience",
	FactorProfileCompleteness: "Profile completeness",
	FactorAgeFit:              "Age fit",
	FactorLocality:            "Location provided",
}

// Label returns the display label for a factor name.
func Label(name string) string {
	if l, ok := factorLabels[name]; ok {
		return l
	}
	return name
}

// Scorer computes lead scores. It holds no mutable state and is safe for
// concurrent use.
type Scorer struct {
	cfg      Config
	personal map[string]bool
}

// New creates a Scorer after validating cfg.
func New(cfg Config) (*Scorer, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	personal := make(map[string]bool, len(cfg.PersonalEmailDomains))
	for _, d := range cfg.PersonalEmailDomains {
		personal[strings.ToLower(strings.TrimSpace(d))] = true
	}
	return &Scorer{cfg: cfg, personal: personal}, nil
}

// Default returns a Scorer using DefaultConfig.
func Default() *Scorer {
	s, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score computes the weighted breakdown for a lead. The result depends only
// on its arguments. A nil profile scores as if no source was queried.
func (s *Scorer) Score(lead model.LeadInput, p *model.EnrichedProfile) model.ScoreBreakdown {
	if p == nil {
		p = model.NewEnrichedProfile(lead.ID, nil)
	}
	w := s.cfg.Weights
	var (
		b     model.ScoreBreakdown
		total float64
	)

	add := func(name string, raw, sub, weight float64) {
		sub = clamp(sub, 0, 1)
		total += sub * weight
		b.Factors = append(b.Factors, model.Factor{
			Name:         name,
			Label:        Label(name),
			Raw:          round2(raw),
			SubScore:     round4(sub),
			Weight:       weight,
			Contribution: round2(sub * weight),
		})
	}

	income, ok := ParseIncome(lead.Income)
	if !ok && strings.TrimSpace(lead.Income) != "" {
		b.Flags = append(b.Flags, FlagIncomeUnparsed)
	}
	add(FactorIncome, income, income/s.cfg.IncomeCeiling, w.Income)

	// A work email only corroborates data some source returned; on its
	// own it feeds the employment fallback and nothing else.
	_, work := WorkEmailDomain(lead.Email, s.personal)
	corroborated := work && p.Succeeded() > 0
	add(FactorWorkEmail, boolf(work), boolf(corroborated), w.WorkEmail)

	employed := p.Employer != ""
	add(FactorEmployment, boolf(employed), boolf(employed), w.Employment)

	depth := float64(p.Positions)*2 + float64(p.Skills)*0.5
	add(FactorProfessionalDepth, depth, math.Min(depth, s.cfg.ProfessionalDepthCeiling)/s.cfg.ProfessionalDepthCeiling, w.ProfessionalDepth)

	present := float64(p.Succeeded())
	add(FactorSocialPresence, present, present/float64(len(model.AllSources)), w.SocialPresence)

	ig := float64(p.InstagramFollowers)
	add(FactorInstagramAudience, ig, ig/s.cfg.InstagramFollowersCeiling, w.InstagramAudience)

	fb := float64(p.FacebookFriends)
	add(FactorFacebookAudience, fb, fb/s.cfg.FacebookFriendsCeiling, w.FacebookAudience)

	tw := float64(p.TwitterFollowers)
	add(FactorTwitterAudience, tw, tw/s.cfg.TwitterFollowersCeiling, w.TwitterAudience)

	filled := completeness(p)
	add(FactorProfileCompleteness, filled, filled/completenessFields, w.ProfileCompleteness)

	age := ageFit(lead.Age)
	add(FactorAgeFit, float64(lead.Age), age, w.AgeFit)

	loc := locality(lead)
	add(FactorLocality, loc, loc, w.Locality)

	b.Total = round2(clamp(total, 0, 100))

	b.Confidence = round4(p.Confidence())
	b.ConfidenceLevel = model.LevelFor(b.Confidence)
	return b
}

// Employment returns the best employment signal: the LinkedIn employer,
// then the work email domain, then model.UnknownEmployment.
func (s *Scorer) Employment(lead model.LeadInput, p *model.EnrichedProfile) string {
	if p != nil && p.Employer != "" {
		return p.Employer
	}
	if d, ok := WorkEmailDomain(lead.Email, s.personal); ok {
		return d
	}
	return model.UnknownEmployment
}

const completenessFields = 6

// completeness counts the derived profile fields some source filled in.
func completeness(p *model.EnrichedProfile) float64 {
	n := 0
	for _, ok := range []bool{
		p.Employer != "",
		p.Title != "",
		p.Industry != "",
		p.Positions > 0,
		p.TotalFollowers > 0,
		p.RecentPost != "",
	} {
		if ok {
			n++
		}
	}
	return float64(n)
}

func ageFit(age int) float64 {
	switch {
	case age >= 25 && age <= 65:
		return 1
	case (age >= 18 && age <= 24) || (age >= 66 && age <= 75):
		return 0.5
	default:
		return 0
	}
}

func locality(lead model.LeadInput) float64 {
	city := strings.TrimSpace(lead.City) != ""
	state := strings.TrimSpace(lead.State) != ""
	switch {
	case city && state:
		return 1
	case city || state:
		return 0.5
	default:
		return 0
	}
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
