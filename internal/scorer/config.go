// Package scorer implements the deterministic lead scoring model.
package scorer

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights are the per-factor weights of the linear model. They sum to 100.
type Weights struct {
	Income              float64 `yaml:"income"`
	WorkEmail           float64 `yaml:"work_email"`
	Employment          float64 `yaml:"employment"`
	ProfessionalDepth   float64 `yaml:"professional_depth"`
	SocialPresence      float64 `yaml:"social_presence"`
	InstagramAudience   float64 `yaml:"instagram_audience"`
	FacebookAudience    float64 `yaml:"facebook_audience"`
	TwitterAudience     float64 `yaml:"twitter_audience"`
	ProfileCompleteness float64 `yaml:"profile_completeness"`
	AgeFit              float64 `yaml:"age_fit"`
	Locality            float64 `yaml:"locality"`
}

// Config holds the weights and the saturation points of each factor.
type Config struct {
	Weights Weights `yaml:"weights"`

	// Values at or above these saturate their factor at 1.
	IncomeCeiling             float64 `yaml:"income_ceiling"`
	InstagramFollowersCeiling float64 `yaml:"instagram_followers_ceiling"`
	FacebookFriendsCeiling    float64 `yaml:"facebook_friends_ceiling"`
	TwitterFollowersCeiling   float64 `yaml:"twitter_followers_ceiling"`
	ProfessionalDepthCeiling  float64 `yaml:"professional_depth_ceiling"`

	// Email domains that never count as a work address.
	PersonalEmailDomains []string `yaml:"personal_email_domains"`
}

// DefaultConfig returns the standard model. Weights sum to 100.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Income:              35,
			WorkEmail:           10,
			Employment:          15,
			ProfessionalDepth:   10,
			SocialPresence:      5,
			InstagramAudience:   6,
			FacebookAudience:    4,
			TwitterAudience:     5,
			ProfileCompleteness: 5,
			AgeFit:              2,
			Locality:            3,
		},

		IncomeCeiling:             500_000,
		InstagramFollowersCeiling: 10_000,
		FacebookFriendsCeiling:    500,
		TwitterFollowersCeiling:   5_000,
		ProfessionalDepthCeiling:  20,

		PersonalEmailDomains: []string{
			"gmail.com", "googlemail.com", "yahoo.com", "yahoo.co.uk", "ymail.com",
			"hotmail.com", "outlook.com", "live.com", "msn.com", "aol.com",
			"icloud.com", "me.com", "mac.com", "proton.me", "protonmail.com",
			"gmx.com", "mail.com", "yandex.com", "zoho.com",
		},
	}
}

// namedWeights lists weights in factor order.
func namedWeights(w Weights) []struct {
	name  string
	value float64
} {
	return []struct {
		name  string
		value float64
	}{
		{FactorIncome, w.Income},
		{FactorWorkEmail, w.WorkEmail},
		{FactorEmployment, w.Employment},
		{FactorProfessionalDepth, w.ProfessionalDepth},
		{FactorSocialPresence, w.SocialPresence},
		{FactorInstagramAudience, w.InstagramAudience},
		{FactorFacebookAudience, w.FacebookAudience},
		{FactorTwitterAudience, w.TwitterAudience},
		{FactorProfileCompleteness, w.ProfileCompleteness},
		{FactorAgeFit, w.AgeFit},
		{FactorLocality, w.Locality},
	}
}

// WeightSum returns the sum of all factor weights.
func WeightSum(w Weights) float64 {
	var sum float64
	for _, nw := range namedWeights(w) {
		sum += nw.value
	}
	return sum
}

// ValidateConfig checks that a Config is internally consistent.
func ValidateConfig(c Config) error {
	var errs []string

	// All weights must be non-negative.
	for _, nw := range namedWeights(c.Weights) {
		if nw.value < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", nw.name))
		}
	}

	// Weights should be close to 100 (allow tolerance for floating-point).
	sum := WeightSum(c.Weights)
	if math.Abs(sum-100) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 100, got %.2f", sum))
	}

	ceilings := []struct {
		name  string
		value float64
	}{
		{"income_ceiling", c.IncomeCeiling},
		{"instagram_followers_ceiling", c.InstagramFollowersCeiling},
		{"facebook_friends_ceiling", c.FacebookFriendsCeiling},
		{"twitter_followers_ceiling", c.TwitterFollowersCeiling},
		{"professional_depth_ceiling", c.ProfessionalDepthCeiling},
	}
	for _, ce := range ceilings {
		if ce.value <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be > 0", ce.name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadConfig reads a scoring file and overlays it on DefaultConfig. Keys
// missing from the file keep their defaults; weights given in the file
// replace the default weights entirely.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eris.Wrapf(err, "scorer: read config %s", path)
	}

	// The YAML has a top-level "scoring" key
	var wrapper struct {
		Scoring Config `yaml:"scoring"`
	}
	wrapper.Scoring = DefaultConfig()
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Config{}, eris.Wrap(err, "scorer: parse config")
	}
	cfg := wrapper.Scoring

	// A weights block is decoded on its own so unspecified weights are zero
	// rather than inherited defaults.
	var weights struct {
		Scoring struct {
			Weights *Weights `yaml:"weights"`
		} `yaml:"scoring"`
	}
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return Config{}, eris.Wrap(err, "scorer: parse weights")
	}
	if weights.Scoring.Weights != nil {
		cfg.Weights = *weights.Scoring.Weights
	}

	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
