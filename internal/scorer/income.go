package scorer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// maxIncome bounds what is accepted as a plausible annual income.
const maxIncome = 1e12

var (
	// "a - b", "a – b", "a to b": only the lower bound counts.
	incomeRangeRe = regexp.MustCompile(`(?i)\s*(?:-|–|—|\bto\b)\s*`)
	incomeNoiseRe = regexp.MustCompile(`(?i)(usd|per\s+year|/\s*y(ea)?r|a\s+year|annually|p\.?a\.?)`)
	incomeValueRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*([km]|mm|thousand|million)?$`)
)

// ParseIncome converts free-text income such as "$150K", "$100K - $150K",
// "1.2M" or "85,000" into dollars. Ranges use their lower bound. ok is false
// when the text is empty, not understood or above maxIncome.
func ParseIncome(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	s = incomeNoiseRe.ReplaceAllString(s, "")
	s = strings.NewReplacer("$", "", ",", "", "+", "").Replace(s)
	s = strings.TrimSpace(s)

	if parts := incomeRangeRe.Split(s, 2); len(parts) == 2 && parts[0] != "" {
		s = strings.TrimSpace(parts[0])
	}

	m := incomeValueRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "k", "thousand":
		v *= 1_000
	case "m", "mm", "million":
		v *= 1_000_000
	}
	if math.IsInf(v, 0) || math.IsNaN(v) || v > maxIncome {
		return 0, false
	}
	return v, true
}
