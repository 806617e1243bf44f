package model

// Factor is one weighted component of a lead score.
type Factor struct {
	Name         string  `json:"name"`
	Label        string  `json:"label"`
	Raw          float64 `json:"raw"`
	SubScore     float64 `json:"sub_score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ConfidenceLevel buckets the confidence fraction for display.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// LevelFor maps a confidence fraction onto a level.
func LevelFor(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.75:
		return ConfidenceHigh
	case confidence >= 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ScoreBreakdown is the full scoring outcome for a lead.
type ScoreBreakdown struct {
	Factors         []Factor        `json:"factors"`
	Total           float64         `json:"total"`
	Confidence      float64         `json:"confidence"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	Flags           []string        `json:"flags,omitempty"`
}

// Factor returns the named factor and whether it exists.
func (b ScoreBreakdown) Factor(name string) (Factor, bool) {
	for _, f := range b.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return Factor{}, false
}

// HasFlag reports whether the breakdown carries the given flag.
func (b ScoreBreakdown) HasFlag(flag string) bool {
	for _, f := range b.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
