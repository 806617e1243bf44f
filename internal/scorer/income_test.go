package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-qualifier/internal/model"
)

func TestParseIncome(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"$150K", 150_000, true},
		{"150k", 150_000, true},
		{"$100K - $150K", 100_000, true},
		{"$100K–$150K", 100_000, true},
		{"100000 to 200000", 100_000, true},
		{"1.2M", 1_200_000, true},
		{"$2 million", 2_000_000, true},
		{"85,000", 85_000, true},
		{"$85,000 per year", 85_000, true},
		{"120000 USD", 120_000, true},
		{"250K+", 250_000, true},
		{"", 0, false},
		{"   ", 0, false},
		{"lots", 0, false},
		{"-5000", 0, false},
		{"$", 0, false},
		{"$1,000,000M", 1e12, true},
		{"$1,000,001M", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseIncome(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestParseIncome_RejectsOverflow(t *testing.T) {
	got, ok := ParseIncome("1" + strings.Repeat("0", 303) + "M")
	assert.False(t, ok)
	assert.Zero(t, got)

	b := Default().Score(model.LeadInput{ID: 2, Income: "9" + strings.Repeat("9", 400)}, nil)
	assert.True(t, b.HasFlag(FlagIncomeUnparsed))
	income, _ := b.Factor(FactorIncome)
	assert.Zero(t, income.Raw)
	assert.Zero(t, income.Contribution)
}
