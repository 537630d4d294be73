package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/spending-dashboard/internal/domain"
)

func amounts(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.RequireFromString(v))
	}
	return out
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 12.50 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	_, err = ParseAmount("twelve")
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)

	_, err = ParseAmount("")
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestSummarize(t *testing.T) {
	s := Summarize(amounts("20", "80", "0.10"))

	assert.Equal(t, 3, s.Count)
	assert.True(t, s.Total.Equal(decimal.RequireFromString("100.10")))
	assert.True(t, s.Largest.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 33.37, Currency(s.Average))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.Count)
	assert.True(t, s.Total.IsZero())
	assert.True(t, s.Average.IsZero())
	assert.True(t, s.Largest.IsZero())
}

func TestSummarize_LargestFloorsAtZero(t *testing.T) {
	s := Summarize(amounts("-5", "-10"))

	assert.True(t, s.Largest.IsZero())
	assert.Equal(t, -15.0, Currency(s.Total))
}

func TestSummarize_ExactCentSums(t *testing.T) {
	// 0.1 + 0.2 drifts in float64; the decimal sum must not.
	s := Summarize(amounts("0.1", "0.2"))
	assert.Equal(t, "0.3", s.Total.String())
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		want     float64
	}{
		{"doubling", "100", "50", 100.0},
		{"halving", "50", "100", -50.0},
		{"flat", "42", "42", 0},
		{"previous zero", "42", "0", 0},
		{"rounded to one place", "110", "30", 266.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.previous))
			assert.Equal(t, tt.want, Percent(got))
		})
	}
}

func TestShareOf(t *testing.T) {
	assert.Equal(t, 100, WholePercent(ShareOf(decimal.NewFromInt(80), decimal.NewFromInt(80))))
	assert.Equal(t, 63, WholePercent(ShareOf(decimal.NewFromInt(50), decimal.NewFromInt(80))))
	assert.Equal(t, 0, WholePercent(ShareOf(decimal.NewFromInt(10), decimal.Zero)))
}

func TestRounding_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 2.68, Currency(decimal.RequireFromString("2.675")))
	assert.Equal(t, -2.68, Currency(decimal.RequireFromString("-2.675")))
	assert.Equal(t, 12.5, Percent(decimal.RequireFromString("12.45")))
	assert.Equal(t, 3, WholePercent(decimal.RequireFromString("2.5")))
}

func TestMean(t *testing.T) {
	assert.True(t, Mean(nil).IsZero())
	assert.Equal(t, 75.0, Currency(Mean(amounts("100", "50"))))
}
