// Package stats holds the spending statistics shared by the monthly overview
// and the single-month query: amount parsing, sums, averages, maxima,
// ratios and the rounding applied to each of them.
//
// Arithmetic is done on decimal.Decimal so sums of cent values stay exact;
// values are rounded half away from zero only when converted for output.
package stats

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/spending-dashboard/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount parses a canonical amount string such as "12.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unparseable amount %q", domain.ErrMalformedRecord, s)
	}
	return d, nil
}

// Summary is the unrounded statistics of a group of amounts.
type Summary struct {
	Total   decimal.Decimal
	Count   int
	Average decimal.Decimal
	Largest decimal.Decimal
}

// Summarize computes total, count, average and largest amount.
// Average is 0 for an empty group; Largest is max(0, amounts...).
func Summarize(amounts []decimal.Decimal) Summary {
	s := Summary{
		Total:   decimal.Zero,
		Count:   len(amounts),
		Average: decimal.Zero,
		Largest: decimal.Zero,
	}
	for _, a := range amounts {
		s.Total = s.Total.Add(a)
		if a.GreaterThan(s.Largest) {
			s.Largest = a
		}
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}

// Mean returns the arithmetic mean of values, 0 when there are none.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}

// PercentChange is (current - previous) / previous * 100, or 0 when previous
// is zero.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// ShareOf is part / whole * 100, or 0 when whole is zero.
func ShareOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Currency rounds to cents.
func Currency(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Percent rounds to one decimal place.
func Percent(d decimal.Decimal) float64 {
	return d.Round(1).InexactFloat64()
}

// WholePercent rounds to the nearest integer.
func WholePercent(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}
