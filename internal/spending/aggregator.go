package spending

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/spending-dashboard/internal/domain"
	"github.com/dvloznov/spending-dashboard/internal/stats"
)

// MonthBucket is the overview entry for one calendar month.
type MonthBucket struct {
	Year                    int                  `json:"year"`
	Month                   int                  `json:"month"`
	MonthName               string               `json:"monthName"`
	TotalSpent              float64              `json:"totalSpent"`
	TransactionCount        int                  `json:"transactionCount"`
	AverageTransaction      float64              `json:"averageTransaction"`
	LargestTransaction      float64              `json:"largestTransaction"`
	PreviousMonthComparison float64              `json:"previousMonthComparison"`
	RelativePercentage      int                  `json:"relativePercentage"`
	Transactions            []domain.Transaction `json:"transactions"`
}

// OverviewSummary describes the overview as a whole.
type OverviewSummary struct {
	TotalMonths    int     `json:"totalMonths"`
	AverageMonthly float64 `json:"averageMonthly"`
}

// Overview is the monthly breakdown, most recent month first.
type Overview struct {
	Months  []MonthBucket   `json:"months"`
	Summary OverviewSummary `json:"summary"`
}

// Aggregator groups transactions into calendar-month buckets.
type Aggregator struct {
	loc *time.Location
}

// NewAggregator creates an aggregator bucketing on the calendar of loc
// (UTC when nil).
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc}
}

// group is the unrounded aggregate of one month.
type group struct {
	month   domain.Month
	records []record
	summary stats.Summary
}

// partition builds month -> group without mutating its input.
func partition(records []record) map[domain.Month]*group {
	groups := make(map[domain.Month]*group)
	for _, r := range records {
		g, ok := groups[r.month]
		if !ok {
			g = &group{month: r.month}
			groups[r.month] = g
		}
		g.records = append(g.records, r)
	}
	for _, g := range groups {
		g.summary = summarize(g.records)
	}
	return groups
}

// Monthly builds the overview. Comparisons and relative percentages are
// computed on unrounded totals; rounding is applied last.
func (a *Aggregator) Monthly(txs []domain.Transaction) (*Overview, error) {
	records, err := parseRecords(txs, a.loc)
	if err != nil {
		return nil, err
	}

	groups := partition(records)

	maxTotal := decimal.Zero
	totals := make([]decimal.Decimal, 0, len(groups))
	for _, g := range groups {
		if g.summary.Total.GreaterThan(maxTotal) {
			maxTotal = g.summary.Total
		}
		totals = append(totals, g.summary.Total)
	}

	months := make([]MonthBucket, 0, len(groups))
	for _, g := range groups {
		comparison := decimal.Zero
		if prev, ok := groups[g.month.Prev()]; ok {
			comparison = stats.PercentChange(g.summary.Total, prev.summary.Total)
		}

		months = append(months, MonthBucket{
			Year:                    g.month.Year,
			Month:                   int(g.month.Month),
			MonthName:               g.month.Name(),
			TotalSpent:              stats.Currency(g.summary.Total),
			TransactionCount:        g.summary.Count,
			AverageTransaction:      stats.Currency(g.summary.Average),
			LargestTransaction:      stats.Currency(g.summary.Largest),
			PreviousMonthComparison: stats.Percent(comparison),
			RelativePercentage:      stats.WholePercent(stats.ShareOf(g.summary.Total, maxTotal)),
			Transactions:            transactionsOf(g.records),
		})
	}

	slices.SortFunc(months, func(x, y MonthBucket) int {
		mx := domain.Month{Year: x.Year, Month: time.Month(x.Month)}
		my := domain.Month{Year: y.Year, Month: time.Month(y.Month)}
		return my.Compare(mx)
	})

	return &Overview{
		Months: months,
		Summary: OverviewSummary{
			TotalMonths:    len(months),
			AverageMonthly: stats.Currency(stats.Mean(totals)),
		},
	}, nil
}
