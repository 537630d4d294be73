package spending

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dvloznov/spending-dashboard/internal/domain"
	"github.com/dvloznov/spending-dashboard/internal/stats"
)

// SortKey selects the field a month view is ordered by.
type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByAmount      SortKey = "amount"
	SortByDescription SortKey = "description"
)

// SortOrder is the direction of a month view ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// AmountRange is one of the fixed amount buckets a month view can be
// narrowed to.
type AmountRange string

const (
	RangeUpTo25   AmountRange = "0-25"
	Range25To100  AmountRange = "25-100"
	Range100To500 AmountRange = "100-500"
	RangeAbove500 AmountRange = "500+"
)

var (
	twentyFive  = decimal.NewFromInt(25)
	oneHundred  = decimal.NewFromInt(100)
	fiveHundred = decimal.NewFromInt(500)
)

// Contains reports whether amount falls in the range. Unknown ranges
// (including the empty range) contain every amount.
func (r AmountRange) Contains(amount decimal.Decimal) bool {
	switch r {
	case RangeUpTo25:
		return !amount.IsNegative() && amount.LessThanOrEqual(twentyFive)
	case Range25To100:
		return amount.GreaterThan(twentyFive) && amount.LessThanOrEqual(oneHundred)
	case Range100To500:
		return amount.GreaterThan(oneHundred) && amount.LessThanOrEqual(fiveHundred)
	case RangeAbove500:
		return amount.GreaterThan(fiveHundred)
	default:
		return true
	}
}

// Filters narrows and orders a month view. Zero values mean "no filter" and
// the default ordering (date, descending).
type Filters struct {
	Search      string
	Category    string
	AmountRange AmountRange
	SortBy      SortKey
	SortOrder   SortOrder
}

// MonthSummary describes the filtered transactions of a month view.
type MonthSummary struct {
	Year               int     `json:"year"`
	Month              int     `json:"month"`
	MonthName          string  `json:"monthName"`
	TotalSpent         float64 `json:"totalSpent"`
	TransactionCount   int     `json:"transactionCount"`
	AverageTransaction float64 `json:"averageTransaction"`
	LargestTransaction float64 `json:"largestTransaction"`
}

// MonthView is the detail response for one month.
type MonthView struct {
	Transactions []domain.Transaction `json:"transactions"`
	Summary      MonthSummary         `json:"summary"`
	Categories   []string             `json:"categories"`
}

// QueryEngine filters, sorts and summarizes a single month.
type QueryEngine struct {
	loc  *time.Location
	lang language.Tag
}

// NewQueryEngine creates a query engine that buckets on the calendar of loc
// and orders descriptions using the collation rules of lang.
func NewQueryEngine(loc *time.Location, lang language.Tag) *QueryEngine {
	if loc == nil {
		loc = time.UTC
	}
	return &QueryEngine{loc: loc, lang: lang}
}

// Month returns the view of target after applying f. The input slice is
// never reordered.
func (e *QueryEngine) Month(txs []domain.Transaction, target domain.Month, f Filters) (*MonthView, error) {
	records, err := parseRecords(txs, e.loc)
	if err != nil {
		return nil, err
	}

	selected := make([]record, 0)
	for _, r := range records {
		if r.month == target && matches(r, f) {
			selected = append(selected, r)
		}
	}

	e.sort(selected, f.SortBy, f.SortOrder)

	s := summarize(selected)
	return &MonthView{
		Transactions: transactionsOf(selected),
		Summary: MonthSummary{
			Year:               target.Year,
			Month:              int(target.Month),
			MonthName:          target.Name(),
			TotalSpent:         stats.Currency(s.Total),
			TransactionCount:   s.Count,
			AverageTransaction: stats.Currency(s.Average),
			LargestTransaction: stats.Currency(s.Largest),
		},
		Categories: Categories(txs),
	}, nil
}

func matches(r record, f Filters) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !containsFold(&r.tx.Description, term) &&
			!containsFold(r.tx.Merchant, term) &&
			!containsFold(r.tx.Category, term) {
			return false
		}
	}
	if f.Category != "" {
		if r.tx.Category == nil || !strings.EqualFold(*r.tx.Category, f.Category) {
			return false
		}
	}
	return f.AmountRange.Contains(r.amount)
}

func containsFold(field *string, lowerTerm string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), lowerTerm)
}

func (e *QueryEngine) sort(records []record, key SortKey, order SortOrder) {
	var cmp func(a, b record) int
	switch key {
	case SortByAmount:
		cmp = func(a, b record) int { return a.amount.Cmp(b.amount) }
	case SortByDescription:
		// Collators carry scratch buffers and are not safe for concurrent use.
		c := collate.New(e.lang)
		cmp = func(a, b record) int { return c.CompareString(a.tx.Description, b.tx.Description) }
	default:
		cmp = func(a, b record) int { return a.at.Compare(b.at) }
	}

	// Descending is the exact reverse of ascending, ties included.
	slices.SortStableFunc(records, cmp)
	if order != SortAsc {
		slices.Reverse(records)
	}
}

// Categories lists the distinct non-empty categories of txs in first-seen
// order.
func Categories(txs []domain.Transaction) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, tx := range txs {
		if tx.Category == nil || *tx.Category == "" || seen[*tx.Category] {
			continue
		}
		seen[*tx.Category] = true
		out = append(out, *tx.Category)
	}
	return out
}
