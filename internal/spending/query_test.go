package spending

import (
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dvloznov/spending-dashboard/internal/domain"
)

func detailed(id, date, desc, amount, category, merchant string) domain.Transaction {
	return domain.Transaction{
		ID:          id,
		Date:        date,
		Description: desc,
		Amount:      amount,
		Category:    domain.StringPtr(category),
		Merchant:    domain.StringPtr(merchant),
	}
}

func january() domain.Month {
	return domain.Month{Year: 2024, Month: time.January}
}

func sampleMonth() []domain.Transaction {
	return []domain.Transaction{
		detailed("1", "2024-01-03", "Groceries run", "45.20", "Food", "Tesco"),
		detailed("2", "2024-01-10", "Cinema", "12.00", "Entertainment", ""),
		detailed("3", "2024-01-15", "Rent", "950", "Housing", "Landlord Ltd"),
		detailed("4", "2024-01-20", "Coffee", "3.50", "", "Corner Café"),
		detailed("5", "2024-01-25", "Flight", "320.99", "Travel", "Airline"),
		detailed("6", "2023-12-30", "Dinner", "60", "Food", "Bistro"),
		detailed("7", "2024-02-01", "Books", "25", "Education", "Bookshop"),
	}
}

func ids(txs []domain.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func newEngine() *QueryEngine {
	return NewQueryEngine(time.UTC, language.English)
}

func TestQueryEngine_MonthFilterAndDefaultSort(t *testing.T) {
	view, err := newEngine().Month(sampleMonth(), january(), Filters{})
	require.NoError(t, err)

	// date descending by default
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, ids(view.Transactions))
	assert.Equal(t, 2024, view.Summary.Year)
	assert.Equal(t, 1, view.Summary.Month)
	assert.Equal(t, "January", view.Summary.MonthName)
	assert.Equal(t, 5, view.Summary.TransactionCount)
	assert.Equal(t, 1331.69, view.Summary.TotalSpent)
	assert.Equal(t, 266.34, view.Summary.AverageTransaction)
	assert.Equal(t, 950.0, view.Summary.LargestTransaction)
}

func TestQueryEngine_Search(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"description", "coffee", []string{"4"}},
		{"merchant case insensitive", "TESCO", []string{"1"}},
		{"category", "travel", []string{"5"}},
		{"null merchant and category fail quietly", "café", []string{"4"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := newEngine().Month(sampleMonth(), january(), Filters{Search: tt.search})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(view.Transactions))
		})
	}
}

func TestQueryEngine_CategoryExactCaseInsensitive(t *testing.T) {
	view, err := newEngine().Month(sampleMonth(), january(), Filters{Category: "food"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(view.Transactions))

	view, err = newEngine().Month(sampleMonth(), january(), Filters{Category: "Foo"})
	require.NoError(t, err)
	assert.Empty(t, view.Transactions)
}

func TestAmountRange_Boundaries(t *testing.T) {
	tests := []struct {
		amount string
		rng    AmountRange
		want   bool
	}{
		{"0", RangeUpTo25, true},
		{"25.00", RangeUpTo25, true},
		{"25.00", Range25To100, false},
		{"25.01", Range25To100, true},
		{"100.00", Range25To100, true},
		{"100.00", Range100To500, false},
		{"500", Range100To500, true},
		{"500", RangeAbove500, false},
		{"500.01", RangeAbove500, true},
		{"-1", RangeUpTo25, false},
		{"-1", AmountRange("bogus"), true},
		{"1000", AmountRange(""), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.rng)+"/"+tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rng.Contains(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestQueryEngine_AmountRangeFilter(t *testing.T) {
	view, err := newEngine().Month(sampleMonth(), january(), Filters{AmountRange: Range100To500})
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, ids(view.Transactions))

	view, err = newEngine().Month(sampleMonth(), january(), Filters{AmountRange: "lots"})
	require.NoError(t, err)
	assert.Len(t, view.Transactions, 5)
}

func TestQueryEngine_Sorting(t *testing.T) {
	tests := []struct {
		name  string
		key   SortKey
		order SortOrder
		want  []string
	}{
		{"amount asc", SortByAmount, SortAsc, []string{"4", "2", "1", "5", "3"}},
		{"amount desc", SortByAmount, SortDesc, []string{"3", "5", "1", "2", "4"}},
		{"description asc", SortByDescription, SortAsc, []string{"2", "4", "5", "1", "3"}},
		{"date asc", SortByDate, SortAsc, []string{"1", "2", "3", "4", "5"}},
		{"unknown key falls back to date", SortKey("merchant"), SortAsc, []string{"1", "2", "3", "4", "5"}},
		{"unknown order falls back to desc", SortByDate, SortOrder("sideways"), []string{"5", "4", "3", "2", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := newEngine().Month(sampleMonth(), january(), Filters{SortBy: tt.key, SortOrder: tt.order})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(view.Transactions))
		})
	}
}

func TestQueryEngine_DescriptionSortIsLocaleAware(t *testing.T) {
	txs := []domain.Transaction{
		detailed("b", "2024-01-01", "banana", "1", "", ""),
		detailed("E", "2024-01-02", "Éclair", "1", "", ""),
		detailed("a", "2024-01-03", "apple", "1", "", ""),
		detailed("z", "2024-01-04", "Zucchini", "1", "", ""),
	}

	view, err := newEngine().Month(txs, january(), Filters{SortBy: SortByDescription, SortOrder: SortAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "E", "z"}, ids(view.Transactions))
}

func TestQueryEngine_AmountAscReversedEqualsDesc(t *testing.T) {
	asc, err := newEngine().Month(sampleMonth(), january(), Filters{SortBy: SortByAmount, SortOrder: SortAsc})
	require.NoError(t, err)
	desc, err := newEngine().Month(sampleMonth(), january(), Filters{SortBy: SortByAmount, SortOrder: SortDesc})
	require.NoError(t, err)

	reversed := slices.Clone(asc.Transactions)
	slices.Reverse(reversed)
	assert.Equal(t, ids(desc.Transactions), ids(reversed))
}

func TestQueryEngine_FilterIdempotence(t *testing.T) {
	f := Filters{Search: "o", AmountRange: RangeUpTo25, SortBy: SortByAmount}

	once, err := newEngine().Month(sampleMonth(), january(), f)
	require.NoError(t, err)
	twice, err := newEngine().Month(once.Transactions, january(), f)
	require.NoError(t, err)

	assert.Equal(t, ids(once.Transactions), ids(twice.Transactions))
	assert.Equal(t, once.Summary, twice.Summary)
}

func TestQueryEngine_EmptyMonth(t *testing.T) {
	target := domain.Month{Year: 2022, Month: time.July}
	view, err := newEngine().Month(sampleMonth(), target, Filters{})
	require.NoError(t, err)

	assert.NotNil(t, view.Transactions)
	assert.Empty(t, view.Transactions)
	assert.Equal(t, "July", view.Summary.MonthName)
	assert.Equal(t, 0, view.Summary.TransactionCount)
	assert.Equal(t, 0.0, view.Summary.TotalSpent)
	assert.Equal(t, 0.0, view.Summary.AverageTransaction)
	assert.Equal(t, 0.0, view.Summary.LargestTransaction)
	assert.Equal(t, []string{"Food", "Entertainment", "Housing", "Travel", "Education"}, view.Categories)
}

func TestQueryEngine_CategoriesSpanAllMonths(t *testing.T) {
	view, err := newEngine().Month(sampleMonth(), january(), Filters{Category: "Housing"})
	require.NoError(t, err)

	assert.Contains(t, view.Categories, "Education")
	assert.Len(t, view.Categories, 5)
}

func TestQueryEngine_DoesNotMutateInput(t *testing.T) {
	txs := sampleMonth()
	before := ids(txs)

	_, err := newEngine().Month(txs, january(), Filters{SortBy: SortByAmount, SortOrder: SortDesc})
	require.NoError(t, err)

	assert.Equal(t, before, ids(txs))
}

func TestQueryEngine_MalformedDate(t *testing.T) {
	txs := append(sampleMonth(), detailed("x", "31/01/2024", "Bad", "1", "", ""))

	_, err := newEngine().Month(txs, january(), Filters{})
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestQueryEngine_AmountAscReversedEqualsDescWithTies(t *testing.T) {
	txs := []domain.Transaction{
		detailed("a", "2024-01-01", "A", "10", "", ""),
		detailed("b", "2024-01-02", "B", "5", "", ""),
		detailed("c", "2024-01-03", "C", "10", "", ""),
		detailed("d", "2024-01-04", "D", "5", "", ""),
	}

	asc, err := newEngine().Month(txs, january(), Filters{SortBy: SortByAmount, SortOrder: SortAsc})
	require.NoError(t, err)
	desc, err := newEngine().Month(txs, january(), Filters{SortBy: SortByAmount, SortOrder: SortDesc})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(asc.Transactions))
	assert.Equal(t, []string{"c", "a", "d", "b"}, ids(desc.Transactions))
}
