// Package spending turns canonical transactions into the monthly overview
// and the filtered single-month view served by the dashboard.
package spending

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/spending-dashboard/internal/domain"
	"github.com/dvloznov/spending-dashboard/internal/stats"
)

// record is a transaction with its date and amount parsed once.
type record struct {
	tx     domain.Transaction
	at     time.Time
	month  domain.Month
	amount decimal.Decimal
}

// parseRecords fails on the first unreadable date or amount rather than
// dropping the record from the totals. Adapters default missing fields, so
// only values no month or total can be computed from reach this error.
func parseRecords(txs []domain.Transaction, loc *time.Location) ([]record, error) {
	out := make([]record, 0, len(txs))
	for _, tx := range txs {
		at, err := domain.ParseDate(tx.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		amount, err := stats.ParseAmount(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		out = append(out, record{tx: tx, at: at, month: domain.MonthOf(at, loc), amount: amount})
	}
	return out, nil
}

func summarize(records []record) stats.Summary {
	amounts := make([]decimal.Decimal, len(records))
	for i, r := range records {
		amounts[i] = r.amount
	}
	return stats.Summarize(amounts)
}

func transactionsOf(records []record) []domain.Transaction {
	out := make([]domain.Transaction, len(records))
	for i, r := range records {
		out[i] = r.tx
	}
	return out
}
