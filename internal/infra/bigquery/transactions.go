package bigquery

import (
	"math/big"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/dvloznov/spending-dashboard/internal/domain"
)

// TransactionRow is the subset of the finance transactions table read by the dashboard.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	TransactionDate civil.Date            `bigquery:"transaction_date"` // REQUIRED in schema
	BookingDatetime bigquery.NullDateTime `bigquery:"booking_datetime"` // NULLABLE

	Amount *big.Rat `bigquery:"amount"` // REQUIRED NUMERIC

	RawDescription        string              `bigquery:"raw_description"`        // REQUIRED STRING
	NormalizedDescription bigquery.NullString `bigquery:"normalized_description"` // NULLABLE STRING

	CategoryName bigquery.NullString `bigquery:"category_name"` // NULLABLE
}

// ToTransaction maps a row onto a canonical transaction. Booking datetimes are
// zoneless and are read in the dashboard's calendar location.
func (r *TransactionRow) ToTransaction() domain.Transaction {
	date := r.TransactionDate.String()
	if r.BookingDatetime.Valid {
		date = r.BookingDatetime.DateTime.String()
	}

	amount := "0"
	if r.Amount != nil {
		amount = r.Amount.FloatString(2)
	}

	description := r.RawDescription
	if description == "" {
		description = domain.UntitledDescription
	}

	return domain.Transaction{
		ID:          r.TransactionID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    nullString(r.CategoryName),
		Notes:       nullString(r.NormalizedDescription),
	}
}

func nullString(s bigquery.NullString) *string {
	if !s.Valid {
		return nil
	}
	return domain.StringPtr(s.StringVal)
}
