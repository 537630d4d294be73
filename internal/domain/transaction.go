package domain

import (
	"fmt"
	"strings"
	"time"
)

// UntitledDescription is used when the source record carries no description.
const UntitledDescription = "Untitled Transaction"

// Transaction is the canonical spending record handed to the aggregation core.
// Sources map their own schema onto this shape; the core never sees raw
// source properties.
type Transaction struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"` // ISO-8601 date or date-time
	Description   string  `json:"description"`
	Amount        string  `json:"amount"` // decimal string, e.g. "12.50"
	Category      *string `json:"category"`
	PaymentMethod *string `json:"paymentMethod"`
	Merchant      *string `json:"merchant"`
	Notes         *string `json:"notes"`
}

// StringPtr returns nil for empty (or whitespace-only) text so that absent
// optional fields serialize as null rather than "".
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses a transaction date. Values without an explicit offset are
// read in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrMalformedRecord, s)
}
