package domain

import (
	"fmt"
	"time"
)

// Month identifies a calendar month bucket.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth validates a year/month pair coming from outside the process.
func NewMonth(year, month int) (Month, error) {
	if year < 1 || year > 9999 {
		return Month{}, fmt.Errorf("%w: year %d out of range 1-9999", ErrInvalidParameter, year)
	}
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidParameter, month)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// MonthOf returns the month t falls in, read on the calendar of loc.
func MonthOf(t time.Time, loc *time.Location) Month {
	if loc != nil {
		t = t.In(loc)
	}
	return Month{Year: t.Year(), Month: t.Month()}
}

// Prev returns the calendar month immediately before m.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// Compare returns -1, 0 or +1 depending on whether m is before, equal to or
// after other.
func (m Month) Compare(other Month) int {
	switch {
	case m.Year < other.Year:
		return -1
	case m.Year > other.Year:
		return 1
	case m.Month < other.Month:
		return -1
	case m.Month > other.Month:
		return 1
	}
	return 0
}

// Name is the English month name, e.g. "January".
func (m Month) Name() string {
	return m.Month.String()
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
