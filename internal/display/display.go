// Package display formats dashboard values for terminal output.
package display

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dvloznov/spending-dashboard/internal/domain"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats v as US dollars, e.g. "$1,234.50" or "-$12.00".
func Currency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + "$" + printer.Sprintf("%.2f", math.Abs(v))
}

// Percentage formats v with an explicit sign and one decimal, e.g. "+12.5%".
func Percentage(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// Date formats a canonical transaction date as "Jan 05, 2024" on the
// calendar of loc.
func Date(s string, loc *time.Location) (string, error) {
	t, err := domain.ParseDate(s, loc)
	if err != nil {
		return "", err
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Jan 02, 2006"), nil
}
