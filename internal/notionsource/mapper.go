package notionsource

import (
	"strconv"
	"time"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/spending-dashboard/internal/domain"
)

// Candidate property names, in priority order, for each transaction field.
var (
	descriptionProps   = []string{"Name", "Title", "Description"}
	dateProps          = []string{"Date", "Created"}
	amountProps        = []string{"Amount", "Cost", "Price"}
	categoryProps      = []string{"Category", "Type"}
	paymentMethodProps = []string{"Payment Method", "PaymentMethod", "Method"}
	merchantProps      = []string{"Merchant", "Store", "Vendor"}
	notesProps         = []string{"Notes", "Comments"}
)

const dateOnlyLayout = "2006-01-02"

// PageToTransaction maps a Notion page onto a canonical transaction.
// Missing description, amount and date fall back to a placeholder, "0" and now.
func PageToTransaction(page notionapi.Page, now time.Time) domain.Transaction {
	props := page.Properties

	description := firstText(props, descriptionProps)
	if description == "" {
		description = domain.UntitledDescription
	}

	date, ok := firstDate(props, dateProps)
	if !ok {
		date = now.Format(time.RFC3339)
	}

	amount, ok := firstNumber(props, amountProps)
	if !ok {
		amount = "0"
	}

	return domain.Transaction{
		ID:            string(page.ID),
		Date:          date,
		Description:   description,
		Amount:        amount,
		Category:      domain.StringPtr(firstSelect(props, categoryProps)),
		PaymentMethod: domain.StringPtr(firstSelect(props, paymentMethodProps)),
		Merchant:      domain.StringPtr(firstText(props, merchantProps)),
		Notes:         domain.StringPtr(firstText(props, notesProps)),
	}
}

// firstText returns the first non-empty title or rich text value.
func firstText(props notionapi.Properties, names []string) string {
	for _, name := range names {
		if text := textOf(props[name]); text != "" {
			return text
		}
	}
	return ""
}

func textOf(prop notionapi.Property) string {
	var fragments []notionapi.RichText
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		fragments = p.Title
	case notionapi.TitleProperty:
		fragments = p.Title
	case *notionapi.RichTextProperty:
		fragments = p.RichText
	case notionapi.RichTextProperty:
		fragments = p.RichText
	}
	if len(fragments) == 0 {
		return ""
	}
	return fragments[0].PlainText
}

func firstSelect(props notionapi.Properties, names []string) string {
	for _, name := range names {
		switch p := props[name].(type) {
		case *notionapi.SelectProperty:
			if p.Select.Name != "" {
				return p.Select.Name
			}
		case notionapi.SelectProperty:
			if p.Select.Name != "" {
				return p.Select.Name
			}
		}
	}
	return ""
}

// firstNumber returns the first number property present, formatted without
// trailing zeros.
func firstNumber(props notionapi.Properties, names []string) (string, bool) {
	for _, name := range names {
		switch p := props[name].(type) {
		case *notionapi.NumberProperty:
			return formatNumber(p.Number), true
		case notionapi.NumberProperty:
			return formatNumber(p.Number), true
		}
	}
	return "", false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func firstDate(props notionapi.Properties, names []string) (string, bool) {
	for _, name := range names {
		switch p := props[name].(type) {
		case *notionapi.DateProperty:
			if s, ok := dateObjectStart(p.Date); ok {
				return s, true
			}
		case notionapi.DateProperty:
			if s, ok := dateObjectStart(p.Date); ok {
				return s, true
			}
		case *notionapi.CreatedTimeProperty:
			return formatTime(p.CreatedTime), true
		case notionapi.CreatedTimeProperty:
			return formatTime(p.CreatedTime), true
		}
	}
	return "", false
}

func dateObjectStart(obj *notionapi.DateObject) (string, bool) {
	if obj == nil || obj.Start == nil {
		return "", false
	}
	return formatTime(time.Time(*obj.Start)), true
}

// formatTime renders date-only values, which the SDK decodes as midnight UTC,
// back as plain calendar dates so they are read in the dashboard's location.
func formatTime(t time.Time) string {
	if t.Location() == time.UTC && t.Equal(t.Truncate(24*time.Hour)) {
		return t.Format(dateOnlyLayout)
	}
	return t.Format(time.RFC3339)
}
