package notionsource

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/dvloznov/spending-dashboard/internal/domain"
)

var pageIDPattern = regexp.MustCompile(`(?i)([0-9a-f]{8}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{4}-?[0-9a-f]{12})$`)

// ExtractPageID returns the page id at the end of a Notion page URL, either
// as 32 hex characters or a dashed UUID. Query string and fragment are ignored.
func ExtractPageID(pageURL string) (string, error) {
	trimmed := strings.TrimSpace(pageURL)
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimSuffix(trimmed, "/")

	match := pageIDPattern.FindString(trimmed)
	if match == "" {
		return "", fmt.Errorf("ExtractPageID: no page id in %q: %w", pageURL, domain.ErrInvalidParameter)
	}

	id, err := uuid.Parse(match)
	if err != nil {
		return "", fmt.Errorf("ExtractPageID: %q: %w", match, domain.ErrInvalidParameter)
	}

	return strings.ReplaceAll(id.String(), "-", ""), nil
}
