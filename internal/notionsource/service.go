package notionsource

import (
	"context"

	"github.com/jomei/notionapi"
)

// ChildDatabasePage is one page of child blocks of a Notion page, reduced to
// the ids of the child databases it contains.
type ChildDatabasePage struct {
	DatabaseIDs []string
	NextCursor  string
	HasMore     bool
}

// NotionService defines the interface for interacting with Notion API.
// This interface enables mocking and testing of Notion operations.
type NotionService interface {
	// ChildDatabases lists one page of child databases of the given page.
	// An empty cursor starts from the beginning.
	ChildDatabases(ctx context.Context, pageID, cursor string) (*ChildDatabasePage, error)

	// DatabaseTitle returns the plain text of the first title fragment of a
	// database, or "" when it has no title.
	DatabaseTitle(ctx context.Context, databaseID string) (string, error)

	// QueryDatabase queries a Notion database with the given request.
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}
