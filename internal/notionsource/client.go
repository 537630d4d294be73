package notionsource

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
)

// NotionClient is the concrete implementation of NotionService using the Notion SDK.
type NotionClient struct {
	client *notionapi.Client
}

// NewNotionClient creates a new NotionClient with the provided integration secret.
func NewNotionClient(token string) *NotionClient {
	return &NotionClient{
		client: notionapi.NewClient(notionapi.Token(token)),
	}
}

// ChildDatabases lists one page of child databases of the given page.
func (n *NotionClient) ChildDatabases(ctx context.Context, pageID, cursor string) (*ChildDatabasePage, error) {
	pagination := &notionapi.Pagination{PageSize: pageSize}
	if cursor != "" {
		pagination.StartCursor = notionapi.Cursor(cursor)
	}

	resp, err := n.client.Block.GetChildren(ctx, notionapi.BlockID(pageID), pagination)
	if err != nil {
		return nil, fmt.Errorf("ChildDatabases: %w", err)
	}

	page := &ChildDatabasePage{
		NextCursor: string(resp.NextCursor),
		HasMore:    resp.HasMore,
	}
	for _, block := range resp.Results {
		if block.GetType() == notionapi.BlockTypeChildDatabase {
			page.DatabaseIDs = append(page.DatabaseIDs, string(block.GetID()))
		}
	}

	return page, nil
}

// DatabaseTitle retrieves a database and returns its first title fragment.
func (n *NotionClient) DatabaseTitle(ctx context.Context, databaseID string) (string, error) {
	db, err := n.client.Database.Get(ctx, notionapi.DatabaseID(databaseID))
	if err != nil {
		return "", fmt.Errorf("DatabaseTitle: %w", err)
	}

	if len(db.Title) == 0 {
		return "", nil
	}
	return db.Title[0].PlainText, nil
}

// QueryDatabase queries a Notion database with the given request.
func (n *NotionClient) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	resp, err := n.client.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
	if err != nil {
		return nil, fmt.Errorf("QueryDatabase: %w", err)
	}

	return resp, nil
}

// Ensure NotionClient implements NotionService interface.
var _ NotionService = (*NotionClient)(nil)
