// Package notionsource reads canonical transactions from a Notion database
// that lives under a configured parent page.
package notionsource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/spending-dashboard/internal/domain"
	"github.com/dvloznov/spending-dashboard/internal/logger"
)

const (
	// pageSize is the number of results requested per Notion call.
	pageSize = 100
	// titleLookups bounds concurrent database title requests.
	titleLookups = 4
)

// Database is a child database of the configured page.
type Database struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Source fetches transactions from Notion databases found under one page.
type Source struct {
	notion NotionService
	pageID string
	now    func() time.Time
}

// NewSource creates a Source that looks for databases under pageID.
func NewSource(notion NotionService, pageID string) *Source {
	return &Source{
		notion: notion,
		pageID: pageID,
		now:    time.Now,
	}
}

// ListDatabases returns the titled child databases of the configured page in
// discovery order. Databases whose title cannot be fetched are logged and skipped.
func (s *Source) ListDatabases(ctx context.Context) ([]Database, error) {
	databases, _, err := s.lookupDatabases(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListDatabases: %w", err)
	}
	return databases, nil
}

// FindDatabaseByTitle returns the first child database whose title matches
// case-insensitively. With no match it returns an error wrapping
// domain.ErrDatabaseNotFound, unless a title lookup failed, in which case the
// database may exist and the lookup failure is returned as upstream unavailable.
func (s *Source) FindDatabaseByTitle(ctx context.Context, title string) (*Database, error) {
	databases, titleErr, err := s.lookupDatabases(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindDatabaseByTitle: %w", err)
	}

	for _, db := range databases {
		if db.Title != "" && strings.EqualFold(db.Title, title) {
			return &db, nil
		}
	}

	if titleErr != nil {
		return nil, upstream("FindDatabaseByTitle", titleErr)
	}
	return nil, fmt.Errorf("FindDatabaseByTitle: %q: %w", title, domain.ErrDatabaseNotFound)
}

// lookupDatabases lists child databases with their titles. Failed title
// lookups are skipped; the first of them is returned as titleErr.
func (s *Source) lookupDatabases(ctx context.Context) (databases []Database, titleErr error, err error) {
	log := logger.FromContext(ctx)

	ids, err := s.childDatabaseIDs(ctx)
	if err != nil {
		return nil, nil, err
	}

	titles := make([]string, len(ids))
	errs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(titleLookups)
	for i, id := range ids {
		g.Go(func() error {
			title, err := s.notion.DatabaseTitle(gctx, id)
			if err != nil {
				log.Warn().Err(err).Str("database_id", id).Msg("Failed to retrieve database title")
				errs[i] = err
				return nil
			}
			titles[i] = title
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	databases = make([]Database, 0, len(ids))
	for i, id := range ids {
		if errs[i] != nil {
			if titleErr == nil {
				titleErr = errs[i]
			}
			continue
		}
		databases = append(databases, Database{ID: id, Title: titles[i]})
	}

	log.Debug().Int("database_count", len(databases)).Msg("Listed Notion databases")
	return databases, titleErr, nil
}

// Transactions returns every page of the database titled database, mapped
// onto canonical transactions.
func (s *Source) Transactions(ctx context.Context, database string) ([]domain.Transaction, error) {
	log := logger.FromContext(ctx)

	db, err := s.FindDatabaseByTitle(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("Transactions: %w", err)
	}

	pages, err := s.queryAllPages(ctx, db.ID)
	if err != nil {
		return nil, fmt.Errorf("Transactions: %w", err)
	}

	now := s.now()
	txs := make([]domain.Transaction, 0, len(pages))
	for _, page := range pages {
		txs = append(txs, PageToTransaction(page, now))
	}

	log.Info().
		Str("database", database).
		Str("database_id", db.ID).
		Int("transaction_count", len(txs)).
		Msg("Fetched transactions from Notion")

	return txs, nil
}

func (s *Source) childDatabaseIDs(ctx context.Context) ([]string, error) {
	var ids []string
	var cursor string

	for {
		page, err := s.notion.ChildDatabases(ctx, s.pageID, cursor)
		if err != nil {
			return nil, upstream("childDatabaseIDs", err)
		}

		ids = append(ids, page.DatabaseIDs...)

		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return ids, nil
}

// queryAllPages queries all pages from a Notion database.
// Handles pagination automatically.
func (s *Source) queryAllPages(ctx context.Context, databaseID string) ([]notionapi.Page, error) {
	log := logger.FromContext(ctx)

	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: pageSize,
		}

		// Only set StartCursor if we have a cursor value
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := s.notion.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, upstream("queryAllPages", err)
		}

		allPages = append(allPages, resp.Results...)
		log.Debug().
			Str("database_id", databaseID).
			Int("page_count", len(allPages)).
			Bool("has_more", resp.HasMore).
			Msg("Queried Notion database page")

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}

// upstream wraps a Notion failure so callers can classify it. Context errors
// stay in the chain so timeouts remain detectable.
func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
}
