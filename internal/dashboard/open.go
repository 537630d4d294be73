package dashboard

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"github.com/dvloznov/spending-dashboard/internal/config"
	infraBQ "github.com/dvloznov/spending-dashboard/internal/infra/bigquery"
	"github.com/dvloznov/spending-dashboard/internal/notionsource"
	"github.com/dvloznov/spending-dashboard/internal/source"
	"github.com/dvloznov/spending-dashboard/internal/spending"
)

// Open builds the configured source and a Service on top of it. The returned
// close function releases the source's clients.
func Open(ctx context.Context, cfg *config.Config) (*Service, func() error, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("Open: timezone: %w", err)
	}
	lang, err := cfg.Language()
	if err != nil {
		return nil, nil, fmt.Errorf("Open: sort locale: %w", err)
	}

	src, closeFn, err := OpenSource(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("Open: %w", err)
	}

	svc := NewService(
		source.NewRetrying(src, cfg.RetryPolicy()),
		cfg.TransactionsDatabase,
		spending.NewAggregator(loc),
		spending.NewQueryEngine(loc, lang),
	)
	return svc, closeFn, nil
}

// OpenSource creates the raw transaction source selected by DATA_SOURCE.
func OpenSource(ctx context.Context, cfg *config.Config) (source.Source, func() error, error) {
	switch cfg.DataSource {
	case config.SourceNotion:
		notionSrc, err := OpenNotion(cfg)
		if err != nil {
			return nil, nil, err
		}
		return notionSrc, func() error { return nil }, nil

	case config.SourceBigQuery:
		var opts []option.ClientOption
		if cfg.GoogleCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
		}
		bqSrc, err := infraBQ.NewSource(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("OpenSource: %w", err)
		}
		return bqSrc, bqSrc.Close, nil

	default:
		return nil, nil, fmt.Errorf("OpenSource: unknown data source %q", cfg.DataSource)
	}
}

// OpenNotion creates the Notion source for the configured page.
func OpenNotion(cfg *config.Config) (*notionsource.Source, error) {
	pageID, err := notionsource.ExtractPageID(cfg.NotionPageURL)
	if err != nil {
		return nil, fmt.Errorf("OpenNotion: %w", err)
	}
	client := notionsource.NewNotionClient(cfg.NotionIntegrationSecret)
	return notionsource.NewSource(client, pageID), nil
}
