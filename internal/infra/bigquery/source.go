// Package bigquery reads canonical transactions from the finance dataset in
// BigQuery as an alternative to Notion.
package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/dvloznov/spending-dashboard/internal/domain"
	"github.com/dvloznov/spending-dashboard/internal/logger"
)

var tableNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Source serves transactions from <project>.<dataset>.<table>, where the
// table is named after the logical database.
type Source struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewSource creates a Source with its own BigQuery client.
func NewSource(ctx context.Context, projectID, datasetID string, opts ...option.ClientOption) (*Source, error) {
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewSource: creating client: %w", err)
	}
	return NewSourceWithClient(client, projectID, datasetID), nil
}

// NewSourceWithClient creates a Source over an existing client.
func NewSourceWithClient(client *bigquery.Client, projectID, datasetID string) *Source {
	return &Source{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}
}

// Close closes the BigQuery client connection.
func (s *Source) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Transactions implements source.Source.
func (s *Source) Transactions(ctx context.Context, database string) ([]domain.Transaction, error) {
	table, err := TableName(database)
	if err != nil {
		return nil, fmt.Errorf("Transactions: %w", err)
	}

	rows, err := QueryTransactionsWithClient(ctx, s.client, s.projectID, s.datasetID, table)
	if err != nil {
		return nil, fmt.Errorf("Transactions: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, r.ToTransaction())
	}

	logger.FromContext(ctx).Info().
		Str("database", database).
		Str("table", table).
		Int("transaction_count", len(txs)).
		Msg("Fetched transactions from BigQuery")

	return txs, nil
}

// TableName maps a logical database name onto a table name: lower case with
// spaces replaced by underscores.
func TableName(database string) (string, error) {
	table := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(database)), " ", "_")
	if !tableNamePattern.MatchString(table) {
		return "", fmt.Errorf("TableName: %q: %w", database, domain.ErrDatabaseNotFound)
	}
	return table, nil
}

// QueryTransactionsWithClient reads every row of the given table using the
// provided BigQuery client.
func QueryTransactionsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, table string) ([]*TransactionRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			t.transaction_id,
			t.transaction_date,
			t.booking_datetime,
			t.amount,
			t.raw_description,
			t.normalized_description,
			t.category_name
		FROM `+"`%s.%s.%s`"+` t
		ORDER BY t.transaction_date, t.transaction_id
	`, projectID, datasetID, table))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, classify("QueryTransactions: query read", err)
	}

	var rows []*TransactionRow
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify("QueryTransactions: iter next", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}

// classify maps a missing table onto domain.ErrDatabaseNotFound and
// everything else onto domain.ErrUpstreamUnavailable.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDatabaseNotFound, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
}
