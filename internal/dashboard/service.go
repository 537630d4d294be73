// Package dashboard answers dashboard queries by fetching the current
// transactions from a source and running them through the spending core.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/spending-dashboard/internal/domain"
	"github.com/dvloznov/spending-dashboard/internal/logger"
	"github.com/dvloznov/spending-dashboard/internal/source"
	"github.com/dvloznov/spending-dashboard/internal/spending"
)

// Service computes dashboard views. Every call fetches fresh; nothing is cached.
type Service struct {
	source     source.Source
	database   string
	aggregator *spending.Aggregator
	engine     *spending.QueryEngine
}

// NewService creates a Service reading the named logical database from src.
func NewService(src source.Source, database string, aggregator *spending.Aggregator, engine *spending.QueryEngine) *Service {
	return &Service{
		source:     src,
		database:   database,
		aggregator: aggregator,
		engine:     engine,
	}
}

// Database returns the logical database name the service reads.
func (s *Service) Database() string {
	return s.database
}

// Monthly returns the month-by-month overview.
func (s *Service) Monthly(ctx context.Context) (*spending.Overview, error) {
	txs, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("Monthly: %w", err)
	}

	overview, err := s.aggregator.Monthly(txs)
	if err != nil {
		return nil, fmt.Errorf("Monthly: %w", err)
	}
	return overview, nil
}

// Month returns the filtered, sorted detail view of one calendar month.
func (s *Service) Month(ctx context.Context, month domain.Month, filters spending.Filters) (*spending.MonthView, error) {
	txs, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("Month: %w", err)
	}

	view, err := s.engine.Month(txs, month, filters)
	if err != nil {
		return nil, fmt.Errorf("Month: %w", err)
	}
	return view, nil
}

// Refresh re-fetches the transactions and reports how many there are.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	txs, err := s.fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("Refresh: %w", err)
	}
	return len(txs), nil
}

func (s *Service) fetch(ctx context.Context) ([]domain.Transaction, error) {
	start := time.Now()

	txs, err := s.source.Transactions(ctx, s.database)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug().
		Str("database", s.database).
		Int("transaction_count", len(txs)).
		Dur("duration", time.Since(start)).
		Msg("Fetched transactions")

	return txs, nil
}
