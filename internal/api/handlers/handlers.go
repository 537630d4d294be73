package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/spending-dashboard/internal/api/middleware"
	"github.com/dvloznov/spending-dashboard/internal/domain"
	"github.com/dvloznov/spending-dashboard/internal/logger"
	"github.com/dvloznov/spending-dashboard/internal/spending"
)

// Dashboard is the query surface the HTTP layer serves.
type Dashboard interface {
	Database() string
	Monthly(ctx context.Context) (*spending.Overview, error)
	Month(ctx context.Context, month domain.Month, filters spending.Filters) (*spending.MonthView, error)
	Refresh(ctx context.Context) (int, error)
}

// RefreshResponse is returned by POST /api/transactions/refresh.
type RefreshResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// TransactionsHandler handles transaction dashboard endpoints.
type TransactionsHandler struct {
	dashboard Dashboard
	hint      string
	log       zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler. hint names the
// settings to check when the upstream fetch fails.
func NewTransactionsHandler(dashboard Dashboard, hint string, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		dashboard: dashboard,
		hint:      hint,
		log:       log,
	}
}

// Monthly handles GET /api/transactions/monthly
func (h *TransactionsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Monthly(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, overview)
}

// Month handles GET /api/transactions/month/{year}/{month}
func (h *TransactionsHandler) Month(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid year or month: "+err.Error())
		return
	}

	view, err := h.dashboard.Month(r.Context(), month, parseFilters(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, view)
}

// Refresh handles POST /api/transactions/refresh
func (h *TransactionsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	count, err := h.dashboard.Refresh(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, RefreshResponse{
		Message: "Transactions refreshed successfully",
		Count:   count,
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// requestLogger prefers the request-scoped logger installed by middleware.
func (h *TransactionsHandler) requestLogger(r *http.Request) zerolog.Logger {
	return logger.FromContextOr(r.Context(), h.log)
}

// parseMonth validates the {year}/{month} path parameters.
func parseMonth(yearParam, monthParam string) (domain.Month, error) {
	year, err := strconv.Atoi(yearParam)
	if err != nil {
		return domain.Month{}, fmt.Errorf("year %q is not a number", yearParam)
	}
	month, err := strconv.Atoi(monthParam)
	if err != nil {
		return domain.Month{}, fmt.Errorf("month %q is not a number", monthParam)
	}

	return domain.NewMonth(year, month)
}

// parseFilters reads the optional query parameters. Unknown enum values are
// passed through and ignored by the query engine.
func parseFilters(r *http.Request) spending.Filters {
	q := r.URL.Query()
	return spending.Filters{
		Search:      strings.TrimSpace(q.Get("search")),
		Category:    strings.TrimSpace(q.Get("category")),
		AmountRange: spending.AmountRange(q.Get("amountRange")),
		SortBy:      spending.SortKey(q.Get("sortBy")),
		SortOrder:   spending.SortOrder(q.Get("sortOrder")),
	}
}

// writeServiceError maps service failures onto status codes and messages.
func (h *TransactionsHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := h.requestLogger(r)
	database := h.dashboard.Database()

	switch {
	case errors.Is(err, domain.ErrDatabaseNotFound):
		log.Warn().Err(err).Str("database", database).Msg("Transactions database not found")
		middleware.WriteError(w, http.StatusNotFound, fmt.Sprintf(
			"%s database not found. Please ensure you have a '%s' database in your data source.", database, database))
	case errors.Is(err, domain.ErrInvalidParameter):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Error().Err(err).Msg("Timed out fetching transactions")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Timed out fetching transactions. Please try again.")
	case errors.Is(err, domain.ErrMalformedRecord):
		log.Error().Err(err).Msg("Malformed transaction record")
		middleware.WriteError(w, http.StatusInternalServerError, "Transactions contain a record with an unreadable date or amount.")
	default:
		log.Error().Err(err).Msg("Failed to fetch transactions")
		middleware.WriteError(w, http.StatusInternalServerError, strings.TrimSpace("Failed to fetch transactions. "+h.hint))
	}
}
