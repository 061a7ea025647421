// Package handlers exposes the aggregation engine over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/globapay/txfeed/internal/api/middleware"
	"github.com/globapay/txfeed/internal/connections"
	"github.com/globapay/txfeed/internal/domain"
	"github.com/globapay/txfeed/internal/feed"
)

// FeedHandler serves the consolidated transaction feed.
type FeedHandler struct {
	source connections.Source
	merger *feed.Merger
	log    zerolog.Logger
}

// NewFeedHandler creates a feed handler.
func NewFeedHandler(source connections.Source, merger *feed.Merger, log zerolog.Logger) *FeedHandler {
	return &FeedHandler{source: source, merger: merger, log: log}
}

// ListTransactions handles GET /api/transactions
//
// The feed is recomputed from upstream on every call: list connections, fan
// out fetches over the trailing 60-day window, then filter, sort, and page
// the merged collection.
func (h *FeedHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserID(ctx)
	if userID == "" {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	spec := parseQuerySpec(r.URL.Query())

	conns, err := h.source.ListConnections(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list connections")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to resolve linked accounts")
		return
	}

	merged, err := h.merger.Merge(ctx, conns, domain.TrailingWindow(feed.DefaultFeedWindowDays))
	if err != nil {
		if errors.Is(err, feed.ErrNoConnections) {
			middleware.WriteJSON(w, http.StatusNotFound, map[string]interface{}{
				"ok":     false,
				"reason": "NO_LINKED_BANK",
			})
			return
		}
		h.log.Error().Err(err).Msg("Failed to merge transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	list := feed.Filter(merged, spec)
	feed.SortByDateDesc(list)
	items, nextOffset, hasMore := feed.Page(list, spec.Limit, spec.Offset)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":           true,
		"transactions": items,
		"nextOffset":   nextOffset,
		"hasMore":      hasMore,
	})
}

// parseQuerySpec builds the request's filter/paging state from the query
// string. Out-of-range numbers are clamped later by the pager and malformed
// dates are dropped so a bad bound widens the result instead of erroring.
func parseQuerySpec(q url.Values) domain.QuerySpec {
	spec := domain.QuerySpec{
		Text:      q.Get("q"),
		Flow:      parseFlowType(q.Get("type")),
		AccountID: q.Get("accountId"),
		Limit:     feed.DefaultLimit,
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			spec.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			spec.Offset = n
		}
	}
	spec.Start = parseDayParam(q.Get("start"))
	spec.End = parseDayParam(q.Get("end"))

	return spec
}

func parseFlowType(s string) domain.FlowType {
	switch domain.FlowType(s) {
	case domain.FlowExpense:
		return domain.FlowExpense
	case domain.FlowIncome:
		return domain.FlowIncome
	default:
		return domain.FlowAll
	}
}

func parseDayParam(s string) *time.Time {
	if s == "" {
		return nil
	}
	day, err := domain.ParseDay(s)
	if err != nil {
		return nil
	}
	return &day
}
