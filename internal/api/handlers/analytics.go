package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/globapay/txfeed/internal/analytics"
	"github.com/globapay/txfeed/internal/api/middleware"
	"github.com/globapay/txfeed/internal/classify"
	"github.com/globapay/txfeed/internal/connections"
	"github.com/globapay/txfeed/internal/domain"
	"github.com/globapay/txfeed/internal/feed"
)

// AnalyticsHandler serves the derived spending summary.
type AnalyticsHandler struct {
	source     connections.Source
	merger     *feed.Merger
	classifier *classify.Classifier
	log        zerolog.Logger
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(source connections.Source, merger *feed.Merger, classifier *classify.Classifier, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{source: source, merger: merger, classifier: classifier, log: log}
}

// ListSpending handles GET /api/analytics/spending
//
// No linked connections and an empty window both return the all-zero shape
// with ok=true: an empty dashboard is an expected state, not an error.
func (h *AnalyticsHandler) ListSpending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserID(ctx)
	if userID == "" {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	rangeDays := parseRangeDays(r.URL.Query().Get("range"))

	conns, err := h.source.ListConnections(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list connections")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to resolve linked accounts")
		return
	}

	merged, err := h.merger.Merge(ctx, conns, domain.TrailingWindow(rangeDays))
	if err != nil {
		if errors.Is(err, feed.ErrNoConnections) {
			writeResult(w, analytics.Empty(rangeDays))
			return
		}
		h.log.Error().Err(err).Msg("Failed to merge transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build analytics")
		return
	}

	// Only expenses feed the analytics views; credits are excluded before
	// classification so they never cost classifier tokens either.
	expenses := feed.Filter(merged, domain.QuerySpec{Flow: domain.FlowExpense})
	if len(expenses) == 0 {
		writeResult(w, analytics.Empty(rangeDays))
		return
	}

	classified := h.classifier.Classify(ctx, expenses)
	writeResult(w, analytics.Aggregate(classified, rangeDays))
}

func writeResult(w http.ResponseWriter, res analytics.Result) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         true,
		"rangeDays":  res.RangeDays,
		"categories": res.Categories,
		"timeline":   res.Timeline,
		"merchants":  res.Merchants,
		"totalSpend": res.TotalSpend,
	})
}

// parseRangeDays maps the range parameter onto the three supported trailing
// windows, defaulting to 30 for anything unrecognized.
func parseRangeDays(s string) int {
	switch s {
	case "7":
		return 7
	case "60":
		return 60
	default:
		return 30
	}
}
