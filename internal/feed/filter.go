package feed

import (
	"strings"
	"time"

	"github.com/globapay/txfeed/internal/domain"
)

// Filter applies the spec's predicates as a conjunction over the merged
// collection. Predicates are independent set intersections, so application
// order only matters for speed; the cheap comparisons run before date parsing
// and substring search.
//
// Date bounds are inclusive and fail open: a transaction whose date cannot be
// parsed is kept rather than silently dropped from the feed.
func Filter(txs []domain.Transaction, spec domain.QuerySpec) []domain.Transaction {
	query := strings.ToLower(strings.TrimSpace(spec.Text))

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if spec.AccountID != "" && tx.AccountID != spec.AccountID {
			continue
		}
		if !matchesFlow(tx.Amount, spec.Flow) {
			continue
		}
		if !withinBounds(tx.Date, spec.Start, spec.End) {
			continue
		}
		if query != "" && !matchesText(tx.Name, query) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func matchesFlow(amount float64, flow domain.FlowType) bool {
	switch flow {
	case domain.FlowExpense:
		return amount > 0
	case domain.FlowIncome:
		return amount < 0
	default:
		return true
	}
}

func withinBounds(date string, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	day, err := domain.ParseDay(date)
	if err != nil {
		// Fail open: malformed upstream dates stay in the feed.
		return true
	}
	if start != nil && day.Before(*start) {
		return false
	}
	if end != nil && day.After(*end) {
		return false
	}
	return true
}

func matchesText(name *string, loweredQuery string) bool {
	if name == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*name), loweredQuery)
}
