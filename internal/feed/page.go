package feed

import (
	"sort"

	"github.com/globapay/txfeed/internal/domain"
)

const (
	minLimit = 1
	maxLimit = 50

	// DefaultLimit is the page size when the caller sends none.
	DefaultLimit = 10
)

// SortByDateDesc orders the collection newest first. Ties on the calendar day
// break on transaction id ascending so paging over a fixed upstream snapshot
// is deterministic.
func SortByDateDesc(txs []domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Date != txs[j].Date {
			return txs[i].Date > txs[j].Date
		}
		return txs[i].ID < txs[j].ID
	})
}

// ClampLimit forces the page size into [1, 50].
func ClampLimit(limit int) int {
	if limit < minLimit {
		return minLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// ClampOffset forces the offset to be non-negative.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// Page slices the sorted collection. There is no persisted cursor: each call
// recomputes the collection, so page boundaries may shift when upstream data
// changes between calls.
func Page(txs []domain.Transaction, limit, offset int) (items []domain.Transaction, nextOffset int, hasMore bool) {
	limit = ClampLimit(limit)
	offset = ClampOffset(offset)

	total := len(txs)
	items = []domain.Transaction{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		items = txs[offset:end]
	}

	nextOffset = offset + len(items)
	hasMore = nextOffset < total
	return items, nextOffset, hasMore
}
