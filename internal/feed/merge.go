package feed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/globapay/txfeed/internal/domain"
)

// ErrNoConnections signals that the user has no linked connections at all.
// Callers must distinguish this from an empty window: the former directs the
// user to link an account, the latter just means no activity.
var ErrNoConnections = errors.New("no linked connections")

// DefaultFeedWindowDays is the trailing window for the transaction feed.
const DefaultFeedWindowDays = 60

// fetchConcurrency bounds outstanding banking API requests during fan-out.
const fetchConcurrency = 4

// Merger fans the fetcher out across all of a user's connections and merges
// the results into one collection.
type Merger struct {
	fetcher *Fetcher
	log     zerolog.Logger
}

// NewMerger creates a merger over the given fetcher.
func NewMerger(fetcher *Fetcher, log zerolog.Logger) *Merger {
	return &Merger{fetcher: fetcher, log: log}
}

// Merge fetches every connection concurrently and waits for all of them. A
// failed connection contributes nothing and is logged; it never fails the
// merge. Within each connection, upstream source order is preserved; across
// connections no order is guaranteed until the caller sorts.
func (m *Merger) Merge(ctx context.Context, conns []domain.Connection, window domain.DateWindow) ([]domain.Transaction, error) {
	if len(conns) == 0 {
		return nil, ErrNoConnections
	}

	results := make([][]domain.Transaction, len(conns))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, conn := range conns {
		g.Go(func() error {
			txs, err := m.fetcher.Fetch(ctx, conn, window)
			if err != nil {
				m.log.Warn().
					Err(err).
					Str("connection_id", conn.ID).
					Str("institution", conn.InstitutionName).
					Msg("connection fetch failed, contributing nothing")
				return nil
			}
			results[i] = txs
			return nil
		})
	}
	// Workers swallow their own errors, so this is a pure barrier.
	_ = g.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]domain.Transaction, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}
