// Package feed implements the transaction aggregation engine: fetching from
// every linked connection, normalizing into one canonical collection, and
// filtering, sorting, and paging that collection.
package feed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/globapay/txfeed/internal/banking"
	"github.com/globapay/txfeed/internal/domain"
)

// Fetcher retrieves and normalizes one connection's transactions. Two
// upstream calls per connection: accounts (for label/mask enrichment) and
// transactions over the window.
type Fetcher struct {
	banking banking.Client
	log     zerolog.Logger
}

// NewFetcher creates a fetcher over the given banking client.
func NewFetcher(client banking.Client, log zerolog.Logger) *Fetcher {
	return &Fetcher{banking: client, log: log}
}

// Fetch returns the connection's normalized transactions within the window,
// preserving upstream source order. Errors identify the connection by id and
// institution only; the access token never appears in errors or logs.
func (f *Fetcher) Fetch(ctx context.Context, conn domain.Connection, window domain.DateWindow) ([]domain.Transaction, error) {
	accounts, err := f.banking.GetAccounts(ctx, conn.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetching accounts for connection %s: %w", conn.ID, err)
	}
	index := SubAccountIndex(accounts)

	raws, err := f.banking.GetTransactions(ctx, conn.AccessToken, window.StartDate(), window.EndDate())
	if err != nil {
		return nil, fmt.Errorf("fetching transactions for connection %s: %w", conn.ID, err)
	}

	out := make([]domain.Transaction, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw, index))
	}

	f.log.Debug().
		Str("connection_id", conn.ID).
		Str("institution", conn.InstitutionName).
		Int("accounts", len(accounts)).
		Int("transactions", len(out)).
		Msg("connection fetched")

	return out, nil
}
