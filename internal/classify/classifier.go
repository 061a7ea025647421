// Package classify guarantees that every transaction entering it leaves with
// exactly one spending category. The external model sits behind a narrow
// batch→labelMap interface; every failure mode collapses to the "Other"
// label inside this package so callers never see a partially classified
// batch.
package classify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/globapay/txfeed/internal/domain"
)

// Labeler returns one category label per transaction id for a batch. A single
// call covers the whole batch; implementations must never call out once per
// transaction.
type Labeler interface {
	LabelBatch(ctx context.Context, txs []domain.Transaction) (map[string]string, error)
}

// Classifier wraps a Labeler with the fallback policy. A nil labeler means no
// classification credential is configured: everything is labeled Other and no
// external call is attempted.
type Classifier struct {
	labeler Labeler
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a classifier. timeout bounds the external call; zero means the
// caller's context deadline applies unmodified.
func New(labeler Labeler, timeout time.Duration, log zerolog.Logger) *Classifier {
	return &Classifier{labeler: labeler, timeout: timeout, log: log}
}

// Classify labels the batch with one external call. Transport failures,
// malformed payloads, timeouts, unknown labels, and ids missing from the
// response all resolve to Other; a partial or ambiguous result is never
// trusted over the safe fallback.
func (c *Classifier) Classify(ctx context.Context, txs []domain.Transaction) []domain.ClassifiedTransaction {
	if len(txs) == 0 {
		return []domain.ClassifiedTransaction{}
	}

	if c.labeler == nil {
		c.log.Warn().Msg("no classification credential configured, labeling batch as Other")
		return fallback(txs)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	labels, err := c.labeler.LabelBatch(ctx, txs)
	if err != nil {
		c.log.Error().Err(err).Int("batch_size", len(txs)).Msg("classification call failed, labeling batch as Other")
		return fallback(txs)
	}

	out := make([]domain.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		category := domain.CategoryOther
		if label, ok := labels[tx.ID]; ok {
			if parsed, valid := domain.ParseCategory(label); valid {
				category = parsed
			}
		}
		out = append(out, domain.ClassifiedTransaction{Transaction: tx, Category: category})
	}
	return out
}

func fallback(txs []domain.Transaction) []domain.ClassifiedTransaction {
	out := make([]domain.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, domain.ClassifiedTransaction{Transaction: tx, Category: domain.CategoryOther})
	}
	return out
}
