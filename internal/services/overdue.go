package services

import (
	"context"
	"fmt"
	"log/slog"

	"lupa/internal/metrics"
	"lupa/internal/records"
)

type OverdueResult struct {
	Bills       int
	Receivables int
}

// OverdueRefresher moves pending bills and receivables past their due date
// to overdue.
type OverdueRefresher struct {
	store  *records.Store
	caches []Invalidator
	logger *slog.Logger
}

func NewOverdueRefresher(store *records.Store, logger *slog.Logger, caches ...Invalidator) *OverdueRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &OverdueRefresher{store: store, caches: caches, logger: logger}
}

func (r *OverdueRefresher) Refresh(ctx context.Context) (OverdueResult, error) {
	today := r.store.Today()
	var res OverdueResult

	n, err := r.store.RefreshOverdueBills(ctx, today)
	if err != nil {
		return res, fmt.Errorf("refresh bills: %w", err)
	}
	res.Bills = n
	metrics.OverdueMarked.WithLabelValues("bill").Add(float64(n))

	n, err = r.store.RefreshOverdueReceivables(ctx, today)
	if err != nil {
		return res, fmt.Errorf("refresh receivables: %w", err)
	}
	res.Receivables = n
	metrics.OverdueMarked.WithLabelValues("receivable").Add(float64(n))

	if res.Bills+res.Receivables > 0 {
		for _, c := range r.caches {
			c.Invalidate()
		}
	}
	r.logger.InfoContext(ctx, "Overdue refresh finished",
		"date", today.String(),
		"bills", res.Bills,
		"receivables", res.Receivables)
	return res, nil
}

// Run adapts Refresh to a scheduled job.
func (r *OverdueRefresher) Run(ctx context.Context) error {
	_, err := r.Refresh(ctx)
	return err
}
