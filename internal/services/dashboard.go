package services

import (
	"context"
	"fmt"
	"time"

	"lupa/internal/aggregate"
	"lupa/internal/cache"
	"lupa/internal/core"
	"lupa/internal/records"
)

// Snapshot is every dashboard figure computed from one read of the records.
type Snapshot struct {
	Dashboard   aggregate.Dashboard
	Monthly     []aggregate.MonthPoint
	Daily       []aggregate.DayPoint
	Bills       aggregate.BillSummary
	Receivables aggregate.ReceivableSummary
}

// DashboardService computes snapshots and caches them per calendar day until
// the TTL runs out or a write invalidates them.
type DashboardService struct {
	store  *records.Store
	cache  *cache.LRUCache[Snapshot]
	loader *cache.Loader[Snapshot]
}

func NewDashboardService(store *records.Store, ttl time.Duration) *DashboardService {
	c := cache.NewLRUCache[Snapshot]("dashboard", 4, ttl)
	return &DashboardService{store: store, cache: c, loader: cache.NewLoader(c)}
}

// Cache exposes the underlying cache so it can be registered for cleanup.
func (s *DashboardService) Cache() *cache.LRUCache[Snapshot] { return s.cache }

func (s *DashboardService) Invalidate() { s.loader.Invalidate() }

// Snapshot returns the figures for the store's current day.
func (s *DashboardService) Snapshot(ctx context.Context) (Snapshot, error) {
	today := s.store.Today()
	return s.loader.Get(ctx, today.String(), func(ctx context.Context) (Snapshot, error) {
		return s.compute(ctx, today)
	})
}

// FeePreview reads the current payment methods; it is not cached.
func (s *DashboardService) FeePreview(ctx context.Context, amount, methodID string) (aggregate.FeePreview, error) {
	methods, err := s.store.ListPaymentMethods(ctx)
	if err != nil {
		return aggregate.FeePreview{}, err
	}
	return aggregate.ComputeFeePreview(amount, methodID, methods), nil
}

func (s *DashboardService) compute(ctx context.Context, today core.Date) (Snapshot, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list transactions: %w", err)
	}
	methods, err := s.store.ListPaymentMethods(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list payment methods: %w", err)
	}
	bills, err := s.store.ListBills(ctx, "")
	if err != nil {
		return Snapshot{}, fmt.Errorf("list bills: %w", err)
	}
	recs, err := s.store.ListReceivables(ctx, "")
	if err != nil {
		return Snapshot{}, fmt.Errorf("list receivables: %w", err)
	}

	return Snapshot{
		Dashboard: aggregate.ComputeDashboard(aggregate.Inputs{
			Transactions:   txs,
			PaymentMethods: methods,
			Bills:          bills,
			Receivables:    recs,
			Today:          today,
		}),
		Monthly:     aggregate.ComputeMonthlySeries(txs),
		Daily:       aggregate.ComputeDailySeries(txs, today),
		Bills:       aggregate.ComputeBillSummary(bills, today),
		Receivables: aggregate.ComputeReceivableSummary(recs, today),
	}, nil
}
