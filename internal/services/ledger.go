// Package services orchestrates writes to the record store with the side
// effects around them: ledger events and dashboard cache invalidation.
package services

import (
	"context"
	"log/slog"

	"lupa/internal/amqp"
	"lupa/internal/core"
	"lupa/internal/records"
)

// Publisher sends ledger events. *amqp.Client implements it.
type Publisher interface {
	PublishTransactionEvent(ctx context.Context, event amqp.EventType, id string) error
}

// Invalidator drops cached results derived from the records.
type Invalidator interface {
	Invalidate()
}

// LedgerService fronts the record store for the HTTP layer. Reads pass
// through; writes invalidate derived caches and transaction writes publish
// an event.
type LedgerService struct {
	store     *records.Store
	publisher Publisher
	caches    []Invalidator
	logger    *slog.Logger
}

// NewLedgerService builds the service. publisher may be nil when events are
// disabled.
func NewLedgerService(store *records.Store, publisher Publisher, logger *slog.Logger, caches ...Invalidator) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{store: store, publisher: publisher, caches: caches, logger: logger}
}

func (s *LedgerService) Store() *records.Store { return s.store }

func (s *LedgerService) Today() core.Date { return s.store.Today() }

func (s *LedgerService) Ping(ctx context.Context) error { return s.store.Ping(ctx) }

func (s *LedgerService) invalidate() {
	for _, c := range s.caches {
		c.Invalidate()
	}
}

// publish never fails the write that triggered it.
func (s *LedgerService) publish(ctx context.Context, event amqp.EventType, id string) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "Events disabled, skipping publish", "event", event, "id", id)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, event, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			"event", event, "id", id, "error", err)
	}
}

// Transactions

func (s *LedgerService) ListTransactions(ctx context.Context, t core.TransactionType) ([]core.Transaction, error) {
	if t == "" {
		return s.store.ListTransactions(ctx)
	}
	return s.store.ListTransactionsByType(ctx, t)
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *LedgerService) SaveTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := s.store.SaveTransaction(ctx, in)
	if err != nil {
		return tx, err
	}
	s.invalidate()
	s.publish(ctx, amqp.EventCreated, tx.ID)
	return tx, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) (core.Transaction, error) {
	tx, err := s.store.UpdateTransaction(ctx, id, patch)
	if err != nil {
		return tx, err
	}
	s.invalidate()
	s.publish(ctx, amqp.EventUpdated, tx.ID)
	return tx, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	s.publish(ctx, amqp.EventDeleted, id)
	return nil
}

// Payment methods

func (s *LedgerService) ListPaymentMethods(ctx context.Context) ([]core.PaymentMethod, error) {
	return s.store.ListPaymentMethods(ctx)
}

func (s *LedgerService) SavePaymentMethod(ctx context.Context, in core.PaymentMethodInput) (core.PaymentMethod, error) {
	m, err := s.store.SavePaymentMethod(ctx, in)
	if err == nil {
		s.invalidate()
	}
	return m, err
}

func (s *LedgerService) UpdatePaymentMethod(ctx context.Context, id string, patch core.PaymentMethodPatch) (core.PaymentMethod, error) {
	m, err := s.store.UpdatePaymentMethod(ctx, id, patch)
	if err == nil {
		s.invalidate()
	}
	return m, err
}

func (s *LedgerService) DeletePaymentMethod(ctx context.Context, id string) error {
	err := s.store.DeletePaymentMethod(ctx, id)
	if err == nil {
		s.invalidate()
	}
	return err
}

// Reset removes every stored record. Payment methods return to the
// defaults on next use.
func (s *LedgerService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.invalidate()
	s.logger.WarnContext(ctx, "All records removed")
	return nil
}

// Bills

func (s *LedgerService) GetBill(ctx context.Context, id string) (core.Bill, error) {
	return s.store.GetBill(ctx, id)
}

func (s *LedgerService) ListBills(ctx context.Context, status core.BillStatus) ([]core.Bill, error) {
	return s.store.ListBills(ctx, status)
}

func (s *LedgerService) SaveBill(ctx context.Context, in core.BillInput) (core.Bill, error) {
	b, err := s.store.SaveBill(ctx, in)
	if err == nil {
		s.invalidate()
	}
	return b, err
}

func (s *LedgerService) UpdateBill(ctx context.Context, id string, patch core.BillPatch) (core.Bill, error) {
	b, err := s.store.UpdateBill(ctx, id, patch)
	if err == nil {
		s.invalidate()
	}
	return b, err
}

func (s *LedgerService) PayBill(ctx context.Context, id, methodID string, paidOn core.Date) (core.Bill, error) {
	b, err := s.store.PayBill(ctx, id, methodID, paidOn)
	if err == nil {
		s.invalidate()
	}
	return b, err
}

func (s *LedgerService) DeleteBill(ctx context.Context, id string) error {
	err := s.store.DeleteBill(ctx, id)
	if err == nil {
		s.invalidate()
	}
	return err
}

// Receivables

func (s *LedgerService) GetReceivable(ctx context.Context, id string) (core.Receivable, error) {
	return s.store.GetReceivable(ctx, id)
}

func (s *LedgerService) ListReceivables(ctx context.Context, status core.ReceivableStatus) ([]core.Receivable, error) {
	return s.store.ListReceivables(ctx, status)
}

func (s *LedgerService) SaveReceivable(ctx context.Context, in core.ReceivableInput) (core.Receivable, error) {
	r, err := s.store.SaveReceivable(ctx, in)
	if err == nil {
		s.invalidate()
	}
	return r, err
}

func (s *LedgerService) UpdateReceivable(ctx context.Context, id string, patch core.ReceivablePatch) (core.Receivable, error) {
	r, err := s.store.UpdateReceivable(ctx, id, patch)
	if err == nil {
		s.invalidate()
	}
	return r, err
}

func (s *LedgerService) AddReceivablePayment(ctx context.Context, id string, in core.PaymentInput) (core.Receivable, error) {
	r, err := s.store.AddReceivablePayment(ctx, id, in)
	if err == nil {
		s.invalidate()
	}
	return r, err
}

func (s *LedgerService) DeleteReceivable(ctx context.Context, id string) error {
	err := s.store.DeleteReceivable(ctx, id)
	if err == nil {
		s.invalidate()
	}
	return err
}

// Customers

// CustomerSummary is a customer with totals over its receivables.
type CustomerSummary struct {
	core.Customer
	core.CustomerStats
}

// ListCustomers returns the registry with each customer's receivable totals.
func (s *LedgerService) ListCustomers(ctx context.Context) ([]CustomerSummary, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.ListReceivables(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]CustomerSummary, 0, len(customers))
	for _, c := range customers {
		out = append(out, CustomerSummary{Customer: c, CustomerStats: core.StatsFor(c.Name, recs)})
	}
	return out, nil
}

func (s *LedgerService) SaveCustomer(ctx context.Context, in core.CustomerInput) (CustomerSummary, error) {
	c, err := s.store.SaveCustomer(ctx, in)
	if err != nil {
		return CustomerSummary{}, err
	}
	recs, err := s.store.ListReceivables(ctx, "")
	if err != nil {
		return CustomerSummary{}, err
	}
	return CustomerSummary{Customer: c, CustomerStats: core.StatsFor(c.Name, recs)}, nil
}
