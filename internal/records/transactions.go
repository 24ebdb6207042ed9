package records

import (
	"context"

	"lupa/internal/core"
)

func (s *Store) ListTransactions(ctx context.Context) (_ []core.Transaction, err error) {
	defer func() { observe("transactions", "list", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, _, err := readCollection[core.Transaction](ctx, s, TransactionsKey)
	return txs, err
}

// ListTransactionsByType keeps stored order.
func (s *Store) ListTransactionsByType(ctx context.Context, t core.TransactionType) ([]core.Transaction, error) {
	all, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.Type == t {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	all, err := s.ListTransactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, tx := range all {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, &core.NotFoundError{Kind: "transaction", ID: id}
}

// SaveTransaction validates the input, snapshots the fee of its payment
// method and appends the record.
func (s *Store) SaveTransaction(ctx context.Context, in core.TransactionInput) (_ core.Transaction, err error) {
	defer func() { observe("transactions", "save", err) }()

	tx := in.Transaction()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.withRetry(ctx, func() error {
		methods, err := s.paymentMethodsLocked(ctx)
		if err != nil {
			return err
		}
		method, ok := core.FindPaymentMethod(methods, tx.PaymentMethod)
		if !ok {
			return core.Invalid("payment_method", core.ErrUnknownPaymentMethod)
		}
		tx.ApplyFee(method)

		txs, _, err := readCollection[core.Transaction](ctx, s, TransactionsKey)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		tx.ID = s.newID()
		tx.CreatedAt = now
		tx.UpdatedAt = now
		return writeCollection(ctx, s, TransactionsKey, append(txs, tx))
	})
	if err != nil {
		return core.Transaction{}, err
	}
	s.logMutation(ctx, "transaction", "create", tx.ID)
	return tx, nil
}

// UpdateTransaction merges patch into the stored record. The fee is only
// recomputed when the amount or the payment method changes.
func (s *Store) UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) (_ core.Transaction, err error) {
	defer func() { observe("transactions", "update", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var tx core.Transaction
	err = s.withRetry(ctx, func() error {
		txs, _, err := readCollection[core.Transaction](ctx, s, TransactionsKey)
		if err != nil {
			return err
		}
		idx := indexOf(txs, func(t core.Transaction) bool { return t.ID == id })
		if idx < 0 {
			return &core.NotFoundError{Kind: "transaction", ID: id}
		}

		tx = txs[idx]
		feeChanged := patch.Apply(&tx)
		if err := tx.Validate(); err != nil {
			return err
		}
		if feeChanged {
			methods, err := s.paymentMethodsLocked(ctx)
			if err != nil {
				return err
			}
			method, ok := core.FindPaymentMethod(methods, tx.PaymentMethod)
			if !ok {
				return core.Invalid("payment_method", core.ErrUnknownPaymentMethod)
			}
			tx.ApplyFee(method)
		}
		tx.UpdatedAt = s.now().UTC()
		txs[idx] = tx
		return writeCollection(ctx, s, TransactionsKey, txs)
	})
	if err != nil {
		return core.Transaction{}, err
	}
	s.logMutation(ctx, "transaction", "update", id)
	return tx, nil
}

// DeleteTransaction is a no-op for unknown ids, apart from rewriting the
// collection as it was read. A corrupt value is thereby replaced by [].
func (s *Store) DeleteTransaction(ctx context.Context, id string) (err error) {
	defer func() { observe("transactions", "delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	err = s.withRetry(ctx, func() error {
		txs, _, err := readCollection[core.Transaction](ctx, s, TransactionsKey)
		if err != nil {
			return err
		}
		var kept []core.Transaction
		kept, removed = without(txs, func(t core.Transaction) bool { return t.ID == id })
		return writeCollection(ctx, s, TransactionsKey, kept)
	})
	if err != nil {
		return err
	}
	if removed {
		s.logMutation(ctx, "transaction", "delete", id)
	}
	return nil
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

func without[T any](items []T, match func(T) bool) ([]T, bool) {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out, len(out) != len(items)
}
