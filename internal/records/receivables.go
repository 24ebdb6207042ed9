package records

import (
	"context"
	"strings"

	"lupa/internal/core"
)

// ListReceivables returns every receivable, or only those with status when
// it is set.
func (s *Store) ListReceivables(ctx context.Context, status core.ReceivableStatus) (_ []core.Receivable, err error) {
	defer func() { observe("receivables", "list", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, _, err := readCollection[core.Receivable](ctx, s, ReceivablesKey)
	if err != nil || status == "" {
		return recs, err
	}
	out := make([]core.Receivable, 0, len(recs))
	for _, r := range recs {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaveReceivable starts the receivable with its whole amount outstanding.
// IssueDate defaults to today. The customer registry is updated from the
// receivable's contact fields.
func (s *Store) SaveReceivable(ctx context.Context, in core.ReceivableInput) (_ core.Receivable, err error) {
	defer func() { observe("receivables", "save", err) }()

	today := s.Today()
	r := in.Receivable()
	if r.IssueDate.IsZero() {
		r.IssueDate = today
	}
	if err := r.Validate(); err != nil {
		return core.Receivable{}, err
	}
	r.UpdateRemaining(today)

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.withRetry(ctx, func() error {
		recs, _, err := readCollection[core.Receivable](ctx, s, ReceivablesKey)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		r.ID = s.newID()
		r.CreatedAt = now
		r.UpdatedAt = now
		return writeCollection(ctx, s, ReceivablesKey, append(recs, r))
	})
	if err != nil {
		return core.Receivable{}, err
	}
	s.logMutation(ctx, "receivable", "create", r.ID)
	s.recordCustomerLocked(ctx, r)
	return r, nil
}

// UpdateReceivable applies patch. A changed customer name or contact is
// carried into the customer registry.
func (s *Store) UpdateReceivable(ctx context.Context, id string, patch core.ReceivablePatch) (core.Receivable, error) {
	today := s.Today()
	r, err := s.mutateReceivable(ctx, "update", id, func(r *core.Receivable) error {
		patch.Apply(r, today)
		return r.Validate()
	})
	if err != nil {
		return r, err
	}
	if patch.CustomerName != nil || patch.CustomerPhone != nil || patch.CustomerEmail != nil || patch.CustomerDocument != nil {
		s.mu.Lock()
		s.recordCustomerLocked(ctx, r)
		s.mu.Unlock()
	}
	return r, nil
}

// AddReceivablePayment appends a payment and recomputes the balance and
// status. A zero payment date means today.
func (s *Store) AddReceivablePayment(ctx context.Context, id string, in core.PaymentInput) (core.Receivable, error) {
	today := s.Today()
	return s.mutateReceivable(ctx, "add_payment", id, func(r *core.Receivable) error {
		p := core.ReceivablePayment{
			ID:            s.newUID(),
			Amount:        in.Amount,
			PaymentMethod: strings.TrimSpace(in.PaymentMethod),
			PaymentDate:   in.PaymentDate,
			Notes:         strings.TrimSpace(in.Notes),
			ReceiptNumber: strings.TrimSpace(in.ReceiptNumber),
			CreatedAt:     s.now().UTC(),
		}
		return r.AddPayment(p, today)
	})
}

// GetReceivable returns the receivable with id.
func (s *Store) GetReceivable(ctx context.Context, id string) (core.Receivable, error) {
	recs, err := s.ListReceivables(ctx, "")
	if err != nil {
		return core.Receivable{}, err
	}
	for _, r := range recs {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Receivable{}, &core.NotFoundError{Kind: "receivable", ID: id}
}

func (s *Store) DeleteReceivable(ctx context.Context, id string) (err error) {
	defer func() { observe("receivables", "delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	err = s.withRetry(ctx, func() error {
		recs, _, err := readCollection[core.Receivable](ctx, s, ReceivablesKey)
		if err != nil {
			return err
		}
		var kept []core.Receivable
		kept, removed = without(recs, func(r core.Receivable) bool { return r.ID == id })
		return writeCollection(ctx, s, ReceivablesKey, kept)
	})
	if err != nil {
		return err
	}
	if removed {
		s.logMutation(ctx, "receivable", "delete", id)
	}
	return nil
}

// RefreshOverdueReceivables marks pending receivables due before today as
// overdue. Partially paid ones keep the partial status.
func (s *Store) RefreshOverdueReceivables(ctx context.Context, today core.Date) (_ int, err error) {
	defer func() { observe("receivables", "refresh_overdue", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int
	err = s.withRetry(ctx, func() error {
		recs, _, err := readCollection[core.Receivable](ctx, s, ReceivablesKey)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		changed = 0
		for i := range recs {
			if recs[i].Status == core.ReceivablePending && recs[i].IsOverdue(today) {
				recs[i].Status = core.ReceivableOverdue
				recs[i].UpdatedAt = now
				changed++
			}
		}
		if changed == 0 {
			return nil
		}
		return writeCollection(ctx, s, ReceivablesKey, recs)
	})
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.logger.InfoContext(ctx, "Receivables marked overdue", "count", changed)
	}
	return changed, nil
}

func (s *Store) mutateReceivable(ctx context.Context, op, id string, fn func(*core.Receivable) error) (_ core.Receivable, err error) {
	defer func() { observe("receivables", op, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var r core.Receivable
	err = s.withRetry(ctx, func() error {
		recs, _, err := readCollection[core.Receivable](ctx, s, ReceivablesKey)
		if err != nil {
			return err
		}
		idx := indexOf(recs, func(r core.Receivable) bool { return r.ID == id })
		if idx < 0 {
			return &core.NotFoundError{Kind: "receivable", ID: id}
		}
		r = recs[idx]
		// Payments is shared with recs[idx]; copy before fn may append.
		payments := make([]core.ReceivablePayment, len(r.Payments), len(r.Payments)+1)
		copy(payments, r.Payments)
		r.Payments = payments
		if err := fn(&r); err != nil {
			return err
		}
		r.UpdatedAt = s.now().UTC()
		recs[idx] = r
		return writeCollection(ctx, s, ReceivablesKey, recs)
	})
	if err != nil {
		return core.Receivable{}, err
	}
	s.logMutation(ctx, "receivable", "update", id)
	return r, nil
}
