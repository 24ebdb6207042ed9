package records

import (
	"context"

	"lupa/internal/core"
)

// ListBills returns every bill, or only those with status when it is set.
func (s *Store) ListBills(ctx context.Context, status core.BillStatus) (_ []core.Bill, err error) {
	defer func() { observe("bills", "list", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	bills, _, err := readCollection[core.Bill](ctx, s, BillsKey)
	if err != nil || status == "" {
		return bills, err
	}
	out := make([]core.Bill, 0, len(bills))
	for _, b := range bills {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) SaveBill(ctx context.Context, in core.BillInput) (_ core.Bill, err error) {
	defer func() { observe("bills", "save", err) }()

	b := in.Bill()
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.withRetry(ctx, func() error {
		bills, _, err := readCollection[core.Bill](ctx, s, BillsKey)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		b.ID = s.newID()
		b.CreatedAt = now
		b.UpdatedAt = now
		return writeCollection(ctx, s, BillsKey, append(bills, b))
	})
	if err != nil {
		return core.Bill{}, err
	}
	s.logMutation(ctx, "bill", "create", b.ID)
	return b, nil
}

func (s *Store) UpdateBill(ctx context.Context, id string, patch core.BillPatch) (core.Bill, error) {
	return s.mutateBill(ctx, "update", id, func(b *core.Bill) error {
		patch.Apply(b)
		return b.Validate()
	})
}

// PayBill settles a bill. The fee of methodID is recorded when it resolves;
// an unknown or empty method is stored with no fee. A zero paidOn means today.
func (s *Store) PayBill(ctx context.Context, id, methodID string, paidOn core.Date) (core.Bill, error) {
	if paidOn.IsZero() {
		paidOn = s.Today()
	}
	return s.mutateBill(ctx, "pay", id, func(b *core.Bill) error {
		method := core.PaymentMethod{ID: methodID}
		if methodID != "" {
			methods, err := s.paymentMethodsLocked(ctx)
			if err != nil {
				return err
			}
			if m, ok := core.FindPaymentMethod(methods, methodID); ok {
				method = m
			}
		}
		return b.MarkPaid(method, paidOn)
	})
}

func (s *Store) DeleteBill(ctx context.Context, id string) (err error) {
	defer func() { observe("bills", "delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	err = s.withRetry(ctx, func() error {
		bills, _, err := readCollection[core.Bill](ctx, s, BillsKey)
		if err != nil {
			return err
		}
		var kept []core.Bill
		kept, removed = without(bills, func(b core.Bill) bool { return b.ID == id })
		return writeCollection(ctx, s, BillsKey, kept)
	})
	if err != nil {
		return err
	}
	if removed {
		s.logMutation(ctx, "bill", "delete", id)
	}
	return nil
}

// RefreshOverdueBills marks pending bills due before today as overdue and
// returns how many changed. Nothing is written when none did.
func (s *Store) RefreshOverdueBills(ctx context.Context, today core.Date) (_ int, err error) {
	defer func() { observe("bills", "refresh_overdue", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int
	err = s.withRetry(ctx, func() error {
		bills, _, err := readCollection[core.Bill](ctx, s, BillsKey)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		changed = 0
		for i := range bills {
			if bills[i].Status == core.BillPending && bills[i].IsOverdue(today) {
				bills[i].Status = core.BillOverdue
				bills[i].UpdatedAt = now
				changed++
			}
		}
		if changed == 0 {
			return nil
		}
		return writeCollection(ctx, s, BillsKey, bills)
	})
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.logger.InfoContext(ctx, "Bills marked overdue", "count", changed)
	}
	return changed, nil
}

// GetBill returns the bill with id.
func (s *Store) GetBill(ctx context.Context, id string) (core.Bill, error) {
	bills, err := s.ListBills(ctx, "")
	if err != nil {
		return core.Bill{}, err
	}
	for _, b := range bills {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Bill{}, &core.NotFoundError{Kind: "bill", ID: id}
}

func (s *Store) mutateBill(ctx context.Context, op, id string, fn func(*core.Bill) error) (_ core.Bill, err error) {
	defer func() { observe("bills", op, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var b core.Bill
	err = s.withRetry(ctx, func() error {
		bills, _, err := readCollection[core.Bill](ctx, s, BillsKey)
		if err != nil {
			return err
		}
		idx := indexOf(bills, func(b core.Bill) bool { return b.ID == id })
		if idx < 0 {
			return &core.NotFoundError{Kind: "bill", ID: id}
		}
		b = bills[idx]
		if err := fn(&b); err != nil {
			return err
		}
		b.UpdatedAt = s.now().UTC()
		bills[idx] = b
		return writeCollection(ctx, s, BillsKey, bills)
	})
	if err != nil {
		return core.Bill{}, err
	}
	s.logMutation(ctx, "bill", "update", id)
	return b, nil
}
