package records

import (
	"context"
	"strings"

	"lupa/internal/core"
)

// ListPaymentMethods returns methods in insertion order. On first use the
// defaults are written so later reads see the same ids.
func (s *Store) ListPaymentMethods(ctx context.Context) (_ []core.PaymentMethod, err error) {
	defer func() { observe("payment_methods", "list", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()

	var methods []core.PaymentMethod
	err = s.withRetry(ctx, func() (err error) {
		methods, err = s.paymentMethodsLocked(ctx)
		return err
	})
	return methods, err
}

func (s *Store) paymentMethodsLocked(ctx context.Context) ([]core.PaymentMethod, error) {
	methods, state, err := readCollection[core.PaymentMethod](ctx, s, PaymentMethodsKey)
	if err != nil {
		return nil, err
	}
	switch state {
	case stateAbsent:
		methods = core.DefaultPaymentMethods()
		if err := writeCollection(ctx, s, PaymentMethodsKey, methods); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Seeded default payment methods", "count", len(methods))
	case stateCorrupt:
		// not persisted: the stored value stays for inspection
		methods = core.DefaultPaymentMethods()
	}
	return methods, nil
}

func (s *Store) SavePaymentMethod(ctx context.Context, in core.PaymentMethodInput) (_ core.PaymentMethod, err error) {
	defer func() { observe("payment_methods", "save", err) }()

	m := core.PaymentMethod{Name: strings.TrimSpace(in.Name), Fee: in.Fee}
	if err := m.Validate(); err != nil {
		return core.PaymentMethod{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.withRetry(ctx, func() error {
		methods, err := s.paymentMethodsLocked(ctx)
		if err != nil {
			return err
		}
		m.ID = s.newID()
		return writeCollection(ctx, s, PaymentMethodsKey, append(methods, m))
	})
	if err != nil {
		return core.PaymentMethod{}, err
	}
	s.logMutation(ctx, "payment_method", "create", m.ID)
	return m, nil
}

// UpdatePaymentMethod never touches transactions: their fees are snapshots.
func (s *Store) UpdatePaymentMethod(ctx context.Context, id string, patch core.PaymentMethodPatch) (_ core.PaymentMethod, err error) {
	defer func() { observe("payment_methods", "update", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var m core.PaymentMethod
	err = s.withRetry(ctx, func() error {
		methods, err := s.paymentMethodsLocked(ctx)
		if err != nil {
			return err
		}
		idx := indexOf(methods, func(m core.PaymentMethod) bool { return m.ID == id })
		if idx < 0 {
			return &core.NotFoundError{Kind: "payment method", ID: id}
		}
		m = methods[idx]
		patch.Apply(&m)
		if err := m.Validate(); err != nil {
			return err
		}
		methods[idx] = m
		return writeCollection(ctx, s, PaymentMethodsKey, methods)
	})
	if err != nil {
		return core.PaymentMethod{}, err
	}
	s.logMutation(ctx, "payment_method", "update", id)
	return m, nil
}

// DeletePaymentMethod does not cascade. Transactions that reference id keep
// their fee snapshot and resolve to "Unknown" in aggregates.
func (s *Store) DeletePaymentMethod(ctx context.Context, id string) (err error) {
	defer func() { observe("payment_methods", "delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed bool
	err = s.withRetry(ctx, func() error {
		methods, err := s.paymentMethodsLocked(ctx)
		if err != nil {
			return err
		}
		var kept []core.PaymentMethod
		kept, removed = without(methods, func(m core.PaymentMethod) bool { return m.ID == id })
		return writeCollection(ctx, s, PaymentMethodsKey, kept)
	})
	if err != nil {
		return err
	}
	if removed {
		s.logMutation(ctx, "payment_method", "delete", id)
	}
	return nil
}
