package records

import (
	"context"

	"lupa/internal/core"
)

func (s *Store) ListCustomers(ctx context.Context) (_ []core.Customer, err error) {
	defer func() { observe("customers", "list", err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	customers, _, err := readCollection[core.Customer](ctx, s, CustomersKey)
	return customers, err
}

// SaveCustomer registers a customer. Names are unique ignoring case.
func (s *Store) SaveCustomer(ctx context.Context, in core.CustomerInput) (_ core.Customer, err error) {
	defer func() { observe("customers", "save", err) }()

	c := in.Customer()
	if err := c.Validate(); err != nil {
		return core.Customer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.withRetry(ctx, func() error {
		customers, _, err := readCollection[core.Customer](ctx, s, CustomersKey)
		if err != nil {
			return err
		}
		if indexOf(customers, func(o core.Customer) bool { return core.SameCustomer(o.Name, c.Name) }) >= 0 {
			return core.Invalid("name", core.ErrDuplicateCustomer)
		}
		now := s.now().UTC()
		c.ID = s.newID()
		c.CreatedAt = now
		c.UpdatedAt = now
		return writeCollection(ctx, s, CustomersKey, append(customers, c))
	})
	if err != nil {
		return core.Customer{}, err
	}
	s.logMutation(ctx, "customer", "create", c.ID)
	return c, nil
}

// recordCustomerLocked creates the receivable's customer or fills in its
// contact fields. The receivable is already stored, so a failure here is
// logged and not returned. Caller holds mu.
func (s *Store) recordCustomerLocked(ctx context.Context, r core.Receivable) {
	var created string
	err := s.withRetry(ctx, func() error {
		customers, _, err := readCollection[core.Customer](ctx, s, CustomersKey)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		created = ""
		idx := indexOf(customers, func(c core.Customer) bool { return core.SameCustomer(c.Name, r.CustomerName) })
		switch {
		case idx < 0:
			c := core.Customer{
				ID:        s.newID(),
				Name:      r.CustomerName,
				Status:    core.CustomerActive,
				Tags:      []string{},
				CreatedAt: now,
				UpdatedAt: now,
			}
			c.MergeContact(r)
			customers = append(customers, c)
			created = c.ID
		case customers[idx].MergeContact(r):
			customers[idx].UpdatedAt = now
		default:
			return nil
		}
		return writeCollection(ctx, s, CustomersKey, customers)
	})
	if err != nil {
		observe("customers", "record", err)
		s.logger.WarnContext(ctx, "Failed to update customer registry",
			"customer", r.CustomerName, "receivable", r.ID, "error", err)
		return
	}
	if created != "" {
		s.logMutation(ctx, "customer", "create", created)
	}
}
