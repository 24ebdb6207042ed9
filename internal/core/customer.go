package core

import (
	"strings"
	"time"
)

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
	CustomerBlocked  CustomerStatus = "blocked"
)

type (
	CustomerStatus string

	// Customer is someone receivables are owed by. Receivables reference a
	// customer by name, compared case-insensitively.
	Customer struct {
		ID          string         `json:"id"`
		Name        string         `json:"name"`
		Phone       string         `json:"phone,omitempty"`
		Email       string         `json:"email,omitempty"`
		Address     string         `json:"address,omitempty"`
		Document    string         `json:"document,omitempty"`
		Status      CustomerStatus `json:"status"`
		CreditLimit Money          `json:"credit_limit"`
		Notes       string         `json:"notes,omitempty"`
		Tags        []string       `json:"tags"`
		CreatedAt   time.Time      `json:"created_at"`
		UpdatedAt   time.Time      `json:"updated_at"`
	}

	CustomerInput struct {
		Name        string
		Phone       string
		Email       string
		Address     string
		Document    string
		CreditLimit Money
		Notes       string
		Tags        []string
	}

	// CustomerStats totals one customer's receivables. Cancelled ones do
	// not count as pending.
	CustomerStats struct {
		TotalPurchases Money `json:"total_purchases"`
		TotalPaid      Money `json:"total_paid"`
		TotalPending   Money `json:"total_pending"`
		Receivables    int   `json:"receivables"`
	}
)

func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerActive, CustomerInactive, CustomerBlocked:
		return true
	}
	return false
}

func (in CustomerInput) Customer() Customer {
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return Customer{
		Name:        strings.TrimSpace(in.Name),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Address:     strings.TrimSpace(in.Address),
		Document:    strings.TrimSpace(in.Document),
		Status:      CustomerActive,
		CreditLimit: in.CreditLimit,
		Notes:       strings.TrimSpace(in.Notes),
		Tags:        tags,
	}
}

func (c Customer) Validate() error {
	if c.Name == "" {
		return Invalid("name", ErrEmptyName)
	}
	if c.CreditLimit.Cents < 0 {
		return Invalid("credit_limit", ErrInvalidAmount)
	}
	if !c.Status.Valid() {
		return Invalid("status", ErrInvalidStatus)
	}
	return nil
}

// SameCustomer reports whether two customer names refer to the same person.
func SameCustomer(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// MergeContact copies the receivable's non-empty contact fields into c and
// reports whether anything changed. Blank fields never erase stored ones.
func (c *Customer) MergeContact(r Receivable) bool {
	changed := false
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&c.Phone, r.CustomerPhone},
		{&c.Email, r.CustomerEmail},
		{&c.Document, r.CustomerDocument},
	} {
		if f.src != "" && *f.dst != f.src {
			*f.dst = f.src
			changed = true
		}
	}
	return changed
}

// StatsFor totals the receivables that belong to name.
func StatsFor(name string, recs []Receivable) CustomerStats {
	var st CustomerStats
	for _, r := range recs {
		if !SameCustomer(r.CustomerName, name) {
			continue
		}
		st.Receivables++
		st.TotalPurchases = st.TotalPurchases.Add(r.OriginalAmount)
		st.TotalPaid = st.TotalPaid.Add(r.PaidAmount)
		if r.Status != ReceivableCancelled {
			st.TotalPending = st.TotalPending.Add(r.RemainingAmount)
		}
	}
	return st
}
