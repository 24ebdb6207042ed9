package records

import (
	"context"
	"errors"
	"testing"

	"lupa/internal/core"
)

func TestReceivablesRegisterCustomers(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.SaveReceivable(ctx, receivableInput()); err != nil {
		t.Fatalf("save: %v", err)
	}
	customers, err := s.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(customers) != 1 || customers[0].Name != "Dona Maria" || customers[0].Status != core.CustomerActive {
		t.Fatalf("unexpected customers %+v", customers)
	}
	first := customers[0]

	again := receivableInput()
	again.CustomerName = "  dona maria "
	again.CustomerPhone = "(31) 99999-0000"
	r, err := s.SaveReceivable(ctx, again)
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	customers, _ = s.ListCustomers(ctx)
	if len(customers) != 1 {
		t.Fatalf("same name must not create a second customer: %+v", customers)
	}
	if customers[0].ID != first.ID || customers[0].Phone != "(31) 99999-0000" {
		t.Fatalf("contact not merged: %+v", customers[0])
	}

	blank := ""
	if _, err := s.UpdateReceivable(ctx, r.ID, core.ReceivablePatch{CustomerPhone: &blank}); err != nil {
		t.Fatalf("update: %v", err)
	}
	customers, _ = s.ListCustomers(ctx)
	if customers[0].Phone != "(31) 99999-0000" {
		t.Fatalf("blank contact must not erase the registry: %+v", customers[0])
	}

	renamed := "Seu João"
	if _, err := s.UpdateReceivable(ctx, r.ID, core.ReceivablePatch{CustomerName: &renamed}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	customers, _ = s.ListCustomers(ctx)
	if len(customers) != 2 || customers[1].Name != renamed {
		t.Fatalf("renamed customer not registered: %+v", customers)
	}
}

func TestSaveCustomer(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	tests := []struct {
		name  string
		in    core.CustomerInput
		field string
		err   error
	}{
		{"ok", core.CustomerInput{Name: "Padaria Central", CreditLimit: core.Money{Cents: 50000}, Tags: []string{" atacado ", ""}}, "", nil},
		{"empty name", core.CustomerInput{Name: "  "}, "name", core.ErrEmptyName},
		{"negative limit", core.CustomerInput{Name: "Bar do Zé", CreditLimit: core.Money{Cents: -1}}, "credit_limit", core.ErrInvalidAmount},
		{"duplicate", core.CustomerInput{Name: "padaria central"}, "name", core.ErrDuplicateCustomer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := s.SaveCustomer(ctx, tt.in)
			if tt.err == nil {
				if err != nil {
					t.Fatalf("save: %v", err)
				}
				if c.ID == "" || len(c.Tags) != 1 || c.Tags[0] != "atacado" {
					t.Fatalf("unexpected customer %+v", c)
				}
				return
			}
			var verr *core.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field || !errors.Is(err, tt.err) {
				t.Fatalf("want %s: %v, got %v", tt.field, tt.err, err)
			}
		})
	}

	customers, _ := s.ListCustomers(ctx)
	if len(customers) != 1 {
		t.Fatalf("failed saves must not be stored: %+v", customers)
	}
}

func TestGetReceivable(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	r, err := s.SaveReceivable(ctx, receivableInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetReceivable(ctx, r.ID)
	if err != nil || got.ID != r.ID {
		t.Fatalf("get: %+v (err=%v)", got, err)
	}
	if _, err := s.GetReceivable(ctx, "missing"); !core.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}
