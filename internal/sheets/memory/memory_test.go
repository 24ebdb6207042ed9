package memory

import (
	"context"
	"testing"

	"lupa/internal/core"
)

func TestExportUpsertsAndRemoves(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := core.Transaction{ID: "a", Description: "first", Amount: core.Money{Cents: 100}}
	b := core.Transaction{ID: "b", Description: "second", Amount: core.Money{Cents: 200}}
	for _, tx := range []core.Transaction{a, b} {
		if err := s.ExportTransaction(ctx, tx, "PIX"); err != nil {
			t.Fatalf("export: %v", err)
		}
	}

	a.Description = "first, edited"
	if err := s.ExportTransaction(ctx, a, "Dinheiro"); err != nil {
		t.Fatalf("re-export: %v", err)
	}
	rows := s.Rows()
	if len(rows) != 2 || rows[0].Description != "first, edited" || rows[0].PaymentMethod != "Dinheiro" {
		t.Fatalf("upsert must replace in place: %+v", rows)
	}

	if err := s.RemoveTransaction(ctx, "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveTransaction(ctx, "a"); err != nil {
		t.Fatalf("removing a missing row must succeed: %v", err)
	}
	rows = s.Rows()
	if len(rows) != 1 || rows[0].ID != "b" {
		t.Fatalf("unexpected rows after remove: %+v", rows)
	}
}
