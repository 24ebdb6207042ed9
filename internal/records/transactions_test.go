package records

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"lupa/internal/core"
)

func TestSaveTransactionSnapshotsFee(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	tx, err := s.SaveTransaction(ctx, incomeInput(100000, "Vendas", "4"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if tx.CardFee.Cents != 3500 || tx.NetAmount.Cents != 96500 {
		t.Fatalf("fee/net = %d/%d, want 3500/96500", tx.CardFee.Cents, tx.NetAmount.Cents)
	}
	if tx.Amount.Sub(tx.CardFee) != tx.NetAmount {
		t.Fatalf("net must equal amount - fee")
	}
	if tx.ID == "" || tx.CreatedAt.IsZero() || !tx.CreatedAt.Equal(tx.UpdatedAt) {
		t.Fatalf("id and timestamps not assigned: %+v", tx)
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || !reflect.DeepEqual(txs[0], tx) {
		t.Fatalf("listed %+v, want [%+v]", txs, tx)
	}
}

func TestSaveTransactionValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		edit  func(*core.TransactionInput)
		field string
		err   error
	}{
		{"zero amount", func(in *core.TransactionInput) { in.Amount = core.Money{} }, "amount", core.ErrInvalidAmount},
		{"empty description", func(in *core.TransactionInput) { in.Description = "  " }, "description", core.ErrEmptyDescription},
		{"empty category", func(in *core.TransactionInput) { in.Category = "" }, "category", core.ErrEmptyCategory},
		{"category of other type", func(in *core.TransactionInput) { in.Category = "Marketing" }, "category", core.ErrUnknownCategory},
		{"missing method", func(in *core.TransactionInput) { in.PaymentMethod = "" }, "payment_method", core.ErrMissingPaymentMethod},
		{"unknown method", func(in *core.TransactionInput) { in.PaymentMethod = "99" }, "payment_method", core.ErrUnknownPaymentMethod},
		{"missing date", func(in *core.TransactionInput) { in.Date = core.Date{} }, "date", core.ErrMissingDate},
		{"bad type", func(in *core.TransactionInput) { in.Type = "transfer" }, "type", core.ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv := newTestStore(t)
			in := incomeInput(1000, "Vendas", "1")
			tt.edit(&in)

			_, err := s.SaveTransaction(ctx, in)
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Field != tt.field || !errors.Is(err, tt.err) {
				t.Fatalf("got field %q err %v, want %q %v", verr.Field, verr.Err, tt.field, tt.err)
			}
			if _, ok, _ := kv.Get(ctx, TransactionsKey); ok {
				t.Fatalf("nothing must be written on validation failure")
			}
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	orig, err := s.SaveTransaction(ctx, incomeInput(100000, "Vendas", "4"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// The method fee changes after the save.
	newFee := 5.0
	if _, err := s.UpdatePaymentMethod(ctx, "4", core.PaymentMethodPatch{Fee: &newFee}); err != nil {
		t.Fatalf("update method: %v", err)
	}

	t.Run("not found", func(t *testing.T) {
		desc := "x"
		_, err := s.UpdateTransaction(ctx, "nope", core.TransactionPatch{Description: &desc})
		if !core.IsNotFound(err) {
			t.Fatalf("want NotFoundError, got %v", err)
		}
	})

	t.Run("unrelated field keeps snapshot", func(t *testing.T) {
		desc := "Venda atacado"
		got, err := s.UpdateTransaction(ctx, orig.ID, core.TransactionPatch{Description: &desc})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got.Description != desc || got.CardFee.Cents != 3500 || got.NetAmount.Cents != 96500 {
			t.Fatalf("unexpected record %+v", got)
		}
		if got.ID != orig.ID || !got.CreatedAt.Equal(orig.CreatedAt) || !got.UpdatedAt.After(orig.UpdatedAt) {
			t.Fatalf("id/created_at must be kept and updated_at advanced: %+v", got)
		}
	})

	t.Run("amount change recomputes with current fee", func(t *testing.T) {
		amount := core.Money{Cents: 200000}
		got, err := s.UpdateTransaction(ctx, orig.ID, core.TransactionPatch{Amount: &amount})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got.CardFee.Cents != 10000 || got.NetAmount.Cents != 190000 {
			t.Fatalf("fee/net = %d/%d, want 10000/190000", got.CardFee.Cents, got.NetAmount.Cents)
		}
	})

	t.Run("method change recomputes", func(t *testing.T) {
		pm := "1"
		got, err := s.UpdateTransaction(ctx, orig.ID, core.TransactionPatch{PaymentMethod: &pm})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got.CardFee.Cents != 0 || got.NetAmount != got.Amount {
			t.Fatalf("PIX must carry no fee: %+v", got)
		}
	})

	t.Run("unresolvable method is rejected", func(t *testing.T) {
		pm := "ghost"
		_, err := s.UpdateTransaction(ctx, orig.ID, core.TransactionPatch{PaymentMethod: &pm})
		if !core.IsValidation(err) || !errors.Is(err, core.ErrUnknownPaymentMethod) {
			t.Fatalf("want unknown method validation error, got %v", err)
		}
		stored, _ := s.GetTransaction(ctx, orig.ID)
		if stored.PaymentMethod != "1" {
			t.Fatalf("rejected update must not persist, method is %q", stored.PaymentMethod)
		}
	})

	t.Run("invalid merge is rejected", func(t *testing.T) {
		cat := "Energia"
		_, err := s.UpdateTransaction(ctx, orig.ID, core.TransactionPatch{Category: &cat})
		if !errors.Is(err, core.ErrUnknownCategory) {
			t.Fatalf("income cannot take an expense category, got %v", err)
		}
	})
}

func TestDeleteTransactionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	a, _ := s.SaveTransaction(ctx, incomeInput(1000, "Vendas", "1"))
	b, _ := s.SaveTransaction(ctx, incomeInput(2000, "Serviços", "2"))

	for i := 0; i < 2; i++ {
		if err := s.DeleteTransaction(ctx, a.ID); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
	txs, _ := s.ListTransactions(ctx)
	if len(txs) != 1 || txs[0].ID != b.ID {
		t.Fatalf("unexpected remaining records %+v", txs)
	}
}

func TestListTransactionsByTypeKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	expense := core.TransactionInput{
		Type: core.Expense, Amount: core.Money{Cents: 5000}, Description: "Conta de luz",
		Category: "Energia", PaymentMethod: "5", Date: core.NewDate(2024, 3, 1),
	}
	first, _ := s.SaveTransaction(ctx, incomeInput(1000, "Vendas", "1"))
	if _, err := s.SaveTransaction(ctx, expense); err != nil {
		t.Fatalf("save expense: %v", err)
	}
	second, _ := s.SaveTransaction(ctx, incomeInput(3000, "Juros", "2"))

	income, err := s.ListTransactionsByType(ctx, core.Income)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(income) != 2 || income[0].ID != first.ID || income[1].ID != second.ID {
		t.Fatalf("unexpected income list %+v", income)
	}
	if first.ID >= second.ID {
		t.Fatalf("ids must sort by creation: %s >= %s", first.ID, second.ID)
	}
}

func TestCorruptTransactionsReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	kv.Set(ctx, TransactionsKey, `{"not": "an array"`)

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("corrupt data must not fail: %v", err)
	}
	if txs == nil || len(txs) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", txs)
	}

	if _, err := s.SaveTransaction(ctx, incomeInput(1000, "Vendas", "1")); err != nil {
		t.Fatalf("save over corrupt data: %v", err)
	}
	txs, _ = s.ListTransactions(ctx)
	if len(txs) != 1 {
		t.Fatalf("want 1 record, got %d", len(txs))
	}
}

func TestTransactionsRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	in := incomeInput(123456, "Comissões", "3")
	in.Notes = "parcelado"
	for i := 0; i < 3; i++ {
		if _, err := s.SaveTransaction(ctx, in); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	want, _ := s.ListTransactions(ctx)

	reopened := New(kv, WithLogger(quietLogger()))
	got, err := reopened.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestDeleteUnknownTransactionRewritesCollection(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	kv.Set(ctx, TransactionsKey, `{"not": "an array"`)

	if err := s.DeleteTransaction(ctx, "missing"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	raw, ok, _ := kv.Get(ctx, TransactionsKey)
	if !ok || raw != "[]" {
		t.Fatalf("want the collection rewritten as [], got %q (present=%v)", raw, ok)
	}
}
