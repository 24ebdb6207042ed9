package core

import (
	"errors"
	"testing"
)

func newReceivable() Receivable {
	return ReceivableInput{
		CustomerName:   "Maria",
		Type:           Fiado,
		OriginalAmount: Money{Cents: 30000},
		InterestRate:   3,
		LateFee:        Money{Cents: 500},
		IssueDate:      NewDate(2024, 4, 1),
		DueDate:        NewDate(2024, 4, 30),
	}.Receivable()
}

func TestReceivableInputDefaults(t *testing.T) {
	r := newReceivable()
	if r.RemainingAmount.Cents != 30000 || r.Status != ReceivablePending || r.Payments == nil {
		t.Fatalf("unexpected defaults: %+v", r)
	}
	r2 := ReceivableInput{CustomerName: "João", OriginalAmount: Money{Cents: 1}, DueDate: NewDate(2024, 1, 1)}.Receivable()
	if r2.Type != OtherReceipt {
		t.Fatalf("empty type defaults to other, got %s", r2.Type)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("expected valid receivable, got %v", err)
	}
}

func TestReceivableAddPayment(t *testing.T) {
	today := NewDate(2024, 4, 15)
	r := newReceivable()

	if err := r.AddPayment(ReceivablePayment{Amount: Money{Cents: 10000}, PaymentMethod: "PIX"}, today); err != nil {
		t.Fatalf("partial payment: %v", err)
	}
	if r.Status != ReceivablePartial || r.PaidAmount.Cents != 10000 || r.RemainingAmount.Cents != 20000 {
		t.Fatalf("after partial: %+v", r)
	}
	if !r.LastPaymentDate.Equal(today.Time) {
		t.Fatalf("last payment date not set")
	}

	err := r.AddPayment(ReceivablePayment{Amount: Money{Cents: 20001}, PaymentMethod: "PIX"}, today)
	if !errors.Is(err, ErrPaymentExceedsBalance) {
		t.Fatalf("expected ErrPaymentExceedsBalance, got %v", err)
	}
	if err := r.AddPayment(ReceivablePayment{Amount: Money{}, PaymentMethod: "PIX"}, today); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if err := r.AddPayment(ReceivablePayment{Amount: Money{Cents: 20000}, PaymentMethod: "Dinheiro"}, today); err != nil {
		t.Fatalf("final payment: %v", err)
	}
	if r.Status != ReceivablePaid || r.RemainingAmount.Cents != 0 || len(r.Payments) != 2 {
		t.Fatalf("after full payment: %+v", r)
	}
	if err := r.AddPayment(ReceivablePayment{Amount: Money{Cents: 1}, PaymentMethod: "PIX"}, today); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestReceivableTotalWithFees(t *testing.T) {
	r := newReceivable()
	// Not overdue: remaining + late fee.
	if got := r.TotalWithFees(NewDate(2024, 4, 20)); got.Cents != 30500 {
		t.Fatalf("before due: got %d", got.Cents)
	}
	// 10 days overdue at 3% a month: 300 * 0.001 * 10 = 3.00 interest.
	if got := r.TotalWithFees(NewDate(2024, 5, 10)); got.Cents != 30800 {
		t.Fatalf("overdue: got %d", got.Cents)
	}
	if got := r.DaysOverdue(NewDate(2024, 5, 10)); got != 10 {
		t.Fatalf("days overdue: got %d", got)
	}
}

func TestReceivableUpdateRemainingOverdue(t *testing.T) {
	r := newReceivable()
	r.UpdateRemaining(NewDate(2024, 5, 1))
	if r.Status != ReceivableOverdue {
		t.Fatalf("expected overdue, got %s", r.Status)
	}
	r.UpdateRemaining(NewDate(2024, 4, 30))
	if r.Status != ReceivablePending {
		t.Fatalf("due today is still pending, got %s", r.Status)
	}
}

func TestReceivablePatchCancel(t *testing.T) {
	r := newReceivable()
	cancelled := ReceivableCancelled
	ReceivablePatch{Status: &cancelled}.Apply(&r, NewDate(2024, 4, 1))
	if r.Status != ReceivableCancelled {
		t.Fatalf("expected cancelled, got %s", r.Status)
	}
	if r.IsOverdue(NewDate(2025, 1, 1)) {
		t.Fatalf("cancelled receivables are never overdue")
	}
}
