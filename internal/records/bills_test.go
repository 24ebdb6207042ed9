package records

import (
	"context"
	"errors"
	"testing"

	"lupa/internal/core"
)

func billInput() core.BillInput {
	return core.BillInput{
		Title:          "Energia elétrica",
		Company:        "CEMIG",
		Category:       "Energia",
		OriginalAmount: core.Money{Cents: 50000},
		DiscountAmount: core.Money{Cents: 5000},
		InterestAmount: core.Money{Cents: 1000},
		DueDate:        core.NewDate(2024, 3, 10),
		Barcode:        "83640000001-1 23450000000-0",
	}
}

func TestSaveBillValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	tests := []struct {
		name string
		edit func(*core.BillInput)
		err  error
	}{
		{"empty title", func(in *core.BillInput) { in.Title = "" }, core.ErrEmptyTitle},
		{"zero amount", func(in *core.BillInput) { in.OriginalAmount = core.Money{} }, core.ErrInvalidAmount},
		{"negative discount", func(in *core.BillInput) { in.DiscountAmount = core.Money{Cents: -1} }, core.ErrInvalidAmount},
		{"missing due date", func(in *core.BillInput) { in.DueDate = core.Date{} }, core.ErrMissingDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := billInput()
			tt.edit(&in)
			if _, err := s.SaveBill(ctx, in); !core.IsValidation(err) || !errors.Is(err, tt.err) {
				t.Fatalf("want %v, got %v", tt.err, err)
			}
		})
	}
}

func TestBillLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	b, err := s.SaveBill(ctx, billInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if b.FinalAmount.Cents != 46000 || b.Status != core.BillPending {
		t.Fatalf("unexpected new bill %+v", b)
	}
	if b.Barcode != "83640000001-1 23450000000-0" {
		t.Fatalf("barcode must be stored verbatim, got %q", b.Barcode)
	}

	discount := core.Money{Cents: 0}
	b, err = s.UpdateBill(ctx, b.ID, core.BillPatch{DiscountAmount: &discount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if b.FinalAmount.Cents != 51000 {
		t.Fatalf("final amount not recomputed: %d", b.FinalAmount.Cents)
	}

	today := s.Today()
	n, err := s.RefreshOverdueBills(ctx, today)
	if err != nil || n != 1 {
		t.Fatalf("refresh = %d, %v; want 1", n, err)
	}
	if n, _ := s.RefreshOverdueBills(ctx, today); n != 0 {
		t.Fatalf("second refresh changed %d bills", n)
	}
	overdue, _ := s.ListBills(ctx, core.BillOverdue)
	if len(overdue) != 1 {
		t.Fatalf("want 1 overdue bill, got %d", len(overdue))
	}

	paid, err := s.PayBill(ctx, b.ID, "4", core.Date{})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != core.BillPaid || paid.PaymentDate != today || paid.PaymentFee.Cents != 1785 {
		t.Fatalf("unexpected paid bill %+v", paid)
	}
	if _, err := s.PayBill(ctx, b.ID, "1", core.Date{}); !errors.Is(err, core.ErrAlreadyPaid) {
		t.Fatalf("want ErrAlreadyPaid, got %v", err)
	}
	if _, err := s.PayBill(ctx, "missing", "1", core.Date{}); !core.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.DeleteBill(ctx, b.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
	}
	all, _ := s.ListBills(ctx, "")
	if len(all) != 0 {
		t.Fatalf("want no bills, got %d", len(all))
	}
}

func TestPayBillWithUnknownMethodHasNoFee(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	b, _ := s.SaveBill(ctx, billInput())
	paid, err := s.PayBill(ctx, b.ID, "ghost", core.NewDate(2024, 3, 9))
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.PaymentFee.Cents != 0 || paid.PaymentMethod != "ghost" || paid.PaymentDate != core.NewDate(2024, 3, 9) {
		t.Fatalf("unexpected paid bill %+v", paid)
	}
}

func TestGetBill(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	b, err := s.SaveBill(ctx, billInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetBill(ctx, b.ID)
	if err != nil || got.ID != b.ID || got.FinalAmount != b.FinalAmount {
		t.Fatalf("get: %+v (err=%v)", got, err)
	}
	if _, err := s.GetBill(ctx, "missing"); !core.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}
