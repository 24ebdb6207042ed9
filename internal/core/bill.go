package core

import (
	"strings"
	"time"
)

const (
	BillPending   BillStatus = "pending"
	BillPaid      BillStatus = "paid"
	BillOverdue   BillStatus = "overdue"
	BillCancelled BillStatus = "cancelled"
)

type (
	BillStatus string

	// Bill is an account payable. FinalAmount is always
	// OriginalAmount - DiscountAmount + InterestAmount.
	Bill struct {
		ID             string     `json:"id"`
		Barcode        string     `json:"barcode,omitempty"`
		LineCode       string     `json:"line_code,omitempty"`
		Title          string     `json:"title"`
		Company        string     `json:"company,omitempty"`
		Category       string     `json:"category,omitempty"`
		OriginalAmount Money      `json:"original_amount"`
		DiscountAmount Money      `json:"discount_amount"`
		InterestAmount Money      `json:"interest_amount"`
		FinalAmount    Money      `json:"final_amount"`
		DueDate        Date       `json:"due_date"`
		PaymentDate    Date       `json:"payment_date"`
		Status         BillStatus `json:"status"`
		PaymentMethod  string     `json:"payment_method,omitempty"`
		PaymentFee     Money      `json:"payment_fee"`
		Notes          string     `json:"notes,omitempty"`
		CreatedAt      time.Time  `json:"created_at"`
		UpdatedAt      time.Time  `json:"updated_at"`
	}

	BillInput struct {
		Barcode        string
		LineCode       string
		Title          string
		Company        string
		Category       string
		OriginalAmount Money
		DiscountAmount Money
		InterestAmount Money
		DueDate        Date
		Notes          string
	}

	BillPatch struct {
		Barcode        *string
		LineCode       *string
		Title          *string
		Company        *string
		Category       *string
		OriginalAmount *Money
		DiscountAmount *Money
		InterestAmount *Money
		DueDate        *Date
		Status         *BillStatus
		Notes          *string
	}
)

func (s BillStatus) Valid() bool {
	switch s {
	case BillPending, BillPaid, BillOverdue, BillCancelled:
		return true
	}
	return false
}

func (in BillInput) Bill() Bill {
	b := Bill{
		Barcode:        strings.TrimSpace(in.Barcode),
		LineCode:       strings.TrimSpace(in.LineCode),
		Title:          strings.TrimSpace(in.Title),
		Company:        strings.TrimSpace(in.Company),
		Category:       strings.TrimSpace(in.Category),
		OriginalAmount: in.OriginalAmount,
		DiscountAmount: in.DiscountAmount,
		InterestAmount: in.InterestAmount,
		DueDate:        in.DueDate,
		Status:         BillPending,
		Notes:          strings.TrimSpace(in.Notes),
	}
	b.CalculateFinalAmount()
	return b
}

func (p BillPatch) Apply(b *Bill) {
	if p.Barcode != nil {
		b.Barcode = strings.TrimSpace(*p.Barcode)
	}
	if p.LineCode != nil {
		b.LineCode = strings.TrimSpace(*p.LineCode)
	}
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Company != nil {
		b.Company = strings.TrimSpace(*p.Company)
	}
	if p.Category != nil {
		b.Category = strings.TrimSpace(*p.Category)
	}
	if p.OriginalAmount != nil {
		b.OriginalAmount = *p.OriginalAmount
	}
	if p.DiscountAmount != nil {
		b.DiscountAmount = *p.DiscountAmount
	}
	if p.InterestAmount != nil {
		b.InterestAmount = *p.InterestAmount
	}
	if p.DueDate != nil {
		b.DueDate = *p.DueDate
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Notes != nil {
		b.Notes = strings.TrimSpace(*p.Notes)
	}
	b.CalculateFinalAmount()
}

func (b Bill) Validate() error {
	if b.Title == "" {
		return Invalid("title", ErrEmptyTitle)
	}
	if err := b.OriginalAmount.Validate(); err != nil {
		return Invalid("original_amount", err)
	}
	if b.DiscountAmount.Cents < 0 {
		return Invalid("discount_amount", ErrInvalidAmount)
	}
	if b.InterestAmount.Cents < 0 {
		return Invalid("interest_amount", ErrInvalidAmount)
	}
	if err := b.DueDate.Validate(); err != nil {
		return Invalid("due_date", err)
	}
	if !b.Status.Valid() {
		return Invalid("status", ErrInvalidStatus)
	}
	return nil
}

// CalculateFinalAmount recomputes and stores the amount due.
func (b *Bill) CalculateFinalAmount() Money {
	b.FinalAmount = b.OriginalAmount.Sub(b.DiscountAmount).Add(b.InterestAmount)
	return b.FinalAmount
}

// MarkPaid settles the bill on the given day. The method fee is charged on
// the final amount.
func (b *Bill) MarkPaid(method PaymentMethod, on Date) error {
	if b.Status == BillPaid {
		return Invalid("status", ErrAlreadyPaid)
	}
	if b.Status == BillCancelled {
		return Invalid("status", ErrInvalidStatus)
	}
	b.Status = BillPaid
	b.PaymentDate = on
	b.PaymentMethod = method.ID
	b.PaymentFee = FeeFor(b.FinalAmount, method.Fee)
	return nil
}

// IsOverdue reports whether an open bill's due date has passed.
func (b Bill) IsOverdue(today Date) bool {
	if b.Status == BillPaid || b.Status == BillCancelled {
		return false
	}
	return b.DueDate.Before(today.Time)
}

// DaysUntilDue is negative once the due date has passed and 0 for paid bills.
func (b Bill) DaysUntilDue(today Date) int {
	if b.Status == BillPaid {
		return 0
	}
	return today.DaysUntil(b.DueDate)
}
