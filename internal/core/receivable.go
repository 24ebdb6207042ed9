package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReceivablePending   ReceivableStatus = "pending"
	ReceivablePartial   ReceivableStatus = "partial"
	ReceivablePaid      ReceivableStatus = "paid"
	ReceivableOverdue   ReceivableStatus = "overdue"
	ReceivableCancelled ReceivableStatus = "cancelled"

	Fiado          ReceivableType = "fiado"
	MachineReceipt ReceivableType = "machine_receipt"
	Invoice        ReceivableType = "invoice"
	OtherReceipt   ReceivableType = "other"
)

// interest_rate is monthly; a month counts as 30 days.
var daysPerMonth = decimal.NewFromInt(30)

type (
	ReceivableStatus string
	ReceivableType   string

	Receivable struct {
		ID               string              `json:"id"`
		CustomerName     string              `json:"customer_name"`
		CustomerPhone    string              `json:"customer_phone,omitempty"`
		CustomerEmail    string              `json:"customer_email,omitempty"`
		CustomerDocument string              `json:"customer_document,omitempty"`
		Type             ReceivableType      `json:"type"`
		Description      string              `json:"description,omitempty"`
		ReferenceNumber  string              `json:"reference_number,omitempty"`
		OriginalAmount   Money               `json:"original_amount"`
		PaidAmount       Money               `json:"paid_amount"`
		RemainingAmount  Money               `json:"remaining_amount"`
		InterestRate     float64             `json:"interest_rate"`
		LateFee          Money               `json:"late_fee"`
		IssueDate        Date                `json:"issue_date"`
		DueDate          Date                `json:"due_date"`
		LastPaymentDate  Date                `json:"last_payment_date"`
		Status           ReceivableStatus    `json:"status"`
		Payments         []ReceivablePayment `json:"payments"`
		Notes            string              `json:"notes,omitempty"`
		CreatedAt        time.Time           `json:"created_at"`
		UpdatedAt        time.Time           `json:"updated_at"`
	}

	ReceivablePayment struct {
		ID            string    `json:"id"`
		Amount        Money     `json:"amount"`
		PaymentMethod string    `json:"payment_method"`
		PaymentDate   Date      `json:"payment_date"`
		Notes         string    `json:"notes,omitempty"`
		ReceiptNumber string    `json:"receipt_number,omitempty"`
		CreatedAt     time.Time `json:"created_at"`
	}

	ReceivableInput struct {
		CustomerName     string
		CustomerPhone    string
		CustomerEmail    string
		CustomerDocument string
		Type             ReceivableType
		Description      string
		ReferenceNumber  string
		OriginalAmount   Money
		InterestRate     float64
		LateFee          Money
		IssueDate        Date
		DueDate          Date
		Notes            string
	}

	ReceivablePatch struct {
		CustomerName     *string
		CustomerPhone    *string
		CustomerEmail    *string
		CustomerDocument *string
		Type             *ReceivableType
		Description      *string
		ReferenceNumber  *string
		OriginalAmount   *Money
		InterestRate     *float64
		LateFee          *Money
		DueDate          *Date
		Status           *ReceivableStatus
		Notes            *string
	}

	PaymentInput struct {
		Amount        Money
		PaymentMethod string
		PaymentDate   Date
		Notes         string
		ReceiptNumber string
	}
)

func (t ReceivableType) Valid() bool {
	switch t {
	case Fiado, MachineReceipt, Invoice, OtherReceipt:
		return true
	}
	return false
}

func (s ReceivableStatus) Valid() bool {
	switch s {
	case ReceivablePending, ReceivablePartial, ReceivablePaid, ReceivableOverdue, ReceivableCancelled:
		return true
	}
	return false
}

func (in ReceivableInput) Receivable() Receivable {
	r := Receivable{
		CustomerName:     strings.TrimSpace(in.CustomerName),
		CustomerPhone:    strings.TrimSpace(in.CustomerPhone),
		CustomerEmail:    strings.TrimSpace(in.CustomerEmail),
		CustomerDocument: strings.TrimSpace(in.CustomerDocument),
		Type:             in.Type,
		Description:      strings.TrimSpace(in.Description),
		ReferenceNumber:  strings.TrimSpace(in.ReferenceNumber),
		OriginalAmount:   in.OriginalAmount,
		RemainingAmount:  in.OriginalAmount,
		InterestRate:     in.InterestRate,
		LateFee:          in.LateFee,
		IssueDate:        in.IssueDate,
		DueDate:          in.DueDate,
		Status:           ReceivablePending,
		Payments:         []ReceivablePayment{},
		Notes:            strings.TrimSpace(in.Notes),
	}
	if r.Type == "" {
		r.Type = OtherReceipt
	}
	return r
}

func (p ReceivablePatch) Apply(r *Receivable, today Date) {
	if p.CustomerName != nil {
		r.CustomerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.CustomerPhone != nil {
		r.CustomerPhone = strings.TrimSpace(*p.CustomerPhone)
	}
	if p.CustomerEmail != nil {
		r.CustomerEmail = strings.TrimSpace(*p.CustomerEmail)
	}
	if p.CustomerDocument != nil {
		r.CustomerDocument = strings.TrimSpace(*p.CustomerDocument)
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Description != nil {
		r.Description = strings.TrimSpace(*p.Description)
	}
	if p.ReferenceNumber != nil {
		r.ReferenceNumber = strings.TrimSpace(*p.ReferenceNumber)
	}
	if p.InterestRate != nil {
		r.InterestRate = *p.InterestRate
	}
	if p.LateFee != nil {
		r.LateFee = *p.LateFee
	}
	if p.DueDate != nil {
		r.DueDate = *p.DueDate
	}
	if p.Notes != nil {
		r.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.OriginalAmount != nil {
		r.OriginalAmount = *p.OriginalAmount
	}
	if p.Status != nil && *p.Status == ReceivableCancelled {
		r.Status = ReceivableCancelled
		return
	}
	if p.OriginalAmount != nil || p.DueDate != nil || p.Status != nil {
		r.UpdateRemaining(today)
	}
}

func (r Receivable) Validate() error {
	if r.CustomerName == "" {
		return Invalid("customer_name", ErrEmptyCustomer)
	}
	if !r.Type.Valid() {
		return Invalid("type", ErrInvalidReceivableType)
	}
	if err := r.OriginalAmount.Validate(); err != nil {
		return Invalid("original_amount", err)
	}
	if err := validFee(r.InterestRate); err != nil {
		return Invalid("interest_rate", err)
	}
	if r.LateFee.Cents < 0 {
		return Invalid("late_fee", ErrInvalidAmount)
	}
	if err := r.DueDate.Validate(); err != nil {
		return Invalid("due_date", err)
	}
	if !r.Status.Valid() {
		return Invalid("status", ErrInvalidStatus)
	}
	return nil
}

// IsOverdue reports whether an open receivable's due date has passed.
func (r Receivable) IsOverdue(today Date) bool {
	if r.Status == ReceivablePaid || r.Status == ReceivableCancelled {
		return false
	}
	return r.DueDate.Before(today.Time)
}

func (r Receivable) DaysOverdue(today Date) int {
	if !r.IsOverdue(today) {
		return 0
	}
	return r.DueDate.DaysUntil(today)
}

func (r Receivable) DaysUntilDue(today Date) int {
	if r.Status == ReceivablePaid || r.Status == ReceivableCancelled {
		return 0
	}
	return today.DaysUntil(r.DueDate)
}

// TotalWithFees is the amount to collect today: the remaining balance plus
// simple daily interest while overdue, plus the late fee.
func (r Receivable) TotalWithFees(today Date) Money {
	total := r.RemainingAmount.Decimal()
	if days := r.DaysOverdue(today); days > 0 && r.InterestRate > 0 {
		daily := decimal.NewFromFloat(r.InterestRate).Div(hundred).Div(daysPerMonth)
		total = total.Add(total.Mul(daily).Mul(decimal.NewFromInt(int64(days))))
	}
	total = total.Add(r.LateFee.Decimal())
	return MoneyFromDecimal(total)
}

// UpdateRemaining recomputes paid and remaining amounts from the payment
// list and derives the status from them.
func (r *Receivable) UpdateRemaining(today Date) {
	var paid Money
	for _, p := range r.Payments {
		paid = paid.Add(p.Amount)
	}
	r.PaidAmount = paid
	r.RemainingAmount = r.OriginalAmount.Sub(paid)
	switch {
	case r.RemainingAmount.Cents <= 0:
		r.Status = ReceivablePaid
		r.RemainingAmount = Money{}
	case paid.Cents > 0:
		r.Status = ReceivablePartial
	case r.DueDate.Before(today.Time):
		r.Status = ReceivableOverdue
	default:
		r.Status = ReceivablePending
	}
}

// AddPayment records a payment against the balance.
func (r *Receivable) AddPayment(p ReceivablePayment, today Date) error {
	if r.Status == ReceivablePaid || r.Status == ReceivableCancelled {
		return Invalid("status", ErrAlreadyPaid)
	}
	if err := p.Amount.Validate(); err != nil {
		return Invalid("amount", err)
	}
	if p.Amount.Cents > r.RemainingAmount.Cents {
		return Invalid("amount", ErrPaymentExceedsBalance)
	}
	if strings.TrimSpace(p.PaymentMethod) == "" {
		return Invalid("payment_method", ErrMissingPaymentMethod)
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = today
	}
	r.Payments = append(r.Payments, p)
	r.LastPaymentDate = p.PaymentDate
	r.UpdateRemaining(today)
	return nil
}
