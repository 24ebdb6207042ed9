package core

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the wire and storage form of a calendar date.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	// Date is a calendar date at midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is one income or expense entry. CardFee and NetAmount are
	// snapshotted when the record is saved and are not recomputed when the
	// payment method changes later.
	Transaction struct {
		ID            string          `json:"id"`
		Type          TransactionType `json:"type"`
		Amount        Money           `json:"amount"`
		Description   string          `json:"description"`
		Category      string          `json:"category"`
		PaymentMethod string          `json:"payment_method"`
		Date          Date            `json:"date"`
		Notes         string          `json:"notes,omitempty"`
		CardFee       Money           `json:"card_fee"`
		NetAmount     Money           `json:"net_amount"`
		CreatedAt     time.Time       `json:"created_at"`
		UpdatedAt     time.Time       `json:"updated_at"`
	}

	// TransactionInput carries the user-supplied fields of a new transaction.
	TransactionInput struct {
		Type          TransactionType
		Amount        Money
		Description   string
		Category      string
		PaymentMethod string
		Date          Date
		Notes         string
	}

	// TransactionPatch holds the fields an update replaces. Nil means keep.
	TransactionPatch struct {
		Type          *TransactionType
		Amount        *Money
		Description   *string
		Category      *string
		PaymentMethod *string
		Date          *Date
		Notes         *string
	}

	PaymentMethod struct {
		ID   string  `json:"id"`
		Name string  `json:"name"`
		Fee  float64 `json:"fee"` // percent, 3.5 means 3.5%
	}

	PaymentMethodInput struct {
		Name string
		Fee  float64
	}

	PaymentMethodPatch struct {
		Name *string
		Fee  *float64
	}
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType accepts the two type names case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date t falls on in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses YYYY-MM-DD. A full RFC 3339 timestamp is also accepted
// and truncated to its calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, ErrMissingDate
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.Format(DateLayout))), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		*d = Date{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return ErrMissingDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the stored shape of a transaction. Payment method
// resolution needs the method list and is checked by the store.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return Invalid("type", ErrInvalidType)
	}
	if err := t.Amount.Validate(); err != nil {
		return Invalid("amount", err)
	}
	if strings.TrimSpace(t.Description) == "" {
		return Invalid("description", ErrEmptyDescription)
	}
	if len(t.Description) > 200 {
		return Invalid("description", ErrDescriptionTooLong)
	}
	if strings.TrimSpace(t.Category) == "" {
		return Invalid("category", ErrEmptyCategory)
	}
	if !IsKnownCategory(t.Type, t.Category) {
		return Invalid("category", ErrUnknownCategory)
	}
	if strings.TrimSpace(t.PaymentMethod) == "" {
		return Invalid("payment_method", ErrMissingPaymentMethod)
	}
	if err := t.Date.Validate(); err != nil {
		return Invalid("date", err)
	}
	return nil
}

// ApplyFee snapshots the fee of method onto the transaction.
func (t *Transaction) ApplyFee(method PaymentMethod) {
	t.CardFee, t.NetAmount = SplitFee(t.Amount, method.Fee)
}

// Transaction builds an unsaved transaction from the input.
func (in TransactionInput) Transaction() Transaction {
	return Transaction{
		Type:          in.Type,
		Amount:        in.Amount,
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Date:          in.Date,
		Notes:         strings.TrimSpace(in.Notes),
	}
}

// Apply merges the patch into t and reports whether the fee inputs changed.
func (p TransactionPatch) Apply(t *Transaction) (feeInputsChanged bool) {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		feeInputsChanged = feeInputsChanged || p.Amount.Cents != t.Amount.Cents
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		t.Category = strings.TrimSpace(*p.Category)
	}
	if p.PaymentMethod != nil {
		pm := strings.TrimSpace(*p.PaymentMethod)
		feeInputsChanged = feeInputsChanged || pm != t.PaymentMethod
		t.PaymentMethod = pm
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Notes != nil {
		t.Notes = strings.TrimSpace(*p.Notes)
	}
	return feeInputsChanged
}

func (m PaymentMethod) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return Invalid("name", ErrEmptyName)
	}
	if err := validFee(m.Fee); err != nil {
		return Invalid("fee", err)
	}
	return nil
}

func (p PaymentMethodPatch) Apply(m *PaymentMethod) {
	if p.Name != nil {
		m.Name = strings.TrimSpace(*p.Name)
	}
	if p.Fee != nil {
		m.Fee = *p.Fee
	}
}

// FindPaymentMethod returns the method with id, if present.
func FindPaymentMethod(methods []PaymentMethod, id string) (PaymentMethod, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// DefaultPaymentMethods is the seed written on first use of a store.
func DefaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: "1", Name: "PIX", Fee: 0},
		{ID: "2", Name: "Dinheiro", Fee: 0},
		{ID: "3", Name: "Cartão Débito", Fee: 1.5},
		{ID: "4", Name: "Cartão Crédito", Fee: 3.5},
		{ID: "5", Name: "Boleto", Fee: 2.0},
	}
}
