package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidType           = errors.New("invalid transaction type")
	ErrEmptyDescription      = errors.New("empty description")
	ErrDescriptionTooLong    = errors.New("description too long (max 200 characters)")
	ErrEmptyCategory         = errors.New("empty category")
	ErrUnknownCategory       = errors.New("category not allowed for transaction type")
	ErrMissingPaymentMethod  = errors.New("payment method is required")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrMissingDate           = errors.New("date is required")
	ErrEmptyName             = errors.New("empty name")
	ErrInvalidFee            = errors.New("fee must be a number")
	ErrNegativeFee           = errors.New("fee cannot be negative")
	ErrEmptyTitle            = errors.New("empty title")
	ErrEmptyCustomer         = errors.New("empty customer name")
	ErrDuplicateCustomer     = errors.New("customer already exists")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidReceivableType = errors.New("invalid receivable type")
	ErrAlreadyPaid           = errors.New("already paid")
	ErrPaymentExceedsBalance = errors.New("payment amount exceeds remaining balance")
)

// ValidationError reports a required field that is missing or invalid.
// Nothing is written when one is returned.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid wraps err as a ValidationError on field.
func Invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// NotFoundError is returned when an update targets an id that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// StorageError wraps a failure of the key-value layer or of (de)serializing
// a collection for it.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation, IsNotFound and IsStorage classify errors anywhere in a chain.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
