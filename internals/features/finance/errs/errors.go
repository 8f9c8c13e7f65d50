// Package errs holds the error values returned by the finance services.
// Validation and business-rule errors are expected results the caller can act on;
// StorageError marks a failed round trip to the database.
package errs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ValidationError lists every violated input constraint, not just the first.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Add appends a message; nil-safe accumulation is done with NewValidation / OrNil.
func (e *ValidationError) Add(format string, args ...any) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

// OrNil returns nil when nothing was collected, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Messages) == 0 {
		return nil
	}
	return e
}

func NewValidation(messages ...string) *ValidationError {
	return &ValidationError{Messages: append([]string(nil), messages...)}
}

// InsufficientFundsError is returned when a write would drive the available balance below zero.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: requested %s, available %s",
		e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

// AllocationMismatchError is returned when a percentage set does not total 100.
type AllocationMismatchError struct {
	Actual int
}

func (e *AllocationMismatchError) Error() string {
	return fmt.Sprintf("allocation must total 100%%, got %d%%", e.Actual)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NotFound(entity string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

// StorageError wraps a persistence failure. Err is for server logs only; the
// HTTP layer shows the generic message and the correlation id.
type StorageError struct {
	Op            string
	CorrelationID string
	Err           error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s (ref %s)", e.Op, e.CorrelationID)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err unless it is already one of the typed finance errors,
// in which case it is returned unchanged. A fresh correlation id is minted
// for every wrap.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, CorrelationID: uuid.NewString(), Err: err}
}

// IsDomain reports whether err is a caller-recoverable business error.
func IsDomain(err error) bool {
	var (
		ve  *ValidationError
		ife *InsufficientFundsError
		ame *AllocationMismatchError
		nfe *NotFoundError
	)
	return errors.As(err, &ve) || errors.As(err, &ife) || errors.As(err, &ame) || errors.As(err, &nfe)
}

// FromLookup turns gorm.ErrRecordNotFound into a NotFoundError and anything else into a StorageError.
func FromLookup(op, entity string, id uuid.UUID, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity, id)
	}
	return Storage(op, err)
}
