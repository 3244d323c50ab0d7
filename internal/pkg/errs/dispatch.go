package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNoEligibleDriver    = errors.New("no eligible driver")
	ErrDataIntegrity       = errors.New("data integrity violation")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrSettlementConflict  = errors.New("settlement already applied")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrInvalidTransition   = errors.New("invalid state transition")
)

// DataIntegrityError marks a record that cannot be processed until it is repaired by hand,
// for example an order without restaurant coordinates.
type DataIntegrityError struct {
	Entity string
	ID     string
	Reason string
}

func NewDataIntegrityError(entity, id, reason string) *DataIntegrityError {
	return &DataIntegrityError{Entity: entity, ID: id, Reason: reason}
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", ErrDataIntegrity, e.Entity, e.ID, e.Reason)
}

func (e *DataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}

// NewConcurrencyConflict wraps ErrConcurrencyConflict with the precondition that failed.
func NewConcurrencyConflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConcurrencyConflict, fmt.Sprintf(format, args...))
}

// NewStoreUnavailable wraps a backend failure so callers can degrade on ErrStoreUnavailable.
func NewStoreUnavailable(store string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, store, cause)
}

// NewInvalidTransition reports an action that the current lifecycle state does not allow.
func NewInvalidTransition(entity, from, action string) error {
	return fmt.Errorf("%w: cannot %s %s in status %s", ErrInvalidTransition, action, entity, from)
}
