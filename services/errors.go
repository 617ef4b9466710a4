package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so handlers can map them to HTTP codes
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindStorage    ErrorKind = "storage"
)

// DomainError is the error type returned by the booking core. No state is
// mutated when one of these is returned from a workflow.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets sentinel comparisons match wrapped copies carrying a cause
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrInvalidDateRange     = &DomainError{Kind: KindValidation, Code: "invalid_date_range", Message: "check-out date must be after check-in date"}
	ErrCapacityExceeded     = &DomainError{Kind: KindValidation, Code: "capacity_exceeded", Message: "guest count exceeds room capacity"}
	ErrInvalidProofFile     = &DomainError{Kind: KindValidation, Code: "invalid_proof_file", Message: "invalid file type or size, upload JPG, PNG, WEBP or PDF up to 5MB"}
	ErrInvalidPaymentMethod = &DomainError{Kind: KindValidation, Code: "invalid_payment_method", Message: "invalid payment method"}

	ErrRoomUnavailable    = &DomainError{Kind: KindConflict, Code: "room_unavailable", Message: "room not available or fully booked"}
	ErrDuplicatePayment   = &DomainError{Kind: KindConflict, Code: "duplicate_payment", Message: "a payment record already exists for this booking"}
	ErrInvalidTransition  = &DomainError{Kind: KindConflict, Code: "invalid_transition", Message: "booking status transition not allowed"}
	ErrAlreadyDecided     = &DomainError{Kind: KindConflict, Code: "already_decided", Message: "payment has already been verified or rejected"}
	ErrPaymentAlreadyFinal = &DomainError{Kind: KindConflict, Code: "payment_already_final", Message: "payment can no longer accept a proof"}

	ErrRoomNotFound    = &DomainError{Kind: KindNotFound, Code: "room_not_found", Message: "room not found"}
	ErrBookingNotFound = &DomainError{Kind: KindNotFound, Code: "booking_not_found", Message: "booking not found"}
	ErrPaymentNotFound = &DomainError{Kind: KindNotFound, Code: "payment_not_found", Message: "payment not found"}
)

// StorageFailure wraps a file-store error; safe to retry after compensation
func StorageFailure(err error) *DomainError {
	return &DomainError{Kind: KindStorage, Code: "storage_failure", Message: "file storage operation failed", Err: err}
}

// KindOf extracts the error kind, defaulting to empty for unknown errors
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
