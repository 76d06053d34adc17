package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeValidation        = 4000
	CodeInsufficientFunds = 4001
	CodeSlotMismatch      = 4002
	CodePriceMismatch     = 4003
	CodeSlotInPast        = 4004
	CodeUnauthorized      = 4010
	CodeForbidden         = 4030
	CodeNotFound          = 4040
	CodeScreenInactive    = 4090
	CodeSlotTaken         = 4091
	CodeAlreadyReviewed   = 4092
	CodeConflict          = 4093
	CodeRateLimited       = 4290

	// 5xxx - Server errors
	CodeInternal = 5000
)

// Kind is the caller-facing error category
type Kind string

const (
	KindValidation        Kind = "ValidationError"
	KindNotFound          Kind = "NotFound"
	KindInactive          Kind = "Inactive"
	KindSlotMismatch      Kind = "SlotMismatch"
	KindPriceMismatch     Kind = "PriceMismatch"
	KindSlotInPast        Kind = "SlotInPast"
	KindSlotTaken         Kind = "SlotTaken"
	KindInsufficientFunds Kind = "InsufficientFunds"
	KindAlreadyReviewed   Kind = "AlreadyReviewed"
	KindConflict          Kind = "Conflict"
	KindUnauthorized      Kind = "Unauthorized"
	KindForbidden         Kind = "Forbidden"
	KindRateLimited       Kind = "RateLimited"
	KindInternal          Kind = "Internal"
)

// Base error types
var (
	// ErrValidation is returned for malformed input, before any write happens
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is the parent of every "missing resource" error
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrScreenNotFound is returned when the requested screen doesn't exist
	ErrScreenNotFound = fmt.Errorf("screen %w", ErrNotFound)

	// ErrBookingNotFound is returned when the requested booking doesn't exist
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)

	// ErrTopUpRequestNotFound is returned when the requested top-up request doesn't exist
	ErrTopUpRequestNotFound = fmt.Errorf("top-up request %w", ErrNotFound)

	// ErrScreenInactive is returned when a disabled screen is used for availability or booking
	ErrScreenInactive = errors.New("screen is not active")

	// ErrSlotMismatch is returned when a slot identifier does not match the claimed slot start
	ErrSlotMismatch = errors.New("slot does not match the requested time")

	// ErrPriceMismatch is returned when the claimed price differs from the current price
	ErrPriceMismatch = errors.New("slot price has changed")

	// ErrSlotInPast is returned when the slot has already ended
	ErrSlotInPast = errors.New("slot is in the past")

	// ErrSlotTaken is returned when an active booking already overlaps the slot
	ErrSlotTaken = errors.New("slot no longer available")

	// ErrInsufficientFunds is returned when a debit would make the wallet negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyReviewed is returned when a top-up request has already left the pending state
	ErrAlreadyReviewed = errors.New("top-up request already reviewed")

	// ErrConflict is returned when the datastore aborted the unit of work because of contention
	ErrConflict = errors.New("transaction conflict")

	// ErrUnauthorized is returned when no valid identity accompanies the request
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the identity lacks the required role
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited is returned when a caller exhausted its request budget
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInternal is returned for storage or unexpected failures
	ErrInternal = errors.New("internal server error")
)

// KindOf classifies err into the error taxonomy
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrScreenInactive):
		return KindInactive
	case errors.Is(err, ErrSlotMismatch):
		return KindSlotMismatch
	case errors.Is(err, ErrPriceMismatch):
		return KindPriceMismatch
	case errors.Is(err, ErrSlotInPast):
		return KindSlotInPast
	case errors.Is(err, ErrSlotTaken):
		return KindSlotTaken
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrAlreadyReviewed):
		return KindAlreadyReviewed
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	default:
		return KindInternal
	}
}

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return CodeValidation
	case KindNotFound:
		return CodeNotFound
	case KindInactive:
		return CodeScreenInactive
	case KindSlotMismatch:
		return CodeSlotMismatch
	case KindPriceMismatch:
		return CodePriceMismatch
	case KindSlotInPast:
		return CodeSlotInPast
	case KindSlotTaken:
		return CodeSlotTaken
	case KindInsufficientFunds:
		return CodeInsufficientFunds
	case KindAlreadyReviewed:
		return CodeAlreadyReviewed
	case KindConflict:
		return CodeConflict
	case KindUnauthorized:
		return CodeUnauthorized
	case KindForbidden:
		return CodeForbidden
	case KindRateLimited:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}

// IsRetryable reports whether the operation may be retried automatically.
// Only contention aborts qualify.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// Validation wraps ErrValidation with a field-specific message
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	UserID    string
	Required  string
	Available string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %s: required %s, available %s",
		e.UserID, e.Required, e.Available)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"user_id":    e.UserID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID, required, available string) error {
	return &InsufficientFundsError{
		UserID:    userID,
		Required:  required,
		Available: available,
	}
}

// SlotError describes a failed slot re-validation step
type SlotError struct {
	ScreenID string
	SlotID   string
	Reason   string
	Err      error
}

// Error implements the error interface for SlotError
func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %s on screen %s rejected: %s: %v", e.SlotID, e.ScreenID, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *SlotError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *SlotError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "slot_error",
		"screen_id":  e.ScreenID,
		"slot_id":    e.SlotID,
		"reason":     e.Reason,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewSlotError creates a detailed slot re-validation error
func NewSlotError(screenID, slotID, reason string, err error) error {
	return &SlotError{
		ScreenID: screenID,
		SlotID:   slotID,
		Reason:   reason,
		Err:      err,
	}
}

// AlreadyReviewedError reports the terminal state a review attempt ran into
type AlreadyReviewedError struct {
	RequestID string
	Status    string
}

// Error implements the error interface
func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("top-up request %s already %s", e.RequestID, e.Status)
}

// Is checks if the target error is an ErrAlreadyReviewed
func (e *AlreadyReviewedError) Is(target error) bool {
	return target == ErrAlreadyReviewed
}

// LogFields returns a map of fields for structured logging
func (e *AlreadyReviewedError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "already_reviewed",
		"request_id": e.RequestID,
		"status":     e.Status,
		"error_code": CodeAlreadyReviewed,
	}
}

// NewAlreadyReviewedError creates a new detailed already-reviewed error
func NewAlreadyReviewedError(requestID, status string) error {
	return &AlreadyReviewedError{RequestID: requestID, Status: status}
}

// LogFielder is implemented by detail errors that carry structured context
type LogFielder interface {
	LogFields() map[string]any
}

// LogFields extracts structured fields from err, falling back to the message
func LogFields(err error) map[string]any {
	var lf LogFielder
	if errors.As(err, &lf) {
		return lf.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_kind": string(KindOf(err)),
		"error_code": ErrorCode(err),
	}
}
