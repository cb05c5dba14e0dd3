package errors

import (
	"net/http"

	"rentalhub/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
// A BaseError may have a parent kind; errors.Is matches both its own code and
// every ancestor, so ErrInvalidTransition is also an ErrInvalidState.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
	parent    *BaseError
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Derive creates a more specific error kind that still matches e via errors.Is.
func (e *BaseError) Derive(errorCode, message string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: errorCode,
		message:   message,
		parent:    e,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches on the business error code, walking up parent kinds.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	for cur := e; cur != nil; cur = cur.parent {
		if cur.errorCode == t.errorCode {
			return true
		}
	}

	return false
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
		parent:    e.parent,
	}
}

// Predefined error types
var (
	// Input errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// Lookup errors
	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrPolicyNotFound = ErrNotFound.Derive("POLICY_NOT_FOUND", "Policy not found")

	ErrPrivacyTypeNotFound = ErrNotFound.Derive("PRIVACY_TYPE_NOT_FOUND", "Privacy type not found")

	ErrDiscountNotFound = ErrNotFound.Derive("DISCOUNT_NOT_FOUND", "Discount code not found")

	ErrOrderNotFound = ErrNotFound.Derive("ORDER_NOT_FOUND", "Order not found")

	ErrItemNotFound = ErrNotFound.Derive("ITEM_NOT_FOUND", "Item not found")

	ErrDeviceNotFound = ErrNotFound.Derive("DEVICE_NOT_FOUND", "Device not found")

	// Invariant violations
	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)

	ErrPolicyAlreadyActive = ErrConflict.Derive("POLICY_ALREADY_ACTIVE", "Policy is already active")

	ErrPrivacyTypeInactive = ErrConflict.Derive("PRIVACY_TYPE_INACTIVE", "Privacy type is inactive")

	ErrDiscountCodeTaken = ErrConflict.Derive("DISCOUNT_CODE_TAKEN", "Discount code already exists")

	ErrStaleOrderVersion = ErrConflict.Derive("STALE_ORDER_VERSION", "Order was modified by another request")

	ErrIdempotencyInFlight = ErrConflict.Derive("IDEMPOTENCY_IN_FLIGHT", "A request with this idempotency key is still being processed")

	// Lifecycle errors
	ErrInvalidState = NewBaseError(
		http.StatusConflict,
		"INVALID_STATE",
		"Operation is not allowed in the current state",
		"",
	)

	ErrPolicyActiveDelete = ErrInvalidState.Derive("POLICY_ACTIVE_DELETE", "An active policy cannot be deleted")

	ErrNoActivePolicy = ErrInvalidState.Derive("NO_ACTIVE_POLICY", "Scope has no active policy to supersede")

	ErrInvalidTransition = ErrInvalidState.Derive("INVALID_TRANSITION", "Order status transition is not allowed")

	// Discount errors
	ErrDiscountIneligible = NewBaseError(
		http.StatusUnprocessableEntity,
		"DISCOUNT_INELIGIBLE",
		"Discount code cannot be applied to this order",
		"",
	)

	ErrDiscountExhausted = NewBaseError(
		http.StatusConflict,
		"DISCOUNT_EXHAUSTED",
		"Discount code usage limit reached",
		"",
	)

	// Access errors
	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"Authentication required",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	// General errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"Database transaction failed",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// AsAppError extracts the first AppError in err's chain.
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}

	return nil, false
}
