package core

import (
	"errors"
	"fmt"
)

// HarnessError represents a structured error with category and details
type HarnessError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: no_such_element, wait_timeout, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *HarnessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// Is matches HarnessErrors by code. WithCause and WithMessage return
// copies, so pointer identity does not hold across them.
func (e *HarnessError) Is(target error) bool {
	t, ok := target.(*HarnessError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause
func (e *HarnessError) WithCause(cause error) *HarnessError {
	return &HarnessError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *HarnessError) WithMessage(msg string) *HarnessError {
	return &HarnessError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithMessagef returns a copy of the error with a formatted message
func (e *HarnessError) WithMessagef(format string, args ...interface{}) *HarnessError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithDetails returns a copy of the error with additional details
func (e *HarnessError) WithDetails(details map[string]interface{}) *HarnessError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &HarnessError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors (mirroring W3C WebDriver error codes where they exist)
var (
	// Transient element errors
	ErrStaleElement = &HarnessError{
		Category: ErrCategoryTransient,
		Code:     "stale_element_reference",
		Message:  "element reference is stale",
	}
	ErrElementNotInteractable = &HarnessError{
		Category: ErrCategoryTransient,
		Code:     "element_not_interactable",
		Message:  "element is not interactable",
	}
	ErrConditionNotMet = &HarnessError{
		Category: ErrCategoryTransient,
		Code:     "condition_not_met",
		Message:  "condition was not met",
	}

	// Lookup errors
	ErrElementNotFound = &HarnessError{
		Category: ErrCategoryNotFound,
		Code:     "no_such_element",
		Message:  "element not found",
	}

	// Timeout errors
	ErrWaitTimeout = &HarnessError{
		Category: ErrCategoryTimeout,
		Code:     "wait_timeout",
		Message:  "wait condition timed out",
	}

	// Fixture errors
	ErrSetupFailure = &HarnessError{
		Category: ErrCategorySetup,
		Code:     "setup_failure",
		Message:  "test fixture could not be constructed",
	}

	// Capability errors
	ErrUnsupportedOperation = &HarnessError{
		Category: ErrCategoryUnsupported,
		Code:     "unsupported_operation",
		Message:  "operation is not supported on this platform",
	}

	// Connection errors
	ErrServerUnreachable = &HarnessError{
		Category: ErrCategoryConnection,
		Code:     "server_unreachable",
		Message:  "could not connect to automation server",
	}
	ErrSessionNotCreated = &HarnessError{
		Category: ErrCategoryConnection,
		Code:     "session_not_created",
		Message:  "automation session could not be created",
	}
	ErrNoSession = &HarnessError{
		Category: ErrCategoryConnection,
		Code:     "no_active_session",
		Message:  "no active automation session",
	}

	// Config errors
	ErrInvalidConfig = &HarnessError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
	ErrMissingRequired = &HarnessError{
		Category: ErrCategoryConfig,
		Code:     "missing_required",
		Message:  "missing required field",
	}
	ErrInvalidSelector = &HarnessError{
		Category: ErrCategoryConfig,
		Code:     "invalid_selector",
		Message:  "selector is invalid for the chosen strategy",
	}

	// Protocol errors
	ErrProtocol = &HarnessError{
		Category: ErrCategoryProtocol,
		Code:     "protocol_error",
		Message:  "unexpected automation server response",
	}
)

// NewHarnessError creates a new HarnessError with the given parameters
func NewHarnessError(category ErrorCategory, code, message string) *HarnessError {
	return &HarnessError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// categoryOf extracts the category from any error in the chain
func categoryOf(err error) ErrorCategory {
	var he *HarnessError
	if errors.As(err, &he) {
		return he.Category
	}
	return ErrCategoryNone
}

// IsTransient reports whether err is a momentary failure worth retrying,
// such as a stale element reference
func IsTransient(err error) bool {
	return categoryOf(err) == ErrCategoryTransient
}

// IsNotFound reports whether err means no element matched a locator
func IsNotFound(err error) bool {
	return categoryOf(err) == ErrCategoryNotFound
}

// IsTimeout reports whether err is a wait deadline expiry
func IsTimeout(err error) bool {
	return categoryOf(err) == ErrCategoryTimeout
}

// IsSetupFailure reports whether err marks a fixture construction failure
func IsSetupFailure(err error) bool {
	return categoryOf(err) == ErrCategorySetup
}

// IsUnsupported reports whether err marks an unimplemented platform operation
func IsUnsupported(err error) bool {
	return categoryOf(err) == ErrCategoryUnsupported
}
