package core

// CaseStatus represents the reported outcome of a test case
type CaseStatus int

const (
	StatusUntested CaseStatus = iota // Registered but no outcome reported yet
	StatusPassed                     // Reported passed at teardown
	StatusFailed                     // Marked failed by the reconciler or the run
)

// String returns the string representation of CaseStatus
func (s CaseStatus) String() string {
	switch s {
	case StatusUntested:
		return "untested"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the status is a final state
func (s CaseStatus) IsTerminal() bool {
	return s == StatusPassed || s == StatusFailed
}

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone        ErrorCategory = iota // No error
	ErrCategoryTransient                        // Stale reference, momentarily non-interactable element
	ErrCategoryNotFound                         // No element matched the locator
	ErrCategoryTimeout                          // Wait deadline expired
	ErrCategorySetup                            // Test fixture could not be constructed
	ErrCategoryUnsupported                      // Platform/operation combination not implemented
	ErrCategoryConnection                       // Automation server connection problems
	ErrCategoryConfig                           // Invalid configuration or selector
	ErrCategoryProtocol                         // Malformed or unrecognized server response
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryTransient:
		return "transient"
	case ErrCategoryNotFound:
		return "not_found"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategorySetup:
		return "setup"
	case ErrCategoryUnsupported:
		return "unsupported"
	case ErrCategoryConnection:
		return "connection"
	case ErrCategoryConfig:
		return "config"
	case ErrCategoryProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}
