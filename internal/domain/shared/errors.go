package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized     = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrUpstreamFailure  = NewDomainError("UPSTREAM_FAILURE", "Backend service request failed")
	ErrSubmitInFlight   = NewDomainError("SUBMIT_IN_FLIGHT", "A submission for this form is already in progress")
	ErrCancelled        = NewDomainError("CANCELLED", "Operation was cancelled")
	ErrSessionRequired  = NewDomainError("SESSION_REQUIRED", "You must be logged in to perform this action")
	ErrConfirmDeclined  = NewDomainError("CONFIRM_DECLINED", "Action was not confirmed")
	ErrValidationFailed = NewDomainError("VALIDATION_FAILED", "One or more fields are invalid")
)
