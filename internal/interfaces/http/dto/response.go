// Package dto defines the wire shape of the storefront API. Every
// response is an envelope: status plus either data or a message.
package dto

// Statuses used in response envelopes
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the uniform API envelope
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries pagination info for list responses
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewSuccessResponse creates a success envelope
func NewSuccessResponse(data any) Response {
	return Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

// NewSuccessResponseWithMeta creates a success envelope with
// pagination meta
func NewSuccessResponseWithMeta(data any, total, limit, offset int) Response {
	return Response{
		Status: StatusSuccess,
		Data:   data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	}
}

// NewErrorResponse creates an error envelope
func NewErrorResponse(message string) Response {
	return Response{
		Status:  StatusError,
		Message: message,
	}
}

// Error codes carried by domain errors, mapped to HTTP statuses
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeSessionRequired  = "SESSION_REQUIRED"
	ErrCodeSubmitInFlight   = "SUBMIT_IN_FLIGHT"
	ErrCodeConfirmDeclined  = "CONFIRM_DECLINED"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeUpstreamFailure  = "UPSTREAM_FAILURE"
	ErrCodeCancelled        = "CANCELLED"
)

// GetHTTPStatus maps a domain error code to an HTTP status
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeNotFound:
		return 404
	case ErrCodeInvalidInput, ErrCodeValidationFailed:
		return 400
	case ErrCodeUnauthorized:
		return 401
	case ErrCodeSessionRequired:
		return 401
	case ErrCodeSubmitInFlight, ErrCodeConfirmDeclined:
		return 409
	case ErrCodeUpstreamFailure:
		return 502
	case ErrCodeCancelled:
		return 499
	default:
		return 500
	}
}
