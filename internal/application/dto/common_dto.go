// Package dto contains data transfer objects.
package dto

import "github.com/hapkiduki/boxspec-go/internal/domain/calculator"

// Health statuses reported by HealthResponse and HealthCheckResult.
const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
	CheckUp        = "up"
	CheckDown      = "down"
)

// PaginateResponse represents a paginated list of items.
// It is generic to support any item type.
type PaginateResponse[T any] struct {
	// Items is the list of items in this page.
	Items []T `json:"items"`

	// Total is the number of matching items across all pages.
	Total int64 `json:"total"`

	Limit  int `json:"limit"`
	Offset int `json:"offset"`

	// HasMore reports whether items exist beyond this page.
	HasMore bool `json:"has_more"`
}

// NewPaginateResponse wraps one page of items.
//
// Parameters:
//   - items: the page
//   - total: number of matches ignoring limit and offset
//   - limit, offset: the requested window
//
// Returns:
//   - *PaginateResponse[T]: the page with HasMore set
func NewPaginateResponse[T any](items []T, total int64, limit, offset int) *PaginateResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginateResponse[T]{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(items)) < total,
	}
}

// APIResponse is the envelope of every API response.
type APIResponse[T any] struct {
	Success bool          `json:"success"`
	Data    T             `json:"data,omitempty"`
	Error   *APIError     `json:"error,omitempty"`
	Meta    *ResponseMeta `json:"meta,omitempty"`
}

// APIError represents error details in an API response.
type APIError struct {
	// Code is a stable machine readable code, e.g. "VALIDATION_ERROR".
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// ValidationErrors lists every rejected field of a calculation request.
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
}

// ValidationError is one rejected request field.
type ValidationError = calculator.FieldError

// ResponseMeta contains metadata about the response.
type ResponseMeta struct {
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates a new API error response.
//
// Parameters:
//   - code: The error code
//   - message: The error message
//
// Returns:
//   - APIResponse[T]: The error response wrapper
func NewErrorResponse[T any](code, message string) APIResponse[T] {
	return APIResponse[T]{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}
}

// NewValidationErrorResponse reports every field of verr.
//
// Parameters:
//   - verr: the rejected calculation input
//
// Returns:
//   - APIResponse[T]: a VALIDATION_ERROR envelope
func NewValidationErrorResponse[T any](verr *calculator.ValidationError) APIResponse[T] {
	fields := make([]ValidationError, len(verr.Fields))
	copy(fields, verr.Fields)
	return APIResponse[T]{
		Success: false,
		Error: &APIError{
			Code:             "VALIDATION_ERROR",
			Message:          "Box input validation failed",
			ValidationErrors: fields,
		},
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Status is HealthHealthy or HealthDegraded.
	Status  string `json:"status"`
	Version string `json:"version"`

	// Uptime is how long the service has been running.
	Uptime string `json:"uptime"`

	Checks map[string]HealthCheckResult `json:"checks"`
}

// HealthCheckResult is the state of one dependency.
type HealthCheckResult struct {
	// Status is CheckUp or CheckDown.
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`

	// ResponseTime is the time taken to respond in milliseconds.
	ResponseTime int64 `json:"response_time_ms,omitempty"`
}
