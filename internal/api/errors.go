package api

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`

	// RecognizedForms lists the question forms the router understands.
	// Only set on NO_ROUTE_MATCH responses.
	RecognizedForms []string `json:"recognized_forms,omitempty"`
}

// ErrorCode represents error codes used in API responses
type ErrorCode string

const (
	// ErrorCodeInvalidRequest represents invalid request parameters
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrorCodeNoRouteMatch means no route recognized the question
	ErrorCodeNoRouteMatch ErrorCode = "NO_ROUTE_MATCH"

	// ErrorCodeToolInvocationFailed means the backend tool call failed
	ErrorCodeToolInvocationFailed ErrorCode = "TOOL_INVOCATION_FAILED"

	// ErrorCodeInternalError represents an internal server error
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// APIError represents an API error with status code and message
type APIError struct {
	Code            ErrorCode
	StatusCode      int
	Message         string
	RecognizedForms []string
}

// NewAPIError creates a new API error
func NewAPIError(code ErrorCode, statusCode int, message string) *APIError {
	return &APIError{
		Code:       code,
		StatusCode: statusCode,
		Message:    message,
	}
}

// Error returns the error message
func (e *APIError) Error() string {
	return e.Message
}

// GetResponse returns the error response
func (e *APIError) GetResponse() ErrorResponse {
	return ErrorResponse{
		Error:           string(e.Code),
		Message:         e.Message,
		RecognizedForms: e.RecognizedForms,
	}
}

// GetStatusCode returns the HTTP status code
func (e *APIError) GetStatusCode() int {
	return e.StatusCode
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string, args ...interface{}) *APIError {
	return NewAPIError(
		ErrorCodeInvalidRequest,
		http.StatusBadRequest,
		fmt.Sprintf(message, args...),
	)
}

// NewNoRouteMatchError creates the error for questions no route recognizes.
// The recognized forms travel with it so the client learns what to ask.
func NewNoRouteMatchError(question string, forms []string) *APIError {
	err := NewAPIError(
		ErrorCodeNoRouteMatch,
		http.StatusBadRequest,
		fmt.Sprintf("no route matches question %q", question),
	)
	err.RecognizedForms = forms
	return err
}

// NewToolInvocationError creates the error for failed backend tool calls.
// The message carries the backend identity and raw failure detail.
func NewToolInvocationError(message string, args ...interface{}) *APIError {
	return NewAPIError(
		ErrorCodeToolInvocationFailed,
		http.StatusBadGateway,
		fmt.Sprintf(message, args...),
	)
}

// NewInternalServerError creates an internal server error
func NewInternalServerError(message string, args ...interface{}) *APIError {
	return NewAPIError(
		ErrorCodeInternalError,
		http.StatusInternalServerError,
		fmt.Sprintf(message, args...),
	)
}
