package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMITED"
)

// Resource error codes, shared with the domain layer
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeItemNotFound    = "ITEM_NOT_FOUND"
	ErrCodeAlreadyExists   = "ALREADY_EXISTS"
	ErrCodeVersionConflict = "VERSION_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeSequenceExhausted = "SEQUENCE_EXHAUSTED"
)

// Input error codes. Domain codes starting with INVALID_ are input errors too.
const (
	ErrCodeInvalidID    = "INVALID_ID"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInvalidJSON  = "INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeItemNotFound:    http.StatusNotFound,
	ErrCodeAlreadyExists:   http.StatusConflict,
	ErrCodeVersionConflict: http.StatusConflict,

	// checked before the INVALID_ prefix rule
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeSequenceExhausted: http.StatusUnprocessableEntity,

	ErrCodeInvalidID:    http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are 400; anything else is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
