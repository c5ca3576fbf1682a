package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeItemNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeVersionConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeSequenceExhausted, http.StatusUnprocessableEntity},
		{ErrCodeInvalidID, http.StatusBadRequest},
		{"INVALID_AMOUNT", http.StatusBadRequest},
		{"INVALID_BUCKET", http.StatusBadRequest},
		{"INVALID_PAYMENT_STATUS", http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponses(t *testing.T) {
	t.Run("with request id", func(t *testing.T) {
		resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Record not found", "req-1")
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		assert.Nil(t, resp.Data)
	})

	t.Run("validation details", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
			{Field: "client_name", Message: "This field is required"},
		})
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"success": false,
			"error": {
				"code": "VALIDATION_ERROR",
				"message": "Request validation failed",
				"request_id": "req-2",
				"details": [{"field": "client_name", "message": "This field is required"}]
			}
		}`, string(data))
	})
}

func TestNewListResponse(t *testing.T) {
	empty := NewListResponse[string](nil)
	data, err := json.Marshal(NewSuccessResponse(empty))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "data": {"items": [], "total": 0}}`, string(data))

	list := NewListResponse([]int{1, 2})
	assert.Equal(t, 2, list.Total)
}
