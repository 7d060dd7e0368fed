package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/api/shared"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service/auth"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/validation"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get fact: %w", store.ErrNotFound), http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"duplicate", store.ErrEmailExists, http.StatusConflict},
		{"domain validation", domain.NewValidationError("title", "is required", nil), http.StatusBadRequest},
		{"field errors", validation.New("index", "is required"), http.StatusBadRequest},
		{"invalid order", service.ErrInvalidOrder, http.StatusBadRequest},
		{"invalid json", shared.ErrInvalidJSON, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"blob failure", service.ErrBlob, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Invalid credentials", GetSafeErrorMessage(auth.ErrInvalidCredentials))
	assert.Equal(t, "Authentication required", GetSafeErrorMessage(auth.ErrMissingToken))
	assert.Equal(t, "User not found", GetSafeErrorMessage(store.ErrUserNotFound))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "Resource not found", GetSafeErrorMessage(store.ErrNotFound))
	assert.Equal(t, "Invalid fact order", GetSafeErrorMessage(service.ErrInvalidOrder))
	assert.Equal(t, "Validation failed", GetSafeErrorMessage(domain.ErrValidation))

	internal := fmt.Errorf("query failed: pq: relation \"streetcodes\" at 10.1.2.3: %w", errors.New("timeout"))
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "10.1.2.3")
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
		t.Helper()
		var resp shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	t.Run("validation errors carry fields", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/facts", nil)
		HandleAPIError(rec, req, domain.NewValidationError("title", "is required", nil), "ignored")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "Validation failed", resp.Error)
		assert.Equal(t, []validation.FieldError{{Field: "title", Message: "is required"}}, resp.Fields)
	})

	t.Run("fallback replaces the generic 500 message", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/facts", nil)
		HandleAPIError(rec, req, errors.New("dial tcp 10.0.0.1:5432"), "Failed to list facts")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "Failed to list facts", resp.Error)
		assert.Empty(t, resp.Fields)
		assert.NotContains(t, rec.Body.String(), "10.0.0.1")
	})

	t.Run("fallback does not hide client errors", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/facts/9", nil)
		HandleAPIError(rec, req, store.ErrNotFound, "Failed to get fact")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Resource not found", decode(t, rec).Error)
	})

	t.Run("server errors are logged redacted", func(t *testing.T) {
		t.Parallel()
		ctx, logs := logger.CaptureContext(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/terms", nil).WithContext(ctx)
		HandleAPIError(rec, req,
			errors.New("connect postgres://streetcode:hunter22@db:5432/streetcode failed"), "Failed to list terms")

		entry := logs.Find(t, "API error response")
		require.NotNil(t, entry)
		assert.Equal(t, "ERROR", entry["level"])
		assert.EqualValues(t, http.StatusInternalServerError, entry["status_code"])
		assert.NotContains(t, entry["error"], "hunter22")
	})

	t.Run("client errors are logged at debug", func(t *testing.T) {
		t.Parallel()
		ctx, logs := logger.CaptureContext(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/terms/4", nil).WithContext(ctx)
		HandleAPIError(rec, req, store.ErrNotFound, "")

		entry := logs.Find(t, "API error response")
		require.NotNil(t, entry)
		assert.Equal(t, "DEBUG", entry["level"])
	})
}
