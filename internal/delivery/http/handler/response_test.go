package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cameroonmark/internal/domain/auth"
	"cameroonmark/internal/domain/cart"
	"cameroonmark/internal/domain/product"
	"cameroonmark/internal/domain/user"
	"cameroonmark/internal/infrastructure/api"
)

func TestSendFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not authenticated", auth.ErrNotAuthenticated, http.StatusUnauthorized, "Authentication required"},
		{"superseded", auth.ErrSuperseded, http.StatusConflict, "Request was superseded by a newer one"},
		{"missing product", fmt.Errorf("lookup: %w", product.ErrProductNotFound), http.StatusNotFound, "Product not found"},
		{"stock", cart.ErrInsufficientStock, http.StatusConflict, "Not enough stock for this product"},
		{"local validation", user.ErrInvalidEmail, http.StatusBadRequest, "invalid email"},
		{"api client error", &api.Error{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"}, http.StatusUnauthorized, "Invalid email or password"},
		{"api server error", &api.Error{StatusCode: http.StatusInternalServerError, Message: "boom"}, http.StatusBadGateway, "fallback"},
		{"transport", errors.New("connection refused"), http.StatusBadGateway, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SendFailure(rec, tt.err, "fallback")

			assert.Equal(t, tt.status, rec.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestSendFailure_ValidationDetails(t *testing.T) {
	apiErr := &api.Error{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "Validation failed",
		Details: map[string]any{
			"message": "Validation failed",
			"errors":  map[string]any{"email": []any{"Email is already registered"}},
		},
	}
	rec := httptest.NewRecorder()
	SendFailure(rec, &auth.ValidationError{Details: apiErr.Details, Err: apiErr}, "fallback")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Message)
	assert.Equal(t, map[string]any{"email": []any{"Email is already registered"}}, resp.Errors)
}

func TestSessionContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetSessionFromContext(req.Context())
	assert.False(t, ok)

	s := auth.Session{Status: auth.StatusAuthenticated, User: &user.User{ID: "u1"}, Token: "t"}
	got, ok := GetSessionFromContext(WithSession(req.Context(), s))
	require.True(t, ok)
	assert.Equal(t, "u1", got.User.ID)
}
