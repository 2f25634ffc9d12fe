package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"cameroonmark/internal/domain/auth"
	"cameroonmark/internal/domain/cart"
	"cameroonmark/internal/domain/product"
	"cameroonmark/internal/domain/user"
	"cameroonmark/internal/infrastructure/api"
)

// Response represents a standard API response
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// SendJSON sends a JSON response
func SendJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(w http.ResponseWriter, message string, data any) {
	SendJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SendError sends an error JSON response
func SendError(w http.ResponseWriter, message string, statusCode int) {
	SendJSON(w, statusCode, Response{
		Success: false,
		Message: message,
	})
}

// SendFailure maps a service error to a status code and message
func SendFailure(w http.ResponseWriter, err error, fallback string) {
	var validation *auth.ValidationError
	if errors.As(err, &validation) {
		SendJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Message: messageOf(err, "Validation failed"),
			Errors:  validation.Details["errors"],
		})
		return
	}

	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		SendError(w, "Authentication required", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrSuperseded):
		SendError(w, "Request was superseded by a newer one", http.StatusConflict)
	case errors.Is(err, product.ErrProductNotFound):
		SendError(w, "Product not found", http.StatusNotFound)
	case errors.Is(err, cart.ErrItemNotFound):
		SendError(w, "Item is not in the cart", http.StatusNotFound)
	case errors.Is(err, cart.ErrInsufficientStock):
		SendError(w, "Not enough stock for this product", http.StatusConflict)
	case errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrInvalidName),
		errors.Is(err, user.ErrInvalidPassword),
		errors.Is(err, user.ErrInvalidRole):
		SendError(w, err.Error(), http.StatusBadRequest)
	default:
		if apiErr, ok := api.AsError(err); ok && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			SendError(w, messageOf(err, fallback), apiErr.StatusCode)
			return
		}
		SendError(w, fallback, http.StatusBadGateway)
	}
}

func messageOf(err error, fallback string) string {
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
