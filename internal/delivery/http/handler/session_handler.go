package handler

import (
	"encoding/json"
	"net/http"

	"cameroonmark/internal/application/session"
	"cameroonmark/internal/domain/auth"
	"cameroonmark/internal/domain/user"
)

// SessionHandler exposes the session store to the storefront UI
type SessionHandler struct {
	service session.Service
}

func NewSessionHandler(service session.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

// Current handles GET /api/session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	SendSuccess(w, "", h.service.Current())
}

// Login handles POST /api/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		SendFailure(w, err, "")
		return
	}

	u, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		SendFailure(w, err, "Failed to login")
		return
	}

	SendSuccess(w, "Welcome back, "+u.Name, u)
}

// Register handles POST /api/session/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = user.RoleBuyer
	}
	if err := req.Validate(); err != nil {
		SendFailure(w, err, "")
		return
	}

	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		SendFailure(w, err, "Failed to register")
		return
	}

	SendSuccess(w, "Account created", u)
}

// Logout handles POST /api/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.service.Logout(r.Context())
	SendSuccess(w, "Logged out successfully", nil)
}

// ResetPassword handles POST /api/session/reset-password
func (h *SessionHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req auth.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !auth.IsValidEmail(req.Email) {
		SendFailure(w, user.ErrInvalidEmail, "")
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email); err != nil {
		SendFailure(w, err, "Failed to request password reset")
		return
	}

	SendSuccess(w, "Check your email for a reset link", nil)
}

// UpdateProfile handles PUT /api/session/profile
func (h *SessionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), req)
	if err != nil {
		SendFailure(w, err, "Failed to update profile")
		return
	}

	SendSuccess(w, "Profile updated successfully", u)
}

// ChangePassword handles PUT /api/session/password
func (h *SessionHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req user.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CurrentPassword == "" || len(req.NewPassword) < 6 {
		SendError(w, "Current password and a new password of at least 6 characters are required", http.StatusBadRequest)
		return
	}

	if err := h.service.ChangePassword(r.Context(), req); err != nil {
		SendFailure(w, err, "Failed to change password")
		return
	}

	SendSuccess(w, "Password updated successfully", nil)
}
