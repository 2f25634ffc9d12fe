package auth

import (
	"regexp"
	"strings"

	"cameroonmark/internal/domain/user"
)

// Status is the lifecycle state of the local session
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusPending         Status = "pending"
	StatusAuthenticated   Status = "authenticated"
)

// Session is a point-in-time view of the session state
type Session struct {
	Status Status     `json:"status"`
	User   *user.User `json:"user,omitempty"`
	Token  string     `json:"-"`
}

// IsAuthenticated reports whether the token has been accepted by the API
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil && s.Token != ""
}

// Role returns the session user's role, or "" when there is no user
func (s Session) Role() user.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request as sent by the UI
type RegisterRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// AuthResponse is returned by the login and register endpoints
type AuthResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail reports whether email looks like an address
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks the login form before it reaches the session store
func (r LoginRequest) Validate() error {
	if !IsValidEmail(strings.TrimSpace(r.Email)) {
		return user.ErrInvalidEmail
	}
	if r.Password == "" {
		return user.ErrInvalidPassword
	}
	return nil
}

// Validate checks the registration form before it reaches the session store
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return user.ErrInvalidName
	}
	if !IsValidEmail(strings.TrimSpace(r.Email)) {
		return user.ErrInvalidEmail
	}
	if len(r.Password) < 6 {
		return user.ErrInvalidPassword
	}
	if !r.Role.CanRegister() {
		return user.ErrInvalidRole
	}
	return nil
}
