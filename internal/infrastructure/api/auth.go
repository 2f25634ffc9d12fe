package api

import (
	"context"
	"net/http"

	"cameroonmark/internal/domain/auth"
	"cameroonmark/internal/domain/user"
)

type registerPayload struct {
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Password             string    `json:"password"`
	PasswordConfirmation string    `json:"password_confirmation"`
	Phone                string    `json:"phone"`
	Role                 user.Role `json:"role"`
}

type userEnvelope struct {
	User *user.User `json:"user"`
}

// Login handles POST /auth/login
func (c *Client) Login(ctx context.Context, email, password string) (*auth.AuthResponse, error) {
	var resp auth.AuthResponse
	err := c.do(ctx, call{
		method:          http.MethodPost,
		path:            "/auth/login",
		body:            auth.LoginRequest{Email: email, Password: password},
		out:             &resp,
		credentialCheck: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register handles POST /auth/register. The form has a single password field, so it is
// sent as its own confirmation.
func (c *Client) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	var resp auth.AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/register",
		body: registerPayload{
			Name:                 req.Name,
			Email:                req.Email,
			Password:             req.Password,
			PasswordConfirmation: req.Password,
			Role:                 req.Role,
		},
		out:             &resp,
		credentialCheck: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword handles POST /auth/reset-password
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method:          http.MethodPost,
		path:            "/auth/reset-password",
		body:            auth.ResetPasswordRequest{Email: email},
		credentialCheck: true,
	})
}
