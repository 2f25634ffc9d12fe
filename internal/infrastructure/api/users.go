package api

import (
	"context"
	"errors"
	"net/http"

	"cameroonmark/internal/domain/user"
)

var errMissingUser = errors.New("response has no user")

// GetCurrentUser handles GET /users/me
func (c *Client) GetCurrentUser(ctx context.Context) (*user.User, error) {
	var resp userEnvelope
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users/me", out: &resp}); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errMissingUser
	}
	return resp.User, nil
}

// UpdateProfile handles PUT /users/me
func (c *Client) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (*user.User, error) {
	var resp userEnvelope
	if err := c.do(ctx, call{method: http.MethodPut, path: "/users/me", body: req, out: &resp}); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errMissingUser
	}
	return resp.User, nil
}

// ChangePassword handles PUT /users/me/password
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   "/users/me/password",
		body: user.ChangePasswordRequest{
			CurrentPassword: currentPassword,
			NewPassword:     newPassword,
		},
	})
}
