package user

import "errors"

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
	ErrInvalidRole     = errors.New("role must be buyer or seller")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
)
