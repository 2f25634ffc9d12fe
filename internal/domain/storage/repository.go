package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is the durable key-value storage the stores mirror their state into.
// Values are opaque strings, usually JSON.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes keys; absent keys are not an error.
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

// Keys names the storage slots used by the session and cart stores
type Keys struct {
	Token string
	User  string
	Cart  string
}

// DefaultPrefix is the key prefix used when none is configured
const DefaultPrefix = "cameroon_mark"

// NewKeys builds the key set for a prefix
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{
		Token: prefix + "_token",
		User:  prefix + "_user",
		Cart:  prefix + "_cart",
	}
}
