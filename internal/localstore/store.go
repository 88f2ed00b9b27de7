// Package localstore is the client-local equivalent of browser
// localStorage: a small persistent key/value store. The only durable
// state this application owns lives here (the credential token).
package localstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// TokenKey is the key under which the credential token is persisted.
const TokenKey = "token"

// Store provides persistent string storage keyed by name.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
