// Package storage keeps the device-scoped key/value fragments that overlay
// the baseline catalog: products, menu, orders, registered users and the
// session token.
package storage

import (
	"context"
	"errors"
)

// Fragment keys
const (
	KeyProducts = "products"
	KeyMenu     = "menu"
	KeyOrders   = "orders"
	KeyUsers    = "users"
	KeySession  = "session"
)

// ErrNotFound is returned by Get when a key has never been written
var ErrNotFound = errors.New("storage: key not found")

// Storage is a whole-value key/value store. The sqlite and redis drivers
// apply SetMany as one transaction. The file driver stages every entry
// first, so only an error during the final renames can leave fragments
// from two generations side by side.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
