package kv

import (
	"context"
	"errors"
)

// Common errors returned by the store
var (
	ErrKeyNotFound = errors.New("key not found")
)

// Store is the durable key-value substrate shared by every view of the site.
// Values are opaque strings; callers own serialization. Writes are synchronous
// and last-writer-wins at key granularity - there is no cross-key
// transactionality and no optimistic concurrency check.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set commits value under key, visible to subsequent reads in every
	// context sharing this store
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}

// Record keys used by the core. The three key-spaces are updated
// independently of each other.
const (
	KeyCart     = "cart"
	KeyAuthUser = "authUser"
	KeyOrders   = "ordersByUser"
)
