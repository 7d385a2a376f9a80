// Package metadata is the client's durable key/value slot. The session store
// keeps the serialized identity under a single key here; the credential
// authenticator keeps salts and verifiers next to it.
package metadata

import (
	"context"
)

// Repository is a small key/value store. Get returns (nil, nil) for an
// absent key and Delete of an absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all entries atomically: either every key is updated or none is.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
