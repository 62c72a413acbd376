// Package store provides the key-value persistence the engine reads and
// writes its state through.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by KV.Get when no value is stored under a key.
var ErrNotFound = errors.New("store: key not found")

// KV is a string-keyed store of JSON documents.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Lookup is the outcome of loading a JSON document. A document that is
// missing or cannot be decoded is not Found; Err carries the reason for
// anything other than plain absence.
type Lookup[T any] struct {
	Value T
	Found bool
	Err   error
}

// OrElse returns the loaded value, or def when nothing usable was found.
func (l Lookup[T]) OrElse(def T) T {
	if !l.Found {
		return def
	}
	return l.Value
}

// Load reads and decodes the document stored under key.
func Load[T any](ctx context.Context, kv KV, key string) Lookup[T] {
	var zero T
	return LoadOnto(ctx, kv, key, zero)
}

// LoadOnto decodes the document stored under key on top of base, so fields
// absent from the document keep base's values.
func LoadOnto[T any](ctx context.Context, kv KV, key string, base T) Lookup[T] {
	return LoadValidated(ctx, kv, key, base, nil)
}

// decodeOnto unmarshals raw over a copy of base.
func decodeOnto[T any](key string, raw []byte, base T) Lookup[T] {
	v := base
	if err := json.Unmarshal(raw, &v); err != nil {
		return Lookup[T]{Value: base, Err: fmt.Errorf("decode %q: %w", key, err)}
	}
	return Lookup[T]{Value: v, Found: true}
}

// Save encodes v as JSON and stores it under key.
func Save[T any](ctx context.Context, kv KV, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}
