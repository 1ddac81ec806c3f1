// Package kv defines the string key-value store the trackers persist to.
//
// A store is bound to a single namespace when it is created; keys used by one
// namespace never collide with another. Values are opaque strings, normally
// JSON documents.
package kv

import "context"

// Ports for storage adapters.
type (
	Reader interface {
		// Get returns the value for key and whether it was present.
		Get(ctx context.Context, key string) (value string, found bool, err error)
	}

	Writer interface {
		// Set stores value under key, replacing any previous value.
		Set(ctx context.Context, key, value string) error
		// Remove deletes key. Removing a missing key is not an error.
		Remove(ctx context.Context, key string) error
	}

	Store interface {
		Reader
		Writer
	}
)

// DefaultNamespace is used when configuration does not name one.
const DefaultNamespace = "lifelog"
