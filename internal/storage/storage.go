// Package storage writes listing images to an S3-compatible bucket and builds
// the public URLs they are served from.
package storage

import "errors"

var (
	// ErrObjectExists is returned by Put when upsert is off and the key is taken
	ErrObjectExists = errors.New("storage: object already exists")
	// ErrUnavailable is returned while the circuit breaker is open
	ErrUnavailable = errors.New("storage: temporarily unavailable")
)

// PutOptions controls a single object write
type PutOptions struct {
	ContentType string
	Upsert      bool
}

// Object identifies a stored object as "<bucket>/<object key>"
type Object struct {
	Key string
}
