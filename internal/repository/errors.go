// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as services and handlers to distinguish between failure
// scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique
// index on users.email. Exactly one of two concurrent signups with
// the same address receives this error; the constraint, not
// application locking, provides the guarantee.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a lookup matches no row. Handlers
// translate it into 404 or 401 depending on the operation.
var ErrNotFound = errors.New("not found")
