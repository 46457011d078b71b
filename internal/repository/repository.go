package repository

import "errors"

// ErrNotFound is returned by all repositories when no row matches. Services
// translate it into the caller-facing not-found error.
var ErrNotFound = errors.New("not found")
