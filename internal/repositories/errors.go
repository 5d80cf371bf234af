package repositories

import "errors"

// ErrNotFound is returned when no user exists for the given key.
var ErrNotFound = errors.New("user not found")
