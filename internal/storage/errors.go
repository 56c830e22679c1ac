package storage

import "errors"

// ErrNotFound means the key has no value in the store's scope.
var ErrNotFound = errors.New("not found")
