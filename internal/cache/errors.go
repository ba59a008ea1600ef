package cache

import "errors"

// ErrNotFound is returned when a catalog entry is not cached
var ErrNotFound = errors.New("catalog entry not found")
