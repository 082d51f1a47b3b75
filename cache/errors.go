package cache

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for caching operations.
var (
	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidKey is returned for empty keys or keys with whitespace.
	ErrInvalidKey = errors.New("invalid cache key")
)

func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, " \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
