package contract

import (
	"errors"

	"github.com/huangsam/feedstore/schema"
)

// ErrCacheMiss is returned by a BlobStore when nothing is stored under a key.
var ErrCacheMiss = errors.New("cache miss")

// BlobStore defines the interface for the raw byte storage behind a feed store.
// It gives no ordering guarantees of its own; callers serialize access.
type BlobStore interface {
	// Get returns the value, its format version and its write time in unix seconds.
	// It returns ErrCacheMiss when the key is absent.
	Get(key string) ([]byte, int, int64, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte, version int, timestamp int64) error

	// Delete removes key. A missing key is not an error.
	Delete(key string) error

	// GetStatus returns status information about key and the backend.
	GetStatus(key string) (schema.CacheStatus, error)

	Close() error
}
