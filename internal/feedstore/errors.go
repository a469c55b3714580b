package feedstore

import "errors"

// Errors reported through completions. Adapter failures wrap the underlying cause.
var (
	ErrAdapterRead  = errors.New("cache read failed")
	ErrAdapterWrite = errors.New("cache write failed")
	ErrAdapterClear = errors.New("cache clear failed")
	ErrStoreClosed  = errors.New("feed store is closed")
	ErrQueueClosed  = errors.New("queue is shut down")
)
