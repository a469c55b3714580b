// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRetrieval prints a retrieve result using the configured output format.
func (ow *OutWriter) WriteRetrieval(result schema.RetrievalResult, cfg *contract.Config, duration time.Duration) error {
	return WriteRetrievalResult(result, cfg, duration)
}

// WriteStatus prints the cache status using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.CacheStatus, cfg *contract.Config) error {
	return WriteCacheStatus(status, cfg)
}

// WriteAck prints the outcome of an insert or delete using the configured output format.
func (ow *OutWriter) WriteAck(op string, err error, cfg *contract.Config, duration time.Duration) error {
	return WriteAckResult(op, err, cfg, duration)
}
