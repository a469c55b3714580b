// Package feedstore implements the single-slot feed cache.
//
// Every store funnels its operations through its own SerialQueue. Retrieves are
// submitted as async tasks and inserts and deletes as barriers, which gives callers
// these guarantees:
//
//   - write completions arrive in submission order, whatever the latency of each write
//   - a retrieve observes the slot either before or after each write, never mid-write
//   - retrieves between two writes may complete in any order relative to each other
//
// Completions run on queue goroutines, never on the caller's goroutine.
package feedstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/feedstore/internal/codec"
	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/metrics"
	"github.com/huangsam/feedstore/schema"
)

// Store is a FeedStore persisted through a BlobStore.
type Store struct {
	blob  contract.BlobStore
	key   string
	now   func() time.Time
	queue *SerialQueue
}

var _ contract.FeedStore = &Store{} // Compile-time check

// Option configures a Store.
type Option func(*Store)

// WithKey sets the slot key. The default is contract.DefaultCacheKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the clock used for the stored write time.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store over blob. The caller keeps ownership of blob and closes it
// after the store.
func New(blob contract.BlobStore, opts ...Option) *Store {
	s := &Store{
		blob:  blob,
		key:   contract.DefaultCacheKey,
		now:   time.Now,
		queue: NewSerialQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the slot key.
func (s *Store) Key() string { return s.key }

// Retrieve reports the stored record, an empty slot, or a failure.
func (s *Store) Retrieve(completion contract.RetrievalCompletion) {
	err := s.queue.Async(func() {
		start := time.Now()
		result := s.retrieve()
		observe(metrics.OpRetrieve, resultLabel(result), start)
		completion(result)
	})
	if err != nil {
		go completion(schema.FailureResult(ErrStoreClosed))
	}
}

// Insert replaces the slot with images and timestamp.
func (s *Store) Insert(images []schema.FeedImage, timestamp time.Time, completion contract.InsertionCompletion) {
	record := schema.NewCacheRecord(images, timestamp)
	err := s.queue.Barrier(func() {
		start := time.Now()
		err := s.insert(record)
		observe(metrics.OpInsert, errLabel(err), start)
		completion(err)
	})
	if err != nil {
		go completion(ErrStoreClosed)
	}
}

// DeleteCachedFeed empties the slot.
func (s *Store) DeleteCachedFeed(completion contract.DeletionCompletion) {
	err := s.queue.Barrier(func() {
		start := time.Now()
		err := s.delete()
		observe(metrics.OpDelete, errLabel(err), start)
		completion(err)
	})
	if err != nil {
		go completion(ErrStoreClosed)
	}
}

// Close waits for queued operations and rejects new ones.
func (s *Store) Close(ctx context.Context) error {
	return s.queue.Shutdown(ctx)
}

func (s *Store) retrieve() schema.RetrievalResult {
	data, version, _, err := s.blob.Get(s.key)
	if errors.Is(err, contract.ErrCacheMiss) {
		return schema.EmptyResult()
	}
	if errors.Is(err, codec.ErrDecode) {
		metrics.DecodeErrors.Inc()
		return schema.FailureResult(err)
	}
	if err != nil {
		return schema.FailureResult(fmt.Errorf("%w: %w", ErrAdapterRead, err))
	}
	if version != codec.FormatVersion {
		metrics.DecodeErrors.Inc()
		return schema.FailureResult(fmt.Errorf("%w: unsupported format version %d (want %d)", codec.ErrDecode, version, codec.FormatVersion))
	}

	record, err := codec.Decode(data)
	if err != nil {
		metrics.DecodeErrors.Inc()
		return schema.FailureResult(err)
	}
	return schema.FoundResult(record)
}

func (s *Store) insert(record schema.CacheRecord) error {
	data, err := codec.Encode(record)
	if err != nil {
		return err
	}
	metrics.EncodedRecordSizes.Observe(float64(len(data)))

	if err := s.blob.Set(s.key, data, codec.FormatVersion, s.now().Unix()); err != nil {
		return fmt.Errorf("%w: %w", ErrAdapterWrite, err)
	}
	return nil
}

func (s *Store) delete() error {
	if err := s.blob.Delete(s.key); err != nil {
		return fmt.Errorf("%w: %w", ErrAdapterClear, err)
	}
	return nil
}

func observe(op, result string, start time.Time) {
	metrics.StoreOperations.WithLabelValues(op, result).Inc()
	metrics.StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func resultLabel(result schema.RetrievalResult) string {
	switch result.Kind {
	case schema.FoundRetrieval:
		return metrics.ResultFound
	case schema.EmptyRetrieval:
		return metrics.ResultEmpty
	default:
		return metrics.ResultFailure
	}
}

func errLabel(err error) string {
	if err != nil {
		return metrics.ResultFailure
	}
	return metrics.ResultOK
}
