package feedstore

import (
	"context"
	"time"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/metrics"
	"github.com/huangsam/feedstore/schema"
)

// InMemoryStore is a volatile FeedStore that keeps the record itself, for the
// lifetime of the process. It never encodes, so retrieves never fail while open.
type InMemoryStore struct {
	record *schema.CacheRecord // guarded by queue
	queue  *SerialQueue
}

var _ contract.FeedStore = &InMemoryStore{} // Compile-time check

// NewInMemoryStore returns an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{queue: NewSerialQueue()}
}

// Retrieve reports the held record or an empty slot.
func (s *InMemoryStore) Retrieve(completion contract.RetrievalCompletion) {
	err := s.queue.Async(func() {
		start := time.Now()
		result := schema.EmptyResult()
		if s.record != nil {
			result = schema.FoundResult(schema.NewCacheRecord(s.record.Images, s.record.Timestamp))
		}
		observe(metrics.OpRetrieve, resultLabel(result), start)
		completion(result)
	})
	if err != nil {
		go completion(schema.FailureResult(ErrStoreClosed))
	}
}

// Insert replaces the held record.
func (s *InMemoryStore) Insert(images []schema.FeedImage, timestamp time.Time, completion contract.InsertionCompletion) {
	record := schema.NewCacheRecord(images, timestamp)
	err := s.queue.Barrier(func() {
		start := time.Now()
		s.record = &record
		observe(metrics.OpInsert, metrics.ResultOK, start)
		completion(nil)
	})
	if err != nil {
		go completion(ErrStoreClosed)
	}
}

// DeleteCachedFeed drops the held record.
func (s *InMemoryStore) DeleteCachedFeed(completion contract.DeletionCompletion) {
	err := s.queue.Barrier(func() {
		start := time.Now()
		s.record = nil
		observe(metrics.OpDelete, metrics.ResultOK, start)
		completion(nil)
	})
	if err != nil {
		go completion(ErrStoreClosed)
	}
}

// Close waits for queued operations and rejects new ones.
func (s *InMemoryStore) Close(ctx context.Context) error {
	return s.queue.Shutdown(ctx)
}
