// Package contract provides interfaces and shared utilities for the feed store's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/feedstore/schema"
)

// RetrievalCompletion receives the result of a retrieve exactly once.
type RetrievalCompletion func(result schema.RetrievalResult)

// InsertionCompletion receives the result of an insert exactly once. A nil error means success.
type InsertionCompletion func(err error)

// DeletionCompletion receives the result of a delete exactly once. A nil error means success.
type DeletionCompletion func(err error)

// FeedStore is a single-slot cache for one feed snapshot.
//
// Operations never block the caller. Each one reports through its completion exactly
// once, possibly on another goroutine. Inserts and deletes are barriers: their
// completions arrive in submission order, and no retrieve overlaps them.
type FeedStore interface {
	// Retrieve reports the stored record, an empty slot, or a failure. It never mutates the slot.
	Retrieve(completion RetrievalCompletion)

	// Insert replaces whatever the slot holds with images and timestamp.
	Insert(images []schema.FeedImage, timestamp time.Time, completion InsertionCompletion)

	// DeleteCachedFeed empties the slot. Deleting an empty slot succeeds.
	DeleteCachedFeed(completion DeletionCompletion)

	// Close drains queued operations and rejects new ones.
	Close(ctx context.Context) error
}

// StoreManager defines the interface for managing the configured stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetFeedStore() FeedStore
	GetBlobStore() BlobStore
}
