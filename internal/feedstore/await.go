package feedstore

import (
	"context"
	"time"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/schema"
)

// Retrieve submits a retrieve and waits for its result or for ctx to end.
// An ended ctx does not cancel the operation; it still runs and its result is dropped.
func Retrieve(ctx context.Context, store contract.FeedStore) (schema.RetrievalResult, error) {
	done := make(chan schema.RetrievalResult, 1)
	store.Retrieve(func(result schema.RetrievalResult) { done <- result })

	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		return schema.RetrievalResult{}, ctx.Err()
	}
}

// Insert submits an insert and waits for it to complete or for ctx to end.
func Insert(ctx context.Context, store contract.FeedStore, images []schema.FeedImage, timestamp time.Time) error {
	done := make(chan error, 1)
	store.Insert(images, timestamp, func(err error) { done <- err })
	return wait(ctx, done)
}

// Delete submits a delete and waits for it to complete or for ctx to end.
func Delete(ctx context.Context, store contract.FeedStore) error {
	done := make(chan error, 1)
	store.DeleteCachedFeed(func(err error) { done <- err })
	return wait(ctx, done)
}

func wait(ctx context.Context, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
