// Package iocache holds the byte storage behind feed stores and the process-wide store manager.
package iocache

import (
	"context"
	"sync"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/feedstore"
	"github.com/huangsam/feedstore/schema"
)

// FeedStoreManager owns the configured feed store and the blob store behind it.
type FeedStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	backend      schema.DatabaseBackend
	key          string
	feed         contract.FeedStore
	blob         contract.BlobStore
}

var _ contract.StoreManager = &FeedStoreManager{} // Compile-time check

// GetFeedStore returns the configured FeedStore.
func (mgr *FeedStoreManager) GetFeedStore() contract.FeedStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.feed
}

// GetBlobStore returns the BlobStore behind the feed store, or nil for the memory backend.
func (mgr *FeedStoreManager) GetBlobStore() contract.BlobStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.blob
}

// GetStatus reports the state of the configured slot.
func (mgr *FeedStoreManager) GetStatus(ctx context.Context) (schema.CacheStatus, error) {
	mgr.RLock()
	defer mgr.RUnlock()

	if mgr.blob != nil {
		return mgr.blob.GetStatus(mgr.key)
	}

	status := schema.CacheStatus{
		Backend: string(mgr.backend),
		Key:     mgr.key,
	}
	if mgr.feed == nil {
		return status, nil
	}
	status.Connected = true
	result, err := feedstore.Retrieve(ctx, mgr.feed)
	if err != nil {
		return status, err
	}
	status.HasRecord = result.IsFound()
	return status, nil
}
