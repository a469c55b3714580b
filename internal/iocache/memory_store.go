package iocache

import (
	"slices"
	"sync"
	"time"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/schema"
)

type memoryEntry struct {
	value     []byte
	version   int
	timestamp int64
}

// MemoryBlobStore is a volatile BlobStore backed by a map.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

var _ contract.BlobStore = &MemoryBlobStore{} // Compile-time check

// NewMemoryBlobStore returns an empty store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{entries: make(map[string]memoryEntry)}
}

// Get returns a copy of the value stored under key.
func (ms *MemoryBlobStore) Get(key string) ([]byte, int, int64, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	entry, ok := ms.entries[key]
	if !ok {
		return nil, 0, 0, contract.ErrCacheMiss
	}
	return slices.Clone(entry.value), entry.version, entry.timestamp, nil
}

// Set stores a copy of value under key.
func (ms *MemoryBlobStore) Set(key string, value []byte, version int, timestamp int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[key] = memoryEntry{
		value:     slices.Clone(value),
		version:   version,
		timestamp: timestamp,
	}
	return nil
}

// Delete removes key.
func (ms *MemoryBlobStore) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.entries, key)
	return nil
}

// GetStatus returns status information about the slot under key.
func (ms *MemoryBlobStore) GetStatus(key string) (schema.CacheStatus, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	status := schema.CacheStatus{
		Backend:   string(schema.MemoryBackend),
		Connected: true,
		Key:       key,
	}
	for _, entry := range ms.entries {
		status.TableSizeBytes += int64(len(entry.value))
	}
	if entry, ok := ms.entries[key]; ok {
		status.HasRecord = true
		status.FormatVersion = entry.version
		status.LastWriteTime = time.Unix(entry.timestamp, 0)
		status.StoredBytes = int64(len(entry.value))
	}
	return status, nil
}

// Close drops every entry.
func (ms *MemoryBlobStore) Close() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	clear(ms.entries)
	return nil
}
