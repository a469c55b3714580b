package iocache

import (
	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetFeedStore implements the StoreManager interface.
func (m *MockStoreManager) GetFeedStore() contract.FeedStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.FeedStore)
	return store
}

// GetBlobStore implements the StoreManager interface.
func (m *MockStoreManager) GetBlobStore() contract.BlobStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.BlobStore)
	return store
}

// MockBlobStore is a mock implementation of BlobStore for testing.
type MockBlobStore struct {
	mock.Mock
}

var _ contract.BlobStore = &MockBlobStore{} // Compile-time check

// Get implements the BlobStore interface.
func (m *MockBlobStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the BlobStore interface.
func (m *MockBlobStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Delete implements the BlobStore interface.
func (m *MockBlobStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// GetStatus implements the BlobStore interface.
func (m *MockBlobStore) GetStatus(key string) (schema.CacheStatus, error) {
	args := m.Called(key)
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the BlobStore interface.
func (m *MockBlobStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
