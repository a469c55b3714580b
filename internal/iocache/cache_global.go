package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/feedstore"
	"github.com/huangsam/feedstore/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &FeedStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for feed storage.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// NewFeedStoreManager opens the blob store for backend and builds a feed store keyed by key.
// The memory backend has no blob store and keeps the record in process.
func NewFeedStoreManager(backend schema.DatabaseBackend, connStr, key string) (*FeedStoreManager, error) {
	mgr := &FeedStoreManager{backend: backend, key: key}

	switch {
	case backend == schema.MemoryBackend:
		mgr.feed = feedstore.NewInMemoryStore()
		return mgr, nil

	case backend == schema.RedisBackend:
		blob, err := NewRedisBlobStore(connStr)
		if err != nil {
			return nil, err
		}
		mgr.blob = blob

	case backend.IsSQL():
		blob, err := NewSQLBlobStore(feedTable, backend, connStr)
		if err != nil {
			return nil, err
		}
		mgr.blob = blob

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, redis or memory", backend)
	}

	mgr.feed = feedstore.New(mgr.blob, feedstore.WithKey(key))
	return mgr, nil
}

// InitStores initializes the global manager.
func InitStores(backend schema.DatabaseBackend, connStr, key string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		mgr, err := NewFeedStoreManager(backend, connStr, key)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize feed store: %w", err)
			return
		}

		// Assign to global manager
		Manager.Lock()
		defer Manager.Unlock()
		Manager.backend = mgr.backend
		Manager.key = mgr.key
		Manager.feed = mgr.feed
		Manager.blob = mgr.blob
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores(ctx context.Context) error { // called in main defer
	var closeErr error
	closeOnce.Do(func() {
		closeErr = Manager.Close(ctx)
	})
	return closeErr
}

// Close drains the feed store, then closes the blob store behind it.
func (mgr *FeedStoreManager) Close(ctx context.Context) error {
	mgr.Lock()
	defer mgr.Unlock()

	var feedErr, blobErr error
	if mgr.feed != nil {
		feedErr = mgr.feed.Close(ctx)
	}
	if mgr.blob != nil {
		blobErr = mgr.blob.Close()
	}
	if feedErr != nil {
		return fmt.Errorf("failed to drain feed store: %w", feedErr)
	}
	if blobErr != nil {
		return fmt.Errorf("failed to close %s store: %w", mgr.backend, blobErr)
	}
	return nil
}

// ClearCache clears the stored feed for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For Redis, it deletes the key.
// For the memory backend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr, key string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTable(backend, connStr, feedTable)

	case schema.RedisBackend:
		store, err := NewRedisBlobStore(connStr)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		if err := store.Delete(key); err != nil {
			return fmt.Errorf("failed to delete redis key %s: %w", key, err)
		}
		return nil

	case schema.MemoryBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	db, err := sql.Open(driverName(backend), connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
