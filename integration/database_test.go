//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/feedstore"
	"github.com/huangsam/feedstore/internal/iocache"
	"github.com/huangsam/feedstore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer starts req and terminates it when the test ends.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) (string, string) {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, port)
	require.NoError(t, err)
	return host, mapped.Port()
}

// exerciseBlobStore runs the core store guarantees in process against blob.
func exerciseBlobStore(t *testing.T, blob contract.BlobStore) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := feedstore.New(blob, feedstore.WithKey("integration_"+uuid.NewString()[:8]))
	defer func() { _ = store.Close(ctx) }()

	result, err := feedstore.Retrieve(ctx, store)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())

	img, err := schema.NewFeedImage(uuid.New(), nil, nil, "https://x/1")
	require.NoError(t, err)
	ts := time.Date(2024, time.March, 1, 10, 30, 0, 123000000, time.UTC)
	require.NoError(t, feedstore.Insert(ctx, store, []schema.FeedImage{img}, ts))

	result, err = feedstore.Retrieve(ctx, store)
	require.NoError(t, err)
	record, ok := result.Record()
	require.True(t, ok, "expected found, got %s (%v)", result.Kind, result.Err)
	assert.True(t, schema.NewCacheRecord([]schema.FeedImage{img}, ts).Equal(record))

	// Writes complete in submission order.
	var order []int
	done := make(chan struct{})
	for i := 1; i <= 3; i++ {
		store.Insert(nil, ts, func(err error) {
			assert.NoError(t, err)
			order = append(order, i)
			if i == 3 {
				close(done)
			}
		})
	}
	<-done
	assert.Equal(t, []int{1, 2, 3}, order)

	require.NoError(t, feedstore.Delete(ctx, store))
	result, err = feedstore.Retrieve(ctx, store)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

// TestFeedstoreWithMySQL tests the store and the CLI with a MySQL backend.
func TestFeedstoreWithMySQL(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "feedstore",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}, "3306")
	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/feedstore?parseTime=true", host, port)

	t.Run("store", func(t *testing.T) {
		blob, err := iocache.NewSQLBlobStore("feed_cache", schema.MySQLBackend, connStr)
		require.NoError(t, err)
		defer func() { _ = blob.Close() }()
		exerciseBlobStore(t, blob)
	})

	t.Run("cli", func(t *testing.T) {
		t.Setenv("FEEDSTORE_CACHE_BACKEND", "mysql")
		t.Setenv("FEEDSTORE_CACHE_DB_CONNECT", connStr)

		_, err := runFeedstore(t, "", "cache", "clear")
		require.NoError(t, err)
		_, err = runFeedstore(t, "", "cache", "migrate")
		require.NoError(t, err)
		runLifecycle(t)
	})
}

// TestFeedstoreWithPostgres tests the store and the CLI with a PostgreSQL backend.
func TestFeedstoreWithPostgres(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")
	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port)

	t.Run("store", func(t *testing.T) {
		blob, err := iocache.NewSQLBlobStore("feed_cache", schema.PostgreSQLBackend, connStr)
		require.NoError(t, err)
		defer func() { _ = blob.Close() }()
		exerciseBlobStore(t, blob)
	})

	t.Run("cli", func(t *testing.T) {
		t.Setenv("FEEDSTORE_CACHE_BACKEND", "postgresql")
		t.Setenv("FEEDSTORE_CACHE_DB_CONNECT", connStr)

		_, err := runFeedstore(t, "", "cache", "clear")
		require.NoError(t, err)
		_, err = runFeedstore(t, "", "cache", "migrate")
		require.NoError(t, err)
		runLifecycle(t)
	})
}

// TestFeedstoreWithRedis tests the store and the CLI with a Redis backend.
func TestFeedstoreWithRedis(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, "6379")
	connStr := fmt.Sprintf("redis://%s:%s/0", host, port)

	t.Run("store", func(t *testing.T) {
		blob, err := iocache.NewRedisBlobStore(connStr)
		require.NoError(t, err)
		defer func() { _ = blob.Close() }()
		exerciseBlobStore(t, blob)
	})

	t.Run("cli", func(t *testing.T) {
		t.Setenv("FEEDSTORE_CACHE_BACKEND", "redis")
		t.Setenv("FEEDSTORE_CACHE_DB_CONNECT", connStr)

		runLifecycle(t)
		_, err := runFeedstore(t, "", "cache", "clear")
		require.NoError(t, err)
	})
}
