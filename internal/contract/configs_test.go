package contract

import (
	"strings"
	"testing"
	"time"

	"github.com/huangsam/feedstore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		CacheBackend: string(schema.SQLiteBackend),
		Output:       string(schema.TextOut),
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:        "invalid backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "leveldb" },
			expectError: "invalid cache backend",
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "yaml" },
			expectError: "invalid output format",
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "sometimes" },
			expectError: "invalid --color value",
		},
		{
			name:        "negative width",
			mutate:      func(in *ConfigRawInput) { in.Width = -1 },
			expectError: "width cannot be negative",
		},
		{
			name:        "invalid timeout",
			mutate:      func(in *ConfigRawInput) { in.Timeout = "soon" },
			expectError: "invalid --timeout value",
		},
		{
			name:        "zero timeout",
			mutate:      func(in *ConfigRawInput) { in.Timeout = "0s" },
			expectError: "timeout must be greater than 0",
		},
		{
			name:        "invalid timestamp",
			mutate:      func(in *ConfigRawInput) { in.Timestamp = "yesterday" },
			expectError: "invalid --timestamp value",
		},
		{
			name:        "key with whitespace",
			mutate:      func(in *ConfigRawInput) { in.CacheKey = "feed cache" },
			expectError: "invalid cache key",
		},
		{
			name: "mysql without connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
			},
			expectError: "cache-db-connect is required",
		},
		{
			name: "memory backend",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "MEMORY"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, DefaultCacheKey, cfg.CacheKey)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "-", cfg.ImagesFile)
	assert.True(t, cfg.Timestamp.IsZero())
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateInsertInputs(t *testing.T) {
	input := validInput()
	input.ImagesFile = "feed.json"
	input.Timestamp = "2024-03-01T10:30:00Z"
	input.Timeout = "250ms"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "feed.json", cfg.ImagesFile)
	assert.Equal(t, time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC), cfg.Timestamp)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite without conn", schema.SQLiteBackend, "", false},
		{"memory without conn", schema.MemoryBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:secret@tcp(localhost:3306)/feeds", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:secret@localhost/feeds", true},
		{"mysql missing db", schema.MySQLBackend, "root:secret@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 user=postgres dbname=feeds", false},
		{"postgres missing host", schema.PostgreSQLBackend, "port=5432 dbname=feeds", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"redis valid", schema.RedisBackend, "redis://localhost:6379/0", false},
		{"redis empty", schema.RedisBackend, "", true},
		{"redis wrong scheme", schema.RedisBackend, "http://localhost:6379", true},
		{"unknown backend", schema.DatabaseBackend("leveldb"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCacheKey(t *testing.T) {
	assert.NoError(t, ValidateCacheKey(DefaultCacheKey))
	assert.NoError(t, ValidateCacheKey("feeds:v1/home"))
	assert.Error(t, ValidateCacheKey(""))
	assert.Error(t, ValidateCacheKey("tab\tkey"))
	assert.Error(t, ValidateCacheKey(strings.Repeat("k", MaxCacheKeyLen+1)))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{CacheKey: "a", Timeout: time.Second}
	clone := cfg.Clone()
	clone.CacheKey = "b"

	assert.Equal(t, "a", cfg.CacheKey)
	assert.Equal(t, time.Second, clone.Timeout)
}
