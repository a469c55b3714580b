package cmd

import (
	"context"
	"fmt"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/iocache"
	"github.com/huangsam/feedstore/internal/outwriter"
	"github.com/huangsam/feedstore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheCmd focused on managing the storage behind the feed.
//
// Note: clear and migrate use adminSetupWrapper instead of the full sharedSetup.
// They work on the table itself and must not hold it open.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the storage behind the cached feed",
	Long: `Manage the backend that persists the cached feed.

Supported backends: SQLite (default), MySQL, PostgreSQL, Redis, or Memory (process lifetime only)

Subcommands:
  status  - Show slot and backend details
  clear   - Remove the stored feed and its table
  migrate - Run database schema migrations

Examples:
  # Check cache status
  feedstore cache status

  # Clear the cache on a MySQL backend
  FEEDSTORE_CACHE_BACKEND=mysql FEEDSTORE_CACHE_DB_CONNECT="user:pass@tcp(localhost:3306)/feeds" feedstore cache clear`,
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display slot details and connection status",
	Long: `Show detailed information about the slot that holds the feed.

Displays:
- Backend type and connection status
- Whether a record is stored and its format version
- When it was last written
- Stored and total table sizes

Examples:
  feedstore cache status
  feedstore cache status --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := context.WithTimeout(rootCtx, cfg.Timeout)
		defer cancel()

		status, err := iocache.Manager.GetStatus(ctx)
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		if err := outwriter.NewOutWriter().WriteStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write cache status", err)
		}
	},
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored feed from the configured backend",
	Long: `Delete the stored feed from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the feed table
For Redis: Deletes the slot key
For Memory: Nothing to do

Examples:
  feedstore cache clear
  FEEDSTORE_CACHE_BACKEND=redis FEEDSTORE_CACHE_DB_CONNECT=redis://localhost:6379/0 feedstore cache clear`,
	PreRunE: adminSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.CacheDBConnect
		if cfg.CacheBackend == schema.SQLiteBackend && dbFilePath == "" {
			dbFilePath = contract.GetCacheDBFilePath()
		}
		if err := iocache.ClearCache(cfg.CacheBackend, dbFilePath, cfg.CacheDBConnect, cfg.CacheKey); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheMigrateCmd runs database migrations for the feed table.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the feed table.

By default, migrates to the latest version. Use --target-version for specific versions.
Only SQL backends (sqlite, mysql, postgresql) have a schema to migrate.

Examples:
  # Migrate to latest version (default)
  feedstore cache migrate

  # Rollback to initial state
  feedstore cache migrate --target-version 0`,
	PreRunE: adminSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateCacheTable(cfg.CacheBackend, cfg.CacheDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
