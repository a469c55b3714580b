package cmd

import (
	"context"
	"os"

	"github.com/huangsam/feedstore/internal/iocache"
	"github.com/spf13/cobra"
)

// exportCmd exports the cached feed to a Parquet file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the cached feed to Parquet for analytics tools",
	Long: `Export the cached feed as one Parquet row per image.

Each row carries the cache key, the image position, its fields and the feed timestamp.

Requires: --output-file parameter

Examples:
  feedstore export --output-file feed.parquet
  duckdb -c "SELECT url FROM read_parquet('feed.parquet') ORDER BY position"`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := feedStore()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(rootCtx, cfg.Timeout)
		defer cancel()
		return iocache.ExecuteFeedExport(ctx, os.Stdout, store, cfg.CacheKey, cfg.OutputFile)
	},
}
