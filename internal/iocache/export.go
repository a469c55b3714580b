package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/feedstore/internal/contract"
	"github.com/huangsam/feedstore/internal/feedstore"
	"github.com/huangsam/feedstore/internal/parquet"
)

// ExecuteFeedExport writes the feed held by store to a Parquet file.
func ExecuteFeedExport(ctx context.Context, w io.Writer, store contract.FeedStore, key, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	result, err := feedstore.Retrieve(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to retrieve feed: %w", err)
	}
	if result.IsFailure() {
		return fmt.Errorf("failed to retrieve feed: %w", result.Err)
	}
	record, ok := result.Record()
	if !ok {
		return errors.New("no cached feed found to export")
	}

	rows := parquet.ConvertFeedRecord(key, record)
	if err := parquet.WriteFeedParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Exported %d images from %s to: %s\n", len(rows), key, outputFile)
	return nil
}
