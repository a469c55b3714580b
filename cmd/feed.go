package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/feedstore/internal/codec"
	"github.com/huangsam/feedstore/internal/feedstore"
	"github.com/huangsam/feedstore/internal/outwriter"
	"github.com/huangsam/feedstore/schema"
	"github.com/spf13/cobra"
)

// retrieveCmd prints the cached feed.
var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Print the cached feed",
	Long: `Read the feed stored under the configured key.

The result is one of:
- Found: the images and timestamp of the last insert
- Empty: nothing has been inserted, or the feed was deleted
- Failure: the stored bytes could not be read (they are left untouched)

Examples:
  # Show the cached feed as a table
  feedstore retrieve

  # Dump it as JSON from a Redis backend
  FEEDSTORE_CACHE_BACKEND=redis FEEDSTORE_CACHE_DB_CONNECT=redis://localhost:6379/0 feedstore retrieve --output json`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := feedStore()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(rootCtx, cfg.Timeout)
		defer cancel()

		start := time.Now()
		result, err := feedstore.Retrieve(ctx, store)
		if err != nil {
			return fmt.Errorf("retrieve did not complete: %w", err)
		}
		if err := outwriter.NewOutWriter().WriteRetrieval(result, cfg, time.Since(start)); err != nil {
			return err
		}
		if result.IsFailure() {
			return result.Err
		}
		return nil
	},
}

// insertCmd replaces the cached feed.
var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Replace the cached feed with a list of images",
	Long: `Replace whatever the slot holds with the given images.

Images are read as a JSON array from --images-file (or stdin):

  [{"id":"<uuid>","description":null,"location":"Lisbon","url":"https://..."}]

Examples:
  # Insert from a file with an explicit timestamp
  feedstore insert --images-file feed.json --timestamp 2024-03-01T10:30:00Z

  # Pipe images in
  cat feed.json | feedstore insert`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		images, err := readImages(cfg.ImagesFile)
		if err != nil {
			return err
		}
		ts := cfg.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}

		store, err := feedStore()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(rootCtx, cfg.Timeout)
		defer cancel()

		start := time.Now()
		opErr := feedstore.Insert(ctx, store, images, ts)
		if err := outwriter.NewOutWriter().WriteAck("insert", opErr, cfg, time.Since(start)); err != nil {
			return err
		}
		return opErr
	},
}

// deleteCmd empties the slot.
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the cached feed",
	Long: `Empty the slot under the configured key. Deleting an empty slot succeeds.

Examples:
  feedstore delete
  feedstore delete --cache-key home_feed`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := feedStore()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(rootCtx, cfg.Timeout)
		defer cancel()

		start := time.Now()
		opErr := feedstore.Delete(ctx, store)
		if err := outwriter.NewOutWriter().WriteAck("delete", opErr, cfg, time.Since(start)); err != nil {
			return err
		}
		return opErr
	},
}

// readImages decodes a JSON array of images from path, or stdin when path is "-".
func readImages(path string) ([]schema.FeedImage, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read images from %s: %w", path, err)
	}

	images, err := codec.DecodeImages(data)
	if err != nil {
		return nil, fmt.Errorf("invalid images in %s: %w", path, err)
	}
	return images, nil
}
