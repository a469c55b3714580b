// Package parquet provides data structures and functions for exporting the cached
// feed to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/feedstore/schema"
	"github.com/parquet-go/parquet-go"
)

// FeedImageRow represents one image of the cached feed.
type FeedImageRow struct {
	// CacheKey is the slot the feed was read from
	CacheKey string `parquet:"cache_key,snappy"`

	// Position is the 1-based index of the image in the feed
	Position int32 `parquet:"position,snappy"`

	// ImageID is the image UUID in canonical text form
	ImageID string `parquet:"image_id,snappy"`

	// Description is the optional image description
	Description *string `parquet:"description,optional,snappy"`

	// Location is the optional image location
	Location *string `parquet:"location,optional,snappy"`

	// URL is the image URL
	URL string `parquet:"url,snappy"`

	// FeedTimestamp is the timestamp the feed was inserted with (stored as TIMESTAMP with nanosecond precision)
	FeedTimestamp time.Time `parquet:"feed_timestamp,snappy"`
}

// ConvertFeedRecord flattens a cached record into one row per image.
func ConvertFeedRecord(key string, record schema.CacheRecord) []FeedImageRow {
	flat := schema.FlattenRecord(record)
	rows := make([]FeedImageRow, 0, len(flat))
	for _, r := range flat {
		rows = append(rows, FeedImageRow{
			CacheKey:      key,
			Position:      int32(r.Position),
			ImageID:       r.ID,
			Description:   r.Description,
			Location:      r.Location,
			URL:           r.URL,
			FeedTimestamp: r.Timestamp,
		})
	}
	return rows
}

// WriteFeedParquet writes a slice of FeedImageRow structs to a Parquet file.
func WriteFeedParquet(data []FeedImageRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the FeedImageRow struct tags
	writer := parquet.NewGenericWriter[FeedImageRow](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
