package schema

import "time"

// CacheStatus represents the status of the slot behind a feed store.
type CacheStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	Key            string    `json:"key"`
	HasRecord      bool      `json:"has_record"`
	FormatVersion  int       `json:"format_version"`
	LastWriteTime  time.Time `json:"last_write_time"`
	StoredBytes    int64     `json:"stored_bytes"`
	TableSizeBytes int64     `json:"table_size_bytes"`
}

// FeedImageRecord is the flattened, export friendly form of one cached image.
type FeedImageRecord struct {
	Position    int       `json:"position"`
	ID          string    `json:"id"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	URL         string    `json:"url"`
	Timestamp   time.Time `json:"timestamp"`
}

// FlattenRecord turns a record into one FeedImageRecord per image, in order.
func FlattenRecord(record CacheRecord) []FeedImageRecord {
	rows := make([]FeedImageRecord, 0, len(record.Images))
	for i, img := range record.Images {
		rows = append(rows, FeedImageRecord{
			Position:    i + 1,
			ID:          img.ID.String(),
			Description: img.Description,
			Location:    img.Location,
			URL:         img.URL.String(),
			Timestamp:   record.Timestamp,
		})
	}
	return rows
}
