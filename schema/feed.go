// Package schema holds the value types shared across the feed store.
package schema

import (
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"
)

// FeedImage is a lightweight image record inside a cached feed.
// It is an immutable value whose identity is ID.
type FeedImage struct {
	ID          uuid.UUID
	Description *string // optional
	Location    *string // optional
	URL         url.URL
}

// NewFeedImage builds a FeedImage from its raw parts.
func NewFeedImage(id uuid.UUID, description, location *string, rawURL string) (FeedImage, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return FeedImage{}, err
	}
	return FeedImage{
		ID:          id,
		Description: description,
		Location:    location,
		URL:         *u,
	}, nil
}

// Equal reports whether both images carry the same values.
func (img FeedImage) Equal(other FeedImage) bool {
	return img.ID == other.ID &&
		equalOptional(img.Description, other.Description) &&
		equalOptional(img.Location, other.Location) &&
		img.URL.String() == other.URL.String()
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CacheRecord is the single feed snapshot a store holds.
type CacheRecord struct {
	Images    []FeedImage
	Timestamp time.Time
}

// NewCacheRecord copies images, including their optional strings, so the record
// shares no memory with the caller.
func NewCacheRecord(images []FeedImage, timestamp time.Time) CacheRecord {
	var copied []FeedImage
	if images != nil {
		copied = make([]FeedImage, len(images))
		for i, img := range images {
			img.Description = cloneOptional(img.Description)
			img.Location = cloneOptional(img.Location)
			copied[i] = img
		}
	}
	return CacheRecord{
		Images:    copied,
		Timestamp: timestamp,
	}
}

func cloneOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Equal compares two records, using time.Time.Equal for the timestamp.
func (r CacheRecord) Equal(other CacheRecord) bool {
	if !r.Timestamp.Equal(other.Timestamp) {
		return false
	}
	return slices.EqualFunc(r.Images, other.Images, FeedImage.Equal)
}
