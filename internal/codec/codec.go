// Package codec converts cache records to and from their stored byte form.
//
// The stored form is a JSON property document:
//
//	{"feed":[{"id":"<uuid>","description":null,"location":null,"url":"<uri>"}],"timestamp":"<RFC3339Nano>"}
//
// Encoding is deterministic and never produces bytes that Decode would reject.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/feedstore/schema"
)

// FormatVersion is stored next to encoded bytes. Records stored under any other
// version are treated as undecodable.
const FormatVersion = 1

// Codec errors. Failures wrap one of these, test with errors.Is.
var (
	ErrEncode = errors.New("failed to encode cache record")
	ErrDecode = errors.New("failed to decode cache record")
)

type wireImage struct {
	ID          *uuid.UUID `json:"id"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	URL         *string    `json:"url"`
}

type wireRecord struct {
	Feed      *[]wireImage `json:"feed"`
	Timestamp *time.Time   `json:"timestamp"`
}

// Encode serializes record.
func Encode(record schema.CacheRecord) ([]byte, error) {
	images, err := toWire(record.Images)
	if err != nil {
		return nil, err
	}
	ts := record.Timestamp.UTC()
	data, err := json.Marshal(wireRecord{Feed: &images, Timestamp: &ts})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return data, nil
}

// Decode parses bytes produced by Encode. On failure it returns a zero record.
func Decode(data []byte) (schema.CacheRecord, error) {
	var w wireRecord
	if err := decodeStrict(data, &w); err != nil {
		return schema.CacheRecord{}, err
	}
	if w.Feed == nil {
		return schema.CacheRecord{}, fmt.Errorf("%w: missing field \"feed\"", ErrDecode)
	}
	if w.Timestamp == nil {
		return schema.CacheRecord{}, fmt.Errorf("%w: missing field \"timestamp\"", ErrDecode)
	}
	images, err := fromWire(*w.Feed)
	if err != nil {
		return schema.CacheRecord{}, err
	}
	return schema.CacheRecord{Images: images, Timestamp: *w.Timestamp}, nil
}

// DecodeImages parses a bare JSON array of images in the stored wire shape.
func DecodeImages(data []byte) ([]schema.FeedImage, error) {
	var w []wireImage
	if err := decodeStrict(data, &w); err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: expected a JSON array of images", ErrDecode)
	}
	return fromWire(w)
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after document", ErrDecode)
	}
	return nil
}

func toWire(images []schema.FeedImage) ([]wireImage, error) {
	out := make([]wireImage, 0, len(images))
	for i, img := range images {
		if img.ID == uuid.Nil {
			return nil, fmt.Errorf("%w: image %d has no id", ErrEncode, i)
		}
		rawURL := img.URL.String()
		if rawURL == "" {
			return nil, fmt.Errorf("%w: image %d has no url", ErrEncode, i)
		}
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d has an invalid url: %w", ErrEncode, i, err)
		}
		if parsed.String() != rawURL {
			return nil, fmt.Errorf("%w: image %d url %q does not read back unchanged", ErrEncode, i, rawURL)
		}
		id := img.ID
		out = append(out, wireImage{
			ID:          &id,
			Description: img.Description,
			Location:    img.Location,
			URL:         &rawURL,
		})
	}
	return out, nil
}

func fromWire(images []wireImage) ([]schema.FeedImage, error) {
	out := make([]schema.FeedImage, 0, len(images))
	for i, w := range images {
		if w.ID == nil || *w.ID == uuid.Nil {
			return nil, fmt.Errorf("%w: image %d is missing \"id\"", ErrDecode, i)
		}
		if w.URL == nil || *w.URL == "" {
			return nil, fmt.Errorf("%w: image %d is missing \"url\"", ErrDecode, i)
		}
		u, err := url.Parse(*w.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d has an invalid url: %w", ErrDecode, i, err)
		}
		out = append(out, schema.FeedImage{
			ID:          *w.ID,
			Description: w.Description,
			Location:    w.Location,
			URL:         *u,
		})
	}
	return out, nil
}
