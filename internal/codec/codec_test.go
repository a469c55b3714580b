package codec

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/feedstore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func mustImage(t *testing.T, desc, loc *string, rawURL string) schema.FeedImage {
	t.Helper()
	img, err := schema.NewFeedImage(uuid.New(), desc, loc, rawURL)
	require.NoError(t, err)
	return img
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ts := time.Date(2024, time.March, 1, 10, 30, 15, 123456789, time.UTC)
	tests := []struct {
		name   string
		images func(t *testing.T) []schema.FeedImage
	}{
		{
			name:   "empty feed",
			images: func(*testing.T) []schema.FeedImage { return []schema.FeedImage{} },
		},
		{
			name: "all fields present",
			images: func(t *testing.T) []schema.FeedImage {
				return []schema.FeedImage{mustImage(t, strPtr("a description"), strPtr("a location"), "https://a-url.com")}
			},
		},
		{
			name: "optional fields absent",
			images: func(t *testing.T) []schema.FeedImage {
				return []schema.FeedImage{
					mustImage(t, nil, nil, "https://a-url.com/1.png"),
					mustImage(t, strPtr(""), nil, "https://a-url.com/2.png?size=large"),
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := schema.NewCacheRecord(tt.images(t), ts)

			data, err := Encode(record)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.True(t, record.Equal(decoded), "decoded record differs: %+v", decoded)
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	record := schema.NewCacheRecord([]schema.FeedImage{
		mustImage(t, strPtr("d"), nil, "https://a-url.com"),
	}, time.Unix(1700000000, 0))

	first, err := Encode(record)
	require.NoError(t, err)
	second, err := Encode(record)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeNormalizesTimestampToUTC(t *testing.T) {
	local := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	data, err := Encode(schema.NewCacheRecord(nil, local))
	require.NoError(t, err)
	assert.JSONEq(t, `{"feed":[],"timestamp":"2024-03-01T11:00:00Z"}`, string(data))

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, decoded.Timestamp.Equal(local))
}

func TestEncodeWireShape(t *testing.T) {
	id := uuid.MustParse("6f0a4b1e-3a67-4a0c-9d4e-2f1c2a3b4c5d")
	img, err := schema.NewFeedImage(id, nil, strPtr("Lisbon"), "https://a-url.com/x.jpg")
	require.NoError(t, err)

	data, err := Encode(schema.NewCacheRecord([]schema.FeedImage{img}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.NoError(t, err)

	expected := `{
		"feed": [{
			"id": "6f0a4b1e-3a67-4a0c-9d4e-2f1c2a3b4c5d",
			"description": null,
			"location": "Lisbon",
			"url": "https://a-url.com/x.jpg"
		}],
		"timestamp": "2024-01-02T03:04:05Z"
	}`
	assert.JSONEq(t, expected, string(data))
}

func TestEncodeRejectsIncompleteImages(t *testing.T) {
	t.Run("nil id", func(t *testing.T) {
		img := mustImage(t, nil, nil, "https://a-url.com")
		img.ID = uuid.Nil
		_, err := Encode(schema.NewCacheRecord([]schema.FeedImage{img}, time.Now()))
		assert.ErrorIs(t, err, ErrEncode)
	})

	t.Run("empty url", func(t *testing.T) {
		img := schema.FeedImage{ID: uuid.New()}
		_, err := Encode(schema.NewCacheRecord([]schema.FeedImage{img}, time.Now()))
		assert.ErrorIs(t, err, ErrEncode)
	})

	t.Run("url that cannot be parsed back", func(t *testing.T) {
		img := schema.FeedImage{ID: uuid.New(), URL: url.URL{Scheme: "https", Host: "a b"}}
		record := schema.NewCacheRecord([]schema.FeedImage{img}, time.Now())

		_, err := Encode(record)
		assert.ErrorIs(t, err, ErrEncode)
	})
}

func TestDecodeFailures(t *testing.T) {
	const id = `"6f0a4b1e-3a67-4a0c-9d4e-2f1c2a3b4c5d"`
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ``},
		{"invalid data", `invalid data`},
		{"not an object", `[1,2,3]`},
		{"missing feed", `{"timestamp":"2024-01-02T03:04:05Z"}`},
		{"null feed", `{"feed":null,"timestamp":"2024-01-02T03:04:05Z"}`},
		{"missing timestamp", `{"feed":[]}`},
		{"bad timestamp", `{"feed":[],"timestamp":"yesterday"}`},
		{"feed is an object", `{"feed":{},"timestamp":"2024-01-02T03:04:05Z"}`},
		{"image missing id", `{"feed":[{"url":"https://a-url.com"}],"timestamp":"2024-01-02T03:04:05Z"}`},
		{"image with invalid id", `{"feed":[{"id":"nope","url":"https://a-url.com"}],"timestamp":"2024-01-02T03:04:05Z"}`},
		{"image missing url", `{"feed":[{"id":` + id + `}],"timestamp":"2024-01-02T03:04:05Z"}`},
		{"image with unparsable url", `{"feed":[{"id":` + id + `,"url":"http://[::1"}],"timestamp":"2024-01-02T03:04:05Z"}`},
		{"null image", `{"feed":[null],"timestamp":"2024-01-02T03:04:05Z"}`},
		{"unknown field", `{"feed":[],"timestamp":"2024-01-02T03:04:05Z","extra":1}`},
		{"trailing data", `{"feed":[],"timestamp":"2024-01-02T03:04:05Z"} {}`},
		{"truncated", `{"feed":[{"id":` + id},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
			assert.Empty(t, record.Images)
			assert.True(t, record.Timestamp.IsZero())
		})
	}
}

func TestDecodeAcceptsMinimalImage(t *testing.T) {
	input := `{"feed":[{"id":"6f0a4b1e-3a67-4a0c-9d4e-2f1c2a3b4c5d","url":"https://a-url.com"}],"timestamp":"2024-01-02T03:04:05Z"}`

	record, err := Decode([]byte(input))
	require.NoError(t, err)
	require.Len(t, record.Images, 1)
	assert.Nil(t, record.Images[0].Description)
	assert.Nil(t, record.Images[0].Location)
	assert.Equal(t, "https://a-url.com", record.Images[0].URL.String())
}

func TestDecodeImages(t *testing.T) {
	t.Run("valid array", func(t *testing.T) {
		input := `[
			{"id":"6f0a4b1e-3a67-4a0c-9d4e-2f1c2a3b4c5d","description":"d","location":null,"url":"https://a-url.com/1"},
			{"id":"0b7c2f7e-5d5e-4d7a-8f3e-1a2b3c4d5e6f","url":"https://a-url.com/2"}
		]`
		images, err := DecodeImages([]byte(input))
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.Equal(t, "d", *images[0].Description)
		assert.Equal(t, "https://a-url.com/2", images[1].URL.String())
	})

	t.Run("empty array", func(t *testing.T) {
		images, err := DecodeImages([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, images)
	})

	t.Run("null", func(t *testing.T) {
		_, err := DecodeImages([]byte(`null`))
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("object instead of array", func(t *testing.T) {
		_, err := DecodeImages([]byte(`{"feed":[]}`))
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestDecodeImagesReadsStoredFeed(t *testing.T) {
	images := []schema.FeedImage{
		mustImage(t, strPtr("d"), strPtr("l"), "https://a-url.com/1"),
		mustImage(t, nil, nil, "https://a-url.com/2"),
	}

	data, err := Encode(schema.NewCacheRecord(images, time.Now()))
	require.NoError(t, err)
	var stored struct {
		Feed json.RawMessage `json:"feed"`
	}
	require.NoError(t, json.Unmarshal(data, &stored))

	decoded, err := DecodeImages(stored.Feed)
	require.NoError(t, err)
	require.Len(t, decoded, len(images))
	for i := range images {
		assert.True(t, images[i].Equal(decoded[i]))
	}
}
