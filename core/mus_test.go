package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestVideoMUS_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	video := Video{
		Id:              VideoID(SourceMux, "asset-abc"),
		CreatorID:       "creator-1",
		SourceType:      SourceMux,
		Identifier:      "asset-abc",
		Title:           "Quarterly review",
		DurationSeconds: 1830.5,
		Status:          StatusTranscribing,
		Transcript:      "hello world",
		Segments: []TranscriptSegment{
			{Text: "hello", StartSeconds: 0, EndSeconds: 1.2},
			{Text: "world", StartSeconds: 1.2, EndSeconds: 2.4},
		},
		Metadata: ProcessingMetadata{
			Version:    MetadataVersion,
			RetryCount: 2,
			LastError: &LastError{
				Stage:     StatusTranscribing,
				Message:   "rate limited",
				Timestamp: now,
				Type:      "rate_limited",
			},
			StageDurations: map[string]float64{"uploading": 4.2},
		},
		ProcessingStartedAt: now,
		InsertedAt:          now,
		UpdatedAt:           now,
	}

	bs := make([]byte, VideoMUS.Size(video))
	n := VideoMUS.Marshal(video, bs)
	require.Equal(t, len(bs), n)

	decoded, n, err := VideoMUS.Unmarshal(bs)
	require.NoError(t, err)
	require.Equal(t, len(bs), n)
	assert.Equal(t, video, decoded)

	// Unset timestamps survive the zero-means-unset encoding.
	assert.True(t, decoded.ProcessingCompletedAt.IsZero())
}

func TestTranscriptChunkMUS_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	chunk := TranscriptChunk{
		VideoId:          42,
		Index:            3,
		Text:             "overlap words then chunk text",
		StartSeconds:     120.5,
		EndSeconds:       245.25,
		WordCount:        5,
		HasOverlap:       true,
		OverlapWordCount: 2,
		SegmentCount:     7,
		Vector:           []float32{0.1, -0.5, 0.25},
		InsertedAt:       now,
		UpdatedAt:        now,
	}

	bs := make([]byte, TranscriptChunkMUS.Size(chunk))
	n := TranscriptChunkMUS.Marshal(chunk, bs)
	require.Equal(t, len(bs), n)

	decoded, n, err := TranscriptChunkMUS.Unmarshal(bs)
	require.NoError(t, err)
	require.Equal(t, len(bs), n)
	assert.Equal(t, chunk, decoded)
}

func TestUsageMetricMUS_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	metric := UsageMetric{
		CreatorID:            "creator-1",
		Date:                 "2026-08-23",
		TranscriptionMinutes: 30.5,
		EmbeddingTokens:      120000,
		CostUSD:              map[string]float64{"transcription": 0.183, "embedding": 0.0024},
		UpdatedAt:            now,
	}

	bs := make([]byte, UsageMetricMUS.Size(metric))
	n := UsageMetricMUS.Marshal(metric, bs)
	require.Equal(t, len(bs), n)

	decoded, n, err := UsageMetricMUS.Unmarshal(bs)
	require.NoError(t, err)
	require.Equal(t, len(bs), n)
	assert.Equal(t, metric, decoded)
}

func TestVideoMUS_TruncatedData(t *testing.T) {
	video := Video{Id: 1, SourceType: SourceYouTube, Identifier: "x"}
	bs := make([]byte, VideoMUS.Size(video))
	VideoMUS.Marshal(video, bs)

	_, _, err := VideoMUS.Unmarshal(bs[:len(bs)/2])
	assert.Error(t, err)
}
