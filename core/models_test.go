package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("youtube:dQw4w9WgXcQ")
	id2 := IDFromContent("youtube:dQw4w9WgXcQ")
	assert.Equal(t, id1, id2, "identical content must produce identical IDs")

	id3 := IDFromContent("youtube:dQw4w9WgXcR")
	assert.NotEqual(t, id1, id3, "different content should produce different IDs")
}

func TestVideoID_IncludesSourceType(t *testing.T) {
	// The same raw identifier on different sources is a different video.
	a := VideoID(SourceYouTube, "12345678901")
	b := VideoID(SourceVimeo, "12345678901")
	assert.NotEqual(t, a, b)
}

func TestChunkOwnWordCount(t *testing.T) {
	chunk := &TranscriptChunk{
		WordCount:        700,
		HasOverlap:       true,
		OverlapWordCount: 100,
	}
	assert.Equal(t, 600, chunk.OwnWordCount())

	noOverlap := &TranscriptChunk{WordCount: 500}
	assert.Equal(t, 500, noOverlap.OwnWordCount())
}

func TestUsageDate(t *testing.T) {
	// Day key is always UTC.
	ts := mustParse(t, "2026-03-01T23:30:00-05:00")
	assert.Equal(t, "2026-03-02", UsageDate(ts))
}
