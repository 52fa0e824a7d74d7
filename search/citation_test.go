package search

import (
	"strings"
	"testing"

	"github.com/reelmind/reelmind/core"
	"github.com/stretchr/testify/assert"
)

func TestFormatCitation(t *testing.T) {
	r := &Result{
		Chunk:      &core.TranscriptChunk{Text: "the important part", StartSeconds: 125},
		VideoTitle: "Launch Review",
	}
	assert.Equal(t, "[Launch Review @ 02:05] the important part", FormatCitation(r))

	r.VideoTitle = ""
	assert.Equal(t, "[Untitled @ 02:05] the important part", FormatCitation(r))
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{125, "02:05"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTimestamp(tt.seconds))
	}
}

func TestBuildContext(t *testing.T) {
	results := []*Result{
		{Chunk: &core.TranscriptChunk{Text: "first chunk", StartSeconds: 0}, VideoTitle: "A"},
		{Chunk: &core.TranscriptChunk{Text: "second chunk", StartSeconds: 60}, VideoTitle: "B"},
		{Chunk: &core.TranscriptChunk{Text: "third chunk", StartSeconds: 120}, VideoTitle: "C"},
	}

	full := BuildContext(results, 0)
	assert.Equal(t, 3, len(strings.Split(full, "\n")))

	// The cap keeps whole lines, strongest matches first.
	capped := BuildContext(results, len(FormatCitation(results[0]))+len(FormatCitation(results[1]))+1)
	lines := strings.Split(capped, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first chunk")
	assert.Contains(t, lines[1], "second chunk")

	assert.Empty(t, BuildContext(nil, 100))
}
