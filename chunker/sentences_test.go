package chunker

import (
	"testing"

	"github.com/reelmind/reelmind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "basic punctuation",
			in:   "First sentence. Second sentence! Third sentence?",
			want: []string{"First sentence.", "Second sentence!", "Third sentence?"},
		},
		{
			name: "abbreviations are protected",
			in:   "Dr. Smith arrived at 3 p.m. yesterday. He left quickly.",
			want: []string{"Dr. Smith arrived at 3 p.m. yesterday.", "He left quickly."},
		},
		{
			name: "decimal numbers are protected",
			in:   "The price rose 3.5 percent. Analysts were surprised.",
			want: []string{"The price rose 3.5 percent.", "Analysts were surprised."},
		},
		{
			name: "single letter initials",
			in:   "J. Smith wrote the paper. It was published.",
			want: []string{"J. Smith wrote the paper.", "It was published."},
		},
		{
			name: "no terminal punctuation",
			in:   "trailing words without a period",
			want: []string{"trailing words without a period"},
		},
		{
			name: "empty",
			in:   "   ",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.in))
		})
	}
}

func TestSentencesFromSegments_ProportionalTiming(t *testing.T) {
	// Two five-word sentences in a ten second segment split it evenly.
	segments := []core.TranscriptSegment{
		{Text: "one two three four five. six seven eight nine ten.", StartSeconds: 20, EndSeconds: 30},
	}

	sentences := sentencesFromSegments(segments)
	require.Len(t, sentences, 2)

	assert.InDelta(t, 20, sentences[0].StartSeconds, 1e-9)
	assert.InDelta(t, 25, sentences[0].EndSeconds, 1e-9)
	assert.InDelta(t, 25, sentences[1].StartSeconds, 1e-9)
	assert.InDelta(t, 30, sentences[1].EndSeconds, 1e-9)
	assert.Equal(t, 0, sentences[0].SegmentIndex)
}

func TestSentencesFromSegments_NoTiming(t *testing.T) {
	sentences := sentencesFromSegments([]core.TranscriptSegment{{Text: "Hello there. Bye now."}})
	require.Len(t, sentences, 2)
	assert.Zero(t, sentences[0].StartSeconds)
	assert.Zero(t, sentences[1].EndSeconds)
}
