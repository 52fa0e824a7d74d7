package chunker

import (
	"strings"

	"github.com/reelmind/reelmind/core"
)

// Options controls chunk sizing.
type Options struct {
	// MinWords is the smallest window a chunk may close at. Default 500.
	MinWords int

	// MaxWords is the window size that triggers closing a chunk once
	// MinWords is met. Default 1000.
	MaxWords int

	// OverlapWords is how many trailing words of the previous chunk's own
	// text are prepended to the next chunk. Default 100.
	OverlapWords int
}

// DefaultOptions returns the standard chunk sizing for embedding.
func DefaultOptions() Options {
	return Options{
		MinWords:     500,
		MaxWords:     1000,
		OverlapWords: 100,
	}
}

func (o *Options) normalize() {
	if o.MinWords <= 0 {
		o.MinWords = 500
	}
	if o.MaxWords < o.MinWords {
		o.MaxWords = o.MinWords * 2
	}
	if o.OverlapWords < 0 {
		o.OverlapWords = 0
	}
}

// ChunkSegments splits timestamped segments into overlapping, sentence-aligned
// chunks sized for embedding.
//
// Sentences accumulate greedily: a window closes when the next sentence would
// push it past MaxWords and it already holds at least MinWords. Every chunk
// after the first starts with the last OverlapWords words of the previous
// chunk's own text, so overlap never compounds across chunks. A final partial
// window is always flushed, even under MinWords.
func ChunkSegments(segments []core.TranscriptSegment, opts Options) []*core.TranscriptChunk {
	opts.normalize()

	sentences := sentencesFromSegments(segments)
	if len(sentences) == 0 {
		return nil
	}

	var (
		chunks  []*core.TranscriptChunk
		window  []sentence
		words   int
		prevOwn string // previous chunk's own text, source of the next overlap
	)

	flush := func() {
		if len(window) == 0 {
			return
		}
		chunks = append(chunks, buildChunk(len(chunks), window, prevOwn, opts.OverlapWords))
		prevOwn = joinSentences(window)
		window = nil
		words = 0
	}

	for _, s := range sentences {
		if len(window) > 0 && words+s.WordCount > opts.MaxWords && words >= opts.MinWords {
			flush()
		}
		window = append(window, s)
		words += s.WordCount
	}
	flush()

	return chunks
}

// ChunkText splits a plain transcript without timing information.
// All chunk timestamps come out zero.
func ChunkText(text string, opts Options) []*core.TranscriptChunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return ChunkSegments([]core.TranscriptSegment{{Text: text}}, opts)
}

// buildChunk assembles a chunk from its own sentences plus the overlap drawn
// from the previous chunk's own text.
func buildChunk(index int, window []sentence, prevOwn string, overlapWords int) *core.TranscriptChunk {
	ownText := joinSentences(window)

	overlap := ""
	overlapCount := 0
	if index > 0 && overlapWords > 0 && prevOwn != "" {
		overlap = lastWords(prevOwn, overlapWords)
		overlapCount = len(strings.Fields(overlap))
	}

	text := ownText
	if overlap != "" {
		text = overlap + " " + ownText
	}

	segmentSeen := map[int]struct{}{}
	for _, s := range window {
		segmentSeen[s.SegmentIndex] = struct{}{}
	}

	return &core.TranscriptChunk{
		Index:            index,
		Text:             text,
		StartSeconds:     window[0].StartSeconds,
		EndSeconds:       window[len(window)-1].EndSeconds,
		WordCount:        len(strings.Fields(text)),
		HasOverlap:       overlapCount > 0,
		OverlapWordCount: overlapCount,
		SegmentCount:     len(segmentSeen),
	}
}

func joinSentences(window []sentence) string {
	parts := make([]string, len(window))
	for i, s := range window {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

// lastWords returns the trailing n words of text.
func lastWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[len(fields)-n:], " ")
}
