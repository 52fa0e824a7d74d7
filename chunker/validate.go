package chunker

import (
	"fmt"

	"github.com/reelmind/reelmind/core"
)

// minHealthyWords is the floor below which a non-final chunk is suspicious.
const minHealthyWords = 200

// Warning flags a suspicious chunk. Warnings never block the pipeline.
type Warning struct {
	ChunkIndex int
	Message    string
}

func (w Warning) String() string {
	return fmt.Sprintf("chunk %d: %s", w.ChunkIndex, w.Message)
}

// ValidateChunks inspects a chunk set for undersized chunks and timestamp
// regressions between consecutive chunks.
func ValidateChunks(chunks []*core.TranscriptChunk) []Warning {
	var warnings []Warning
	for i, chunk := range chunks {
		if chunk.WordCount < minHealthyWords && i != len(chunks)-1 {
			warnings = append(warnings, Warning{
				ChunkIndex: i,
				Message:    fmt.Sprintf("only %d words, expected at least %d", chunk.WordCount, minHealthyWords),
			})
		}
		if i > 0 && chunk.StartSeconds < chunks[i-1].StartSeconds {
			warnings = append(warnings, Warning{
				ChunkIndex: i,
				Message: fmt.Sprintf("start %.2fs is before previous chunk's start %.2fs",
					chunk.StartSeconds, chunks[i-1].StartSeconds),
			})
		}
	}
	return warnings
}
