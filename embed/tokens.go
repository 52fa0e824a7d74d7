package embed

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens in text. Token counts feed directly into cost
// computation, so implementations must be pure functions of their input.
type Counter interface {
	Count(text string) int
}

// tiktokenCounter counts with the cl100k_base BPE used by the OpenAI
// embedding models.
type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// heuristicCounter approximates tokens as chars/4, the usual rule of thumb
// for English text. Used when the BPE vocabulary is unavailable.
type heuristicCounter struct{}

func (heuristicCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

// NewTokenCounter returns a cl100k_base token counter, falling back to the
// chars/4 heuristic if the encoding cannot be loaded (tiktoken fetches the
// vocabulary on first use).
func NewTokenCounter() Counter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		slog.Warn("cl100k_base encoding unavailable, using heuristic token counts", "err", err)
		return heuristicCounter{}
	}
	return &tiktokenCounter{enc: enc}
}
