package chunker

import (
	"strings"
	"unicode"

	"github.com/reelmind/reelmind/core"
)

// sentence is an intermediate unit between raw segments and chunks.
type sentence struct {
	Text         string
	WordCount    int
	StartSeconds float64
	EndSeconds   float64
	SegmentIndex int
}

// abbreviations that end with a period but do not end a sentence.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {},
	"st": {}, "mt": {}, "vs": {}, "etc": {}, "approx": {}, "dept": {},
	"inc": {}, "ltd": {}, "co": {}, "corp": {}, "no": {}, "vol": {},
	"e.g": {}, "i.e": {}, "a.m": {}, "p.m": {}, "u.s": {}, "u.k": {},
}

// splitSentences breaks text on sentence-ending punctuation while protecting
// common abbreviations and decimal numbers from false splits.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if r == '.' && !isSentenceBoundary(runes, start, i) {
			continue
		}
		// Swallow trailing closing quotes and repeated punctuation.
		end := i + 1
		for end < len(runes) && (runes[end] == '"' || runes[end] == '\'' || runes[end] == '!' || runes[end] == '?' || runes[end] == '.') {
			end++
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// isSentenceBoundary reports whether the period at runes[i] ends a sentence.
func isSentenceBoundary(runes []rune, start, i int) bool {
	// A digit on both sides is a decimal number.
	if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
		return false
	}

	// Walk back to the start of the word preceding the period.
	w := i
	for w > start && !unicode.IsSpace(runes[w-1]) {
		w--
	}
	word := strings.ToLower(strings.TrimRight(string(runes[w:i]), "."))
	if _, ok := abbreviations[word]; ok {
		return false
	}

	// Single-letter initials like "J. Smith".
	if len([]rune(word)) == 1 && unicode.IsLetter(runes[i-1]) {
		return false
	}

	// Require whitespace (or end of text) after the period.
	if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
		return false
	}
	return true
}

// sentencesFromSegments splits every segment into sentences and, when the
// segment carries timing, distributes start/end across its sentences
// proportionally to word share.
func sentencesFromSegments(segments []core.TranscriptSegment) []sentence {
	var out []sentence
	for segIdx, seg := range segments {
		parts := splitSentences(seg.Text)
		if len(parts) == 0 {
			continue
		}

		totalWords := 0
		wordCounts := make([]int, len(parts))
		for i, p := range parts {
			wordCounts[i] = len(strings.Fields(p))
			totalWords += wordCounts[i]
		}

		duration := seg.EndSeconds - seg.StartSeconds
		cursor := seg.StartSeconds
		for i, p := range parts {
			share := 0.0
			if totalWords > 0 && duration > 0 {
				share = duration * float64(wordCounts[i]) / float64(totalWords)
			}
			out = append(out, sentence{
				Text:         p,
				WordCount:    wordCounts[i],
				StartSeconds: cursor,
				EndSeconds:   cursor + share,
				SegmentIndex: segIdx,
			})
			cursor += share
		}
	}
	return out
}
