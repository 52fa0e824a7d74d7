package search

import (
	"fmt"
	"strings"
)

// FormatCitation renders a result as a single line:
//
//	[Title @ mm:ss] chunk text
//
// Untitled videos cite as "Untitled".
func FormatCitation(r *Result) string {
	title := r.VideoTitle
	if title == "" {
		title = "Untitled"
	}
	return fmt.Sprintf("[%s @ %s] %s", title, formatTimestamp(r.Chunk.StartSeconds), r.Chunk.Text)
}

// BuildContext assembles a multi-chunk context block for answer generation,
// one citation per line, capped at maxChars. Results are consumed in order,
// so callers get the strongest matches when the cap truncates.
func BuildContext(results []*Result, maxChars int) string {
	var sb strings.Builder
	for _, r := range results {
		line := FormatCitation(r)
		if maxChars > 0 && sb.Len()+len(line)+1 > maxChars {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// formatTimestamp renders seconds as mm:ss, or h:mm:ss past an hour.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
