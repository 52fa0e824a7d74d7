package transcript

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/reelmind/reelmind/core"
)

// WebVTT parsing, shared by the Vimeo and Mux extractors.

// parseWebVTT converts a WebVTT document into timestamped segments.
// Cue identifiers, NOTE blocks, and styling tags are dropped.
func parseWebVTT(data string) []core.TranscriptSegment {
	var segments []core.TranscriptSegment

	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		inCue      bool
		start, end float64
		textLines  []string
	)
	flush := func() {
		if inCue && len(textLines) > 0 {
			segments = append(segments, core.TranscriptSegment{
				Text:         strings.Join(textLines, " "),
				StartSeconds: start,
				EndSeconds:   end,
			})
		}
		inCue = false
		textLines = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			flush()
		case strings.Contains(line, "-->"):
			flush()
			s, e, err := parseCueTiming(line)
			if err != nil {
				continue
			}
			inCue = true
			start, end = s, e
		case inCue:
			if text := stripVTTTags(line); text != "" {
				textLines = append(textLines, text)
			}
		}
	}
	flush()

	return segments
}

// parseCueTiming parses a "00:01:02.500 --> 00:01:05.000" cue timing line.
func parseCueTiming(line string) (start, end float64, err error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed cue timing: %q", line)
	}
	start, err = parseVTTTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	// Cue settings (position, align) may follow the end timestamp.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("malformed cue timing: %q", line)
	}
	end, err = parseVTTTimestamp(endFields[0])
	return start, end, err
}

// parseVTTTimestamp parses "hh:mm:ss.mmm" or "mm:ss.mmm" into seconds.
func parseVTTTimestamp(ts string) (float64, error) {
	var h, m int
	var s float64

	switch strings.Count(ts, ":") {
	case 2:
		if _, err := fmt.Sscanf(ts, "%d:%d:%f", &h, &m, &s); err != nil {
			return 0, fmt.Errorf("bad timestamp %q: %w", ts, err)
		}
	case 1:
		if _, err := fmt.Sscanf(ts, "%d:%f", &m, &s); err != nil {
			return 0, fmt.Errorf("bad timestamp %q: %w", ts, err)
		}
	default:
		return 0, fmt.Errorf("bad timestamp %q", ts)
	}
	return float64(h)*3600 + float64(m)*60 + s, nil
}

// stripVTTTags removes inline <c>, <v Speaker>, and timestamp tags.
func stripVTTTags(line string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range line {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
