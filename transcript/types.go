package transcript

import (
	"context"

	"github.com/reelmind/reelmind/core"
)

// Result is the outcome of a successful transcript extraction.
type Result struct {
	// SourceType identifies the service the transcript came from.
	SourceType core.SourceType

	// Method names the extraction technique, e.g. "youtube_captions",
	// "vimeo_texttracks", "mux_text_track", "whisper".
	Method string

	// Title is the video title when the source exposes one.
	Title string

	// URL is the canonical watch/playback URL when the source exposes one.
	URL string

	// ThumbnailURL is a poster image URL when the source exposes one.
	ThumbnailURL string

	// DurationSeconds is the media duration when the source exposes one.
	DurationSeconds float64

	// Transcript is the full plain-text transcript.
	Transcript string

	// Segments carries timestamped transcript segments when the source
	// provides timing information. May be empty for plain-text sources.
	Segments []core.TranscriptSegment

	// CostUSD is the direct cost incurred by this extraction.
	// Zero for caption-based sources.
	CostUSD float64

	// ProcessingTimeMS is wall-clock extraction time.
	ProcessingTimeMS int64
}

// ExtractOptions carries optional inputs for an extraction attempt.
type ExtractOptions struct {
	// Media is the raw video/audio bytes. Required by the paid
	// transcription fallback, ignored by caption extractors.
	Media []byte

	// Filename names the media buffer for multipart uploads.
	Filename string

	// Language is the preferred transcript language (BCP-47 prefix).
	// Empty means English.
	Language string
}

// Extractor extracts a transcript from a single source service.
type Extractor interface {
	// Source identifies which service this extractor talks to.
	Source() core.SourceType

	// Match reports whether the identifier looks like one this source
	// understands. Routing never sends an identifier to an extractor
	// that does not match it.
	Match(identifier string) bool

	// Extract fetches the transcript for the identifier.
	// A *RouterError with code NO_TRANSCRIPT means the source exists but
	// carries no transcript; the router treats that as a signal to fall
	// through to the next source rather than a failure.
	Extract(ctx context.Context, identifier string, opts ExtractOptions) (*Result, error)
}
