package transcript

import (
	"regexp"

	"github.com/reelmind/reelmind/core"
)

var (
	// YouTube video IDs are exactly 11 characters of the base64url alphabet.
	youtubeIDRE = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	// Vimeo video IDs are purely numeric.
	vimeoIDRE = regexp.MustCompile(`^[0-9]{6,12}$`)

	// Mux asset IDs are long opaque alphanumeric tokens.
	muxAssetIDRE = regexp.MustCompile(`^[A-Za-z0-9]{20,}$`)
)

// DetectSourceType guesses the source service from a bare identifier.
// YouTube wins ties with Mux because an 11-char alphanumeric token is far
// more likely a YouTube ID than a (much longer) Mux asset ID.
func DetectSourceType(identifier string) (core.SourceType, bool) {
	switch {
	case youtubeIDRE.MatchString(identifier):
		return core.SourceYouTube, true
	case vimeoIDRE.MatchString(identifier):
		return core.SourceVimeo, true
	case muxAssetIDRE.MatchString(identifier):
		return core.SourceMux, true
	default:
		return "", false
	}
}
