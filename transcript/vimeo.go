package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelmind/reelmind/core"
)

// Vimeo caption extraction via the texttracks API.
// Requires a bearer token with the "video_files" scope.

type vimeoVideo struct {
	Name     string  `json:"name"`
	Link     string  `json:"link"`
	Duration float64 `json:"duration"`
	Pictures struct {
		BaseLink string `json:"base_link"`
	} `json:"pictures"`
}

type vimeoTextTracks struct {
	Data []vimeoTextTrack `json:"data"`
}

type vimeoTextTrack struct {
	Active   bool   `json:"active"`
	Language string `json:"language"`
	Link     string `json:"link"`
	Type     string `json:"type"` // "captions" or "subtitles"
}

// VimeoExtractor fetches captions for Vimeo videos.
type VimeoExtractor struct {
	cfg    *Config
	logger *slog.Logger
}

var _ Extractor = (*VimeoExtractor)(nil)

// NewVimeoExtractor creates a caption extractor for Vimeo.
func NewVimeoExtractor(cfg *Config) *VimeoExtractor {
	return &VimeoExtractor{
		cfg:    cfg,
		logger: slog.Default().With("component", "vimeo-extractor"),
	}
}

func (e *VimeoExtractor) Source() core.SourceType {
	return core.SourceVimeo
}

func (e *VimeoExtractor) Match(identifier string) bool {
	return vimeoIDRE.MatchString(identifier)
}

// Extract fetches video metadata and the first usable text track.
func (e *VimeoExtractor) Extract(ctx context.Context, identifier string, opts ExtractOptions) (*Result, error) {
	if !e.Match(identifier) {
		return nil, newError(CodeInvalidIdentifier, core.SourceVimeo, "not a numeric video id: "+identifier, nil)
	}
	if e.cfg.VimeoAPIKey == "" {
		return nil, newError(CodePrivate, core.SourceVimeo, "vimeo api key not configured", nil)
	}
	started := time.Now()

	var video vimeoVideo
	if err := e.getJSON(ctx, "/videos/"+identifier, &video); err != nil {
		return nil, err
	}

	var tracks vimeoTextTracks
	if err := e.getJSON(ctx, "/videos/"+identifier+"/texttracks", &tracks); err != nil {
		return nil, err
	}

	track, ok := pickVimeoTrack(tracks.Data, opts.Language)
	if !ok {
		return nil, newError(CodeNoTranscript, core.SourceVimeo, "no active text tracks", nil)
	}

	segments, err := e.fetchVTT(ctx, track.Link)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, newError(CodeNoTranscript, core.SourceVimeo, "text track is empty", nil)
	}

	e.logger.Debug("extracted vimeo captions",
		"video", identifier, "lang", track.Language, "segments", len(segments))

	return &Result{
		SourceType:       core.SourceVimeo,
		Method:           "vimeo_texttracks",
		Title:            video.Name,
		URL:              video.Link,
		ThumbnailURL:     video.Pictures.BaseLink,
		DurationSeconds:  video.Duration,
		Transcript:       joinSegments(segments),
		Segments:         segments,
		ProcessingTimeMS: time.Since(started).Milliseconds(),
	}, nil
}

func (e *VimeoExtractor) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.VimeoBaseURL+path, nil)
	if err != nil {
		return newError(CodeUnknown, core.SourceVimeo, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.cfg.VimeoAPIKey)
	req.Header.Set("Accept", "application/vnd.vimeo.*+json;version=3.4")

	resp, err := e.cfg.HTTPClient.Do(req)
	if err != nil {
		return newError(CodeNetwork, core.SourceVimeo, "vimeo api", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return newError(codeFromStatus(resp.StatusCode), core.SourceVimeo,
			fmt.Sprintf("vimeo api %s HTTP %d", path, resp.StatusCode), nil)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 1024*1024)).Decode(out); err != nil {
		return newError(CodeUnknown, core.SourceVimeo, "decode vimeo response", err)
	}
	return nil
}

func (e *VimeoExtractor) fetchVTT(ctx context.Context, link string) ([]core.TranscriptSegment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, newError(CodeUnknown, core.SourceVimeo, "build vtt request", err)
	}

	resp, err := e.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, newError(CodeNetwork, core.SourceVimeo, "fetch vtt", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newError(codeFromStatus(resp.StatusCode), core.SourceVimeo,
			fmt.Sprintf("vtt HTTP %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, newError(CodeNetwork, core.SourceVimeo, "read vtt", err)
	}
	return parseWebVTT(string(body)), nil
}

// pickVimeoTrack prefers an active track in the requested language, then any
// active track, then any track at all.
func pickVimeoTrack(tracks []vimeoTextTrack, lang string) (vimeoTextTrack, bool) {
	if len(tracks) == 0 {
		return vimeoTextTrack{}, false
	}
	if lang == "" {
		lang = "en"
	}
	for _, t := range tracks {
		if t.Active && t.Language == lang {
			return t, true
		}
	}
	for _, t := range tracks {
		if t.Active {
			return t, true
		}
	}
	return tracks[0], true
}
