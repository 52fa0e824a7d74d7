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

// Mux caption extraction. Assets only carry a text track when one was
// generated or uploaded, so "no text track" is the expected signal that the
// router must continue to the paid fallback.

type muxAssetResp struct {
	Data muxAsset `json:"data"`
}

type muxAsset struct {
	ID          string           `json:"id"`
	Status      string           `json:"status"`
	Duration    float64          `json:"duration"`
	Tracks      []muxTrack       `json:"tracks"`
	PlaybackIDs []muxPlaybackRef `json:"playback_ids"`
}

type muxTrack struct {
	ID           string `json:"id"`
	Type         string `json:"type"` // "video", "audio", "text"
	TextType     string `json:"text_type"`
	LanguageCode string `json:"language_code"`
	Status       string `json:"status"`
}

type muxPlaybackRef struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

// MuxExtractor fetches caption text tracks for Mux assets.
type MuxExtractor struct {
	cfg    *Config
	logger *slog.Logger
}

var _ Extractor = (*MuxExtractor)(nil)

// NewMuxExtractor creates a caption extractor for Mux.
func NewMuxExtractor(cfg *Config) *MuxExtractor {
	return &MuxExtractor{
		cfg:    cfg,
		logger: slog.Default().With("component", "mux-extractor"),
	}
}

func (e *MuxExtractor) Source() core.SourceType {
	return core.SourceMux
}

func (e *MuxExtractor) Match(identifier string) bool {
	return muxAssetIDRE.MatchString(identifier) && !youtubeIDRE.MatchString(identifier)
}

// Extract fetches the asset, locates a ready text track, and downloads its
// VTT rendition from the stream delivery domain.
func (e *MuxExtractor) Extract(ctx context.Context, identifier string, opts ExtractOptions) (*Result, error) {
	if !e.Match(identifier) {
		return nil, newError(CodeInvalidIdentifier, core.SourceMux, "not a mux asset id: "+identifier, nil)
	}
	if e.cfg.MuxTokenID == "" || e.cfg.MuxTokenSecret == "" {
		return nil, newError(CodePrivate, core.SourceMux, "mux credentials not configured", nil)
	}
	started := time.Now()

	asset, err := e.fetchAsset(ctx, identifier)
	if err != nil {
		return nil, err
	}

	track, ok := pickMuxTextTrack(asset.Tracks, opts.Language)
	if !ok {
		// Expected for most assets. The router falls through to Whisper.
		return nil, newError(CodeNoTranscript, core.SourceMux, "asset has no ready text track", nil)
	}
	if len(asset.PlaybackIDs) == 0 {
		return nil, newError(CodeNoTranscript, core.SourceMux, "asset has no playback id", nil)
	}

	vttURL := fmt.Sprintf("%s/%s/text/%s.vtt", e.cfg.MuxStreamBaseURL, asset.PlaybackIDs[0].ID, track.ID)
	segments, err := e.fetchVTT(ctx, vttURL)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, newError(CodeNoTranscript, core.SourceMux, "text track is empty", nil)
	}

	e.logger.Debug("extracted mux captions",
		"asset", identifier, "track", track.ID, "segments", len(segments))

	playbackID := asset.PlaybackIDs[0].ID
	return &Result{
		SourceType:       core.SourceMux,
		Method:           "mux_text_track",
		URL:              fmt.Sprintf("%s/%s.m3u8", e.cfg.MuxStreamBaseURL, playbackID),
		ThumbnailURL:     fmt.Sprintf("https://image.mux.com/%s/thumbnail.jpg", playbackID),
		DurationSeconds:  asset.Duration,
		Transcript:       joinSegments(segments),
		Segments:         segments,
		ProcessingTimeMS: time.Since(started).Milliseconds(),
	}, nil
}

func (e *MuxExtractor) fetchAsset(ctx context.Context, assetID string) (*muxAsset, error) {
	endpoint := e.cfg.MuxBaseURL + "/video/v1/assets/" + assetID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newError(CodeUnknown, core.SourceMux, "build asset request", err)
	}
	req.SetBasicAuth(e.cfg.MuxTokenID, e.cfg.MuxTokenSecret)

	resp, err := e.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, newError(CodeNetwork, core.SourceMux, "mux api", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newError(codeFromStatus(resp.StatusCode), core.SourceMux,
			fmt.Sprintf("mux asset HTTP %d", resp.StatusCode), nil)
	}

	var assetResp muxAssetResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1024*1024)).Decode(&assetResp); err != nil {
		return nil, newError(CodeUnknown, core.SourceMux, "decode asset response", err)
	}
	return &assetResp.Data, nil
}

func (e *MuxExtractor) fetchVTT(ctx context.Context, url string) ([]core.TranscriptSegment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(CodeUnknown, core.SourceMux, "build vtt request", err)
	}

	resp, err := e.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, newError(CodeNetwork, core.SourceMux, "fetch vtt", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newError(codeFromStatus(resp.StatusCode), core.SourceMux,
			fmt.Sprintf("vtt HTTP %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, newError(CodeNetwork, core.SourceMux, "read vtt", err)
	}
	return parseWebVTT(string(body)), nil
}

// pickMuxTextTrack returns the first ready text track, preferring the
// requested language.
func pickMuxTextTrack(tracks []muxTrack, lang string) (muxTrack, bool) {
	if lang == "" {
		lang = "en"
	}
	var fallback *muxTrack
	for i, t := range tracks {
		if t.Type != "text" || t.Status == "errored" {
			continue
		}
		if t.LanguageCode == lang {
			return t, true
		}
		if fallback == nil {
			fallback = &tracks[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return muxTrack{}, false
}
