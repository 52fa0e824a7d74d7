package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelmind/reelmind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const muxTestAssetID = "x3zKJWm2tMGRgHrEKBvK3fGyXUWmCpUFHeAvVZLGkng"

func newMuxTestServer(t *testing.T, withTextTrack bool) (*httptest.Server, *Config) {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/video/v1/assets/"+muxTestAssetID, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "token-id", user)
		assert.Equal(t, "token-secret", pass)

		asset := muxAsset{
			ID:          muxTestAssetID,
			Status:      "ready",
			Duration:    90,
			PlaybackIDs: []muxPlaybackRef{{ID: "playback-1", Policy: "public"}},
			Tracks: []muxTrack{
				{ID: "video-track", Type: "video"},
				{ID: "audio-track", Type: "audio"},
			},
		}
		if withTextTrack {
			asset.Tracks = append(asset.Tracks, muxTrack{
				ID: "text-track", Type: "text", TextType: "subtitles", LanguageCode: "en", Status: "ready",
			})
		}
		json.NewEncoder(w).Encode(muxAssetResp{Data: asset})
	})

	mux.HandleFunc("/playback-1/text/text-track.vtt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "WEBVTT\n\n00:00:00.000 --> 00:00:03.000\nmux captions here\n")
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.MuxTokenID = "token-id"
	cfg.MuxTokenSecret = "token-secret"
	cfg.MuxBaseURL = server.URL
	cfg.MuxStreamBaseURL = server.URL
	return server, cfg
}

func TestMuxExtractor_Extract(t *testing.T) {
	_, cfg := newMuxTestServer(t, true)

	result, err := NewMuxExtractor(cfg).Extract(context.Background(), muxTestAssetID, ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, core.SourceMux, result.SourceType)
	assert.Equal(t, "mux_text_track", result.Method)
	assert.Equal(t, cfg.MuxStreamBaseURL+"/playback-1.m3u8", result.URL)
	assert.Equal(t, "https://image.mux.com/playback-1/thumbnail.jpg", result.ThumbnailURL)
	assert.InDelta(t, 90, result.DurationSeconds, 1e-9)
	assert.Equal(t, "mux captions here", result.Transcript)
	assert.Zero(t, result.CostUSD, "caption sources are free")
}

func TestMuxExtractor_NoTextTrack(t *testing.T) {
	_, cfg := newMuxTestServer(t, false)

	_, err := NewMuxExtractor(cfg).Extract(context.Background(), muxTestAssetID, ExtractOptions{})

	var rerr *RouterError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, CodeNoTranscript, rerr.Code, "missing captions signal fall-through, not failure")
}
