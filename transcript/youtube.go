package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/reelmind/reelmind/core"
)

// YouTube caption extraction via the Innertube ANDROID /player endpoint.
// The ANDROID client returns caption track URLs without requiring a
// logged-in session, and the timedtext XML carries per-line timestamps.

const (
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"
)

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type innertubePlayerResp struct {
	VideoDetails *struct {
		Title         string `json:"title"`
		LengthSeconds string `json:"lengthSeconds"`
	} `json:"videoDetails"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type ytTimedText struct {
	Lines []ytLine `xml:"text"`
}

type ytLine struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

// YouTubeExtractor fetches captions for public YouTube videos.
type YouTubeExtractor struct {
	cfg    *Config
	logger *slog.Logger
}

var _ Extractor = (*YouTubeExtractor)(nil)

// NewYouTubeExtractor creates a caption extractor for YouTube.
func NewYouTubeExtractor(cfg *Config) *YouTubeExtractor {
	return &YouTubeExtractor{
		cfg:    cfg,
		logger: slog.Default().With("component", "youtube-extractor"),
	}
}

func (e *YouTubeExtractor) Source() core.SourceType {
	return core.SourceYouTube
}

func (e *YouTubeExtractor) Match(identifier string) bool {
	return youtubeIDRE.MatchString(identifier)
}

// Extract fetches the player response, picks the best caption track, and
// downloads the timedtext XML for it.
func (e *YouTubeExtractor) Extract(ctx context.Context, identifier string, opts ExtractOptions) (*Result, error) {
	if !e.Match(identifier) {
		return nil, newError(CodeInvalidIdentifier, core.SourceYouTube, "not an 11-char video id: "+identifier, nil)
	}
	started := time.Now()

	player, err := e.fetchPlayer(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if player.PlayabilityStatus != nil {
		switch player.PlayabilityStatus.Status {
		case "ERROR":
			return nil, newError(CodeNotFound, core.SourceYouTube, player.PlayabilityStatus.Reason, nil)
		case "LOGIN_REQUIRED", "UNPLAYABLE":
			return nil, newError(CodePrivate, core.SourceYouTube, player.PlayabilityStatus.Reason, nil)
		}
	}

	if player.Captions == nil {
		return nil, newError(CodeNoTranscript, core.SourceYouTube, "no captions in player response", nil)
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, newError(CodeNoTranscript, core.SourceYouTube, "no caption tracks", nil)
	}

	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	track := pickBestTrack(tracks, lang)

	segments, err := e.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, newError(CodeNoTranscript, core.SourceYouTube, "caption track is empty", nil)
	}

	result := &Result{
		SourceType:       core.SourceYouTube,
		Method:           "youtube_captions",
		URL:              "https://www.youtube.com/watch?v=" + identifier,
		ThumbnailURL:     "https://i.ytimg.com/vi/" + identifier + "/hqdefault.jpg",
		Transcript:       joinSegments(segments),
		Segments:         segments,
		ProcessingTimeMS: time.Since(started).Milliseconds(),
	}
	if player.VideoDetails != nil {
		result.Title = player.VideoDetails.Title
		fmt.Sscanf(player.VideoDetails.LengthSeconds, "%f", &result.DurationSeconds)
	}
	if result.DurationSeconds == 0 && len(segments) > 0 {
		result.DurationSeconds = segments[len(segments)-1].EndSeconds
	}

	e.logger.Debug("extracted youtube captions",
		"video", identifier, "lang", track.LanguageCode, "segments", len(segments))
	return result, nil
}

// fetchPlayer POSTs to the Innertube /player endpoint with ANDROID client headers.
func (e *YouTubeExtractor) fetchPlayer(ctx context.Context, videoID string) (*innertubePlayerResp, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, newError(CodeUnknown, core.SourceYouTube, "marshal player request", err)
	}

	endpoint := e.cfg.YouTubeBaseURL + "/youtubei/v1/player?prettyPrint=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, newError(CodeUnknown, core.SourceYouTube, "build player request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", ytAndroidUA)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)

	resp, err := e.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, newError(CodeNetwork, core.SourceYouTube, "innertube player", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newError(codeFromStatus(resp.StatusCode), core.SourceYouTube,
			fmt.Sprintf("innertube player HTTP %d", resp.StatusCode), nil)
	}

	var player innertubePlayerResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, 3*1024*1024)).Decode(&player); err != nil {
		return nil, newError(CodeUnknown, core.SourceYouTube, "decode player response", err)
	}
	return &player, nil
}

// fetchTimedText downloads and parses a timedtext XML caption URL.
func (e *YouTubeExtractor) fetchTimedText(ctx context.Context, baseURL string) ([]core.TranscriptSegment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, newError(CodeUnknown, core.SourceYouTube, "build timedtext request", err)
	}
	req.Header.Set("User-Agent", ytAndroidUA)

	resp, err := e.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, newError(CodeNetwork, core.SourceYouTube, "fetch timedtext", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newError(codeFromStatus(resp.StatusCode), core.SourceYouTube,
			fmt.Sprintf("timedtext HTTP %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, newError(CodeNetwork, core.SourceYouTube, "read timedtext", err)
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, newError(CodeUnknown, core.SourceYouTube, "parse timedtext XML", err)
	}

	segments := make([]core.TranscriptSegment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		segments = append(segments, core.TranscriptSegment{
			Text:         text,
			StartSeconds: line.Start,
			EndSeconds:   line.Start + line.Dur,
		})
	}
	return segments, nil
}

// pickBestTrack prefers a manual track in the requested language, then an
// auto-generated one, then English with the same manual-over-asr order,
// then the first.
func pickBestTrack(tracks []captionTrack, lang string) captionTrack {
	for _, t := range tracks {
		if t.LanguageCode == lang && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == lang {
			return t
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

// joinSegments concatenates segment texts with single spaces.
func joinSegments(segments []core.TranscriptSegment) string {
	var sb strings.Builder
	for _, seg := range segments {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}
