package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/reelmind/reelmind/core"
)

// Whisper speech-to-text fallback. The only extractor that costs money and
// the only one that needs raw media bytes instead of an identifier.

type whisperResp struct {
	Text     string           `json:"text"`
	Duration float64          `json:"duration"`
	Segments []whisperSegment `json:"segments"`
}

type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// WhisperExtractor transcribes uploaded media via the OpenAI audio API.
type WhisperExtractor struct {
	cfg    *Config
	logger *slog.Logger
}

var _ Extractor = (*WhisperExtractor)(nil)

// NewWhisperExtractor creates the paid transcription fallback.
func NewWhisperExtractor(cfg *Config) *WhisperExtractor {
	return &WhisperExtractor{
		cfg:    cfg,
		logger: slog.Default().With("component", "whisper-extractor"),
	}
}

func (e *WhisperExtractor) Source() core.SourceType {
	return core.SourceUpload
}

// Match accepts everything. As the last extractor in priority order it is
// the catch-all, gated only by the presence of a media buffer.
func (e *WhisperExtractor) Match(identifier string) bool {
	return true
}

// Extract uploads the media buffer and requests a verbose transcription so
// segment timestamps come back with the text.
func (e *WhisperExtractor) Extract(ctx context.Context, identifier string, opts ExtractOptions) (*Result, error) {
	if len(opts.Media) == 0 {
		return nil, newError(CodeMissingVideoBuffer, core.SourceUpload,
			"paid transcription requires raw media bytes", nil)
	}
	if int64(len(opts.Media)) > e.cfg.MaxUploadBytes {
		return nil, newError(CodeFileTooLarge, core.SourceUpload,
			fmt.Sprintf("media is %d bytes, limit is %d", len(opts.Media), e.cfg.MaxUploadBytes), nil)
	}
	if e.cfg.OpenAIAPIKey == "" {
		return nil, newError(CodePrivate, core.SourceUpload, "openai api key not configured", nil)
	}
	started := time.Now()

	filename := opts.Filename
	if filename == "" {
		filename = "upload.mp4"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, newError(CodeUnknown, core.SourceUpload, "build multipart body", err)
	}
	if _, err := part.Write(opts.Media); err != nil {
		return nil, newError(CodeUnknown, core.SourceUpload, "write media to multipart body", err)
	}
	if err := writer.WriteField("model", e.cfg.WhisperModel); err != nil {
		return nil, newError(CodeUnknown, core.SourceUpload, "write model field", err)
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, newError(CodeUnknown, core.SourceUpload, "write response_format field", err)
	}
	if opts.Language != "" {
		if err := writer.WriteField("language", opts.Language); err != nil {
			return nil, newError(CodeUnknown, core.SourceUpload, "write language field", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, newError(CodeUnknown, core.SourceUpload, "finalize multipart body", err)
	}

	endpoint := e.cfg.WhisperBaseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, newError(CodeUnknown, core.SourceUpload, "build transcription request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.cfg.OpenAIAPIKey)

	resp, err := e.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, newError(CodeNetwork, core.SourceUpload, "whisper api", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, newError(codeFromStatus(resp.StatusCode), core.SourceUpload,
			fmt.Sprintf("whisper HTTP %d: %s", resp.StatusCode, snippet), nil)
	}

	var wr whisperResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10*1024*1024)).Decode(&wr); err != nil {
		return nil, newError(CodeUnknown, core.SourceUpload, "decode whisper response", err)
	}
	if wr.Text == "" {
		return nil, newError(CodeNoTranscript, core.SourceUpload, "whisper returned empty text", nil)
	}

	segments := make([]core.TranscriptSegment, 0, len(wr.Segments))
	for _, s := range wr.Segments {
		segments = append(segments, core.TranscriptSegment{
			Text:         s.Text,
			StartSeconds: s.Start,
			EndSeconds:   s.End,
		})
	}

	minutes := wr.Duration / 60
	cost := minutes * e.cfg.PricePerMinute

	e.logger.Info("whisper transcription complete",
		"bytes", len(opts.Media), "minutes", minutes, "cost_usd", cost)

	return &Result{
		SourceType:       core.SourceUpload,
		Method:           "whisper",
		DurationSeconds:  wr.Duration,
		Transcript:       wr.Text,
		Segments:         segments,
		CostUSD:          cost,
		ProcessingTimeMS: time.Since(started).Milliseconds(),
	}, nil
}
