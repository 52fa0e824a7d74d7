package transcript

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/storage"
)

// nowFunc is a seam for tests that pin the ledger date.
var nowFunc = time.Now

// Router tries extractors in fixed priority order: YouTube, then Vimeo,
// then Mux, then the paid Whisper fallback. A source reporting "no
// transcript" is not a failure; the router continues to the next source.
type Router struct {
	extractors []Extractor
	usage      storage.UsageRepository
	logger     *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithUsageRepository wires the cost ledger. Paid extractions record their
// transcription minutes and cost against the requesting creator.
func WithUsageRepository(usage storage.UsageRepository) RouterOption {
	return func(r *Router) {
		r.usage = usage
	}
}

// WithExtractors replaces the default extractor chain. Order is priority
// order. Intended for tests.
func WithExtractors(extractors ...Extractor) RouterOption {
	return func(r *Router) {
		r.extractors = extractors
	}
}

// NewRouter creates a Router with the standard extractor chain.
func NewRouter(cfg *Config, opts ...RouterOption) *Router {
	r := &Router{
		extractors: []Extractor{
			NewYouTubeExtractor(cfg),
			NewVimeoExtractor(cfg),
			NewMuxExtractor(cfg),
			NewWhisperExtractor(cfg),
		},
		logger: slog.Default().With("component", "transcript-router"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExtractTranscript routes the identifier to the first matching extractor
// and returns its result. Sources that exist but carry no transcript cause
// fall-through to the next matching source; all other failures stop the
// chain and surface as a *RouterError.
//
// The paid fallback needs opts.Media; without it, routing that reaches the
// fallback fails with MISSING_VIDEO_BUFFER.
func (r *Router) ExtractTranscript(ctx context.Context, identifier, creatorID string, opts ExtractOptions) (*Result, error) {
	if identifier == "" && len(opts.Media) == 0 {
		return nil, newError(CodeInvalidIdentifier, "", "empty identifier and no media buffer", nil)
	}

	var lastNoTranscript *RouterError
	for _, extractor := range r.extractors {
		if !extractor.Match(identifier) {
			continue
		}

		result, err := extractor.Extract(ctx, identifier, opts)
		if err == nil {
			r.recordCost(ctx, creatorID, result)
			r.logger.Info("transcript extracted",
				"identifier", identifier,
				"source", result.SourceType,
				"method", result.Method,
				"cost_usd", result.CostUSD)
			return result, nil
		}

		var rerr *RouterError
		if errors.As(err, &rerr) && rerr.Code == CodeNoTranscript {
			// The source exists but has nothing to give. Try the next one.
			r.logger.Debug("source has no transcript, falling through",
				"identifier", identifier, "source", extractor.Source())
			lastNoTranscript = rerr
			continue
		}
		return nil, err
	}

	if lastNoTranscript != nil {
		return nil, lastNoTranscript
	}
	return nil, newError(CodeInvalidIdentifier, "", "no extractor recognizes identifier: "+identifier, nil)
}

// recordCost writes paid extraction costs to the usage ledger.
// Free sources cost nothing and are not recorded.
func (r *Router) recordCost(ctx context.Context, creatorID string, result *Result) {
	if r.usage == nil || creatorID == "" || result.CostUSD <= 0 {
		return
	}
	err := r.usage.RecordUsage(ctx, &core.UsageMetric{
		CreatorID:            creatorID,
		Date:                 core.UsageDate(nowFunc()),
		TranscriptionMinutes: result.DurationSeconds / 60,
		CostUSD:              map[string]float64{"transcription": result.CostUSD},
	})
	if err != nil {
		// Ledger failures must not lose the transcript.
		r.logger.Error("failed to record transcription cost",
			"creator", creatorID, "cost_usd", result.CostUSD, "err", err)
	}
}
