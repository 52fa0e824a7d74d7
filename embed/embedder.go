package embed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelmind/reelmind/ai"
	"golang.org/x/time/rate"
)

// Options tunes batching, retry, and rate limiting.
type Options struct {
	// BatchSize is how many texts go into one embedding call. Default 20.
	BatchSize int

	// MaxRetries is the attempt ceiling per call. Default 3.
	MaxRetries int

	// RetryDelay is the base backoff delay, doubled per attempt. Default 1s.
	RetryDelay time.Duration

	// RequestsPerMinute caps embedding calls across all videos sharing
	// this generator. Zero means unlimited.
	RequestsPerMinute int

	// SingleCallDelay spaces out the sequential single calls a degraded
	// batch falls back to. Default 100ms.
	SingleCallDelay time.Duration
}

// DefaultOptions returns the standard embedding call parameters.
func DefaultOptions() Options {
	return Options{
		BatchSize:       20,
		MaxRetries:      3,
		RetryDelay:      time.Second,
		SingleCallDelay: 100 * time.Millisecond,
	}
}

func (o *Options) normalize() {
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.SingleCallDelay < 0 {
		o.SingleCallDelay = 0
	}
}

// Result summarizes one embedding run.
type Result struct {
	// Embeddings holds one unit-normalized vector per input text, in
	// input order.
	Embeddings [][]float32

	// TotalTokens is the token count across all inputs.
	TotalTokens int64

	// TotalCostUSD = (TotalTokens / 1000) × price per 1K tokens.
	TotalCostUSD float64

	// ProcessingTimeMS is wall-clock run time.
	ProcessingTimeMS int64
}

// Generator turns chunk texts into embedding vectors through batched,
// rate-limited, retried calls to an ai.Embedder.
//
// A shared Generator serializes rate-limit budget across videos: batches
// from different videos interleave against the same ceiling.
type Generator struct {
	embedder ai.Embedder
	counter  Counter
	limiter  *rate.Limiter
	cfg      *ai.Config
	opts     Options
	logger   *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTokenCounter replaces the default cl100k_base counter.
func WithTokenCounter(counter Counter) GeneratorOption {
	return func(g *Generator) {
		g.counter = counter
	}
}

// NewGenerator creates a Generator for the given embedder and model config.
func NewGenerator(embedder ai.Embedder, cfg *ai.Config, opts Options, genOpts ...GeneratorOption) *Generator {
	opts.normalize()

	g := &Generator{
		embedder: embedder,
		cfg:      cfg,
		opts:     opts,
		logger:   slog.Default().With("component", "embed-generator"),
	}
	if opts.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}
	for _, opt := range genOpts {
		opt(g)
	}
	if g.counter == nil {
		g.counter = NewTokenCounter()
	}
	return g
}

// GenerateEmbeddings embeds every text, batching BatchSize at a time.
//
// A failed batch degrades to sequential single-text calls instead of failing
// the whole run; only a text that fails on its own aborts. Token counts are
// computed locally, so cost is a pure function of the input texts no matter
// which path produced the vectors.
func (g *Generator) GenerateEmbeddings(ctx context.Context, texts []string) (*Result, error) {
	if len(texts) == 0 {
		return nil, ErrNoTexts
	}
	started := time.Now()

	result := &Result{
		Embeddings: make([][]float32, 0, len(texts)),
	}

	for batchStart := 0; batchStart < len(texts); batchStart += g.opts.BatchSize {
		batchEnd := min(batchStart+g.opts.BatchSize, len(texts))
		batch := texts[batchStart:batchEnd]

		vectors, err := g.embedBatch(ctx, batch)
		if err != nil {
			g.logger.Warn("batch embedding failed, degrading to single calls",
				"batch_start", batchStart, "batch_size", len(batch), "err", err)
			vectors, err = g.embedSequentially(ctx, batch)
			if err != nil {
				return nil, fmt.Errorf("embed batch at %d: %w", batchStart, err)
			}
		}

		result.Embeddings = append(result.Embeddings, vectors...)
	}

	for _, text := range texts {
		result.TotalTokens += int64(g.counter.Count(text))
	}
	result.TotalCostUSD = float64(result.TotalTokens) / 1000 * g.cfg.PricePer1KTokens
	result.ProcessingTimeMS = time.Since(started).Milliseconds()

	g.logger.Info("embeddings generated",
		"texts", len(texts),
		"tokens", result.TotalTokens,
		"cost_usd", result.TotalCostUSD,
		"ms", result.ProcessingTimeMS)
	return result, nil
}

// GenerateQueryEmbedding embeds an ad hoc search query through the same
// rate-limited, retried single-call path.
func (g *Generator) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, ErrNoTexts
	}
	return g.embedSingle(ctx, query)
}

// embedBatch submits the whole batch as one call.
func (g *Generator) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var callErr error
		vectors, callErr = g.embedder.EmbedTexts(ctx, batch)
		return callErr
	}, g.opts.MaxRetries, g.opts.RetryDelay)
	if err != nil {
		return nil, err
	}

	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("%w: got %d for %d texts", ErrCountMismatch, len(vectors), len(batch))
	}
	for i, v := range vectors {
		if err := ValidateEmbedding(v, g.cfg.Dimensions); err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		vectors[i] = NormalizeVector(v)
	}
	return vectors, nil
}

// embedSequentially is the degraded path: one call per text with a small
// inter-call delay.
func (g *Generator) embedSequentially(ctx context.Context, batch []string) ([][]float32, error) {
	vectors := make([][]float32, len(batch))
	for i, text := range batch {
		if i > 0 && g.opts.SingleCallDelay > 0 {
			timer := time.NewTimer(g.opts.SingleCallDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		vector, err := g.embedSingle(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("single call %d: %w", i, err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (g *Generator) embedSingle(ctx context.Context, text string) ([]float32, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		var callErr error
		vector, callErr = g.embedder.EmbedText(ctx, text)
		return callErr
	}, g.opts.MaxRetries, g.opts.RetryDelay)
	if err != nil {
		return nil, err
	}

	if err := ValidateEmbedding(vector, g.cfg.Dimensions); err != nil {
		return nil, err
	}
	return NormalizeVector(vector), nil
}

// wait blocks until the shared rate ceiling admits another call.
func (g *Generator) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}
