package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/reelmind/reelmind/ai"
	"github.com/reelmind/reelmind/ai/mock"
	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/embed"
	"github.com/reelmind/reelmind/storage"
	"github.com/reelmind/reelmind/storage/badger"
	"github.com/reelmind/reelmind/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedExtractor returns a canned transcript for any identifier.
type scriptedExtractor struct {
	result *transcript.Result
	err    error
	calls  int
}

func (s *scriptedExtractor) Source() core.SourceType { return core.SourceYouTube }
func (s *scriptedExtractor) Match(string) bool       { return true }
func (s *scriptedExtractor) Extract(ctx context.Context, identifier string, opts transcript.ExtractOptions) (*transcript.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type fieldCounter struct{}

func (fieldCounter) Count(text string) int { return len(strings.Fields(text)) }

func setupService(t *testing.T, extractor transcript.Extractor) (*Service, storage.VideoRepository, storage.ChunkRepository, storage.UsageRepository) {
	t.Helper()
	videos, chunks, usage, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)

	router := transcript.NewRouter(transcript.DefaultConfig(),
		transcript.WithExtractors(extractor),
		transcript.WithUsageRepository(usage))

	mockEmb := mock.NewMockEmbedder()
	mockEmb.Dimensions = 8
	gen := embed.NewGenerator(mockEmb,
		ai.NewConfig(ai.WithDimensions(8), ai.WithPricePer1KTokens(0.00002)),
		embed.Options{BatchSize: 20, MaxRetries: 2, RetryDelay: time.Millisecond},
		embed.WithTokenCounter(fieldCounter{}))

	service, err := NewService(videos, chunks, usage, router, gen, 2)
	require.NoError(t, err)

	t.Cleanup(func() {
		service.Close()
		usage.Close()
		chunks.Close()
		videos.Close()
		backend.Close()
	})
	return service, videos, chunks, usage
}

func canned(words int) *transcript.Result {
	text := strings.TrimSpace(strings.Repeat("alpha beta gamma delta epsilon. ", words/5))
	return &transcript.Result{
		SourceType:      core.SourceYouTube,
		Method:          "youtube_captions",
		Title:           "Canned Video",
		URL:             "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		ThumbnailURL:    "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		DurationSeconds: 300,
		Transcript:      text,
		Segments:        []core.TranscriptSegment{{Text: text, StartSeconds: 0, EndSeconds: 300}},
	}
}

func TestService_FullPipeline(t *testing.T) {
	extractor := &scriptedExtractor{result: canned(600)}
	service, videos, chunks, usage := setupService(t, extractor)
	ctx := context.Background()

	video, err := videos.GetOrCreateVideo(ctx, &core.Video{
		CreatorID:  "creator-1",
		SourceType: core.SourceYouTube,
		Identifier: "dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	require.NoError(t, service.HandleTranscriptionRequested(ctx, video.Id))

	mid, err := videos.GetVideo(ctx, video.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusProcessing, mid.Status)
	assert.NotEmpty(t, mid.Transcript)
	assert.Equal(t, "Canned Video", mid.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", mid.URL)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", mid.ThumbnailURL)
	assert.Equal(t, "youtube_captions", mid.TranscriptMethod)

	require.NoError(t, service.HandleTranscriptionCompleted(ctx, video.Id))

	final, err := videos.GetVideo(ctx, video.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, final.Status)
	assert.False(t, final.ProcessingCompletedAt.IsZero())

	total, embedded, err := chunks.CountChunks(ctx, video.Id)
	require.NoError(t, err)
	assert.Greater(t, total, 0)
	assert.Equal(t, total, embedded, "every chunk carries a vector")

	// Embedding tokens landed in the cost ledger.
	metric, err := usage.GetUsage(ctx, "creator-1", core.UsageDate(time.Now()))
	require.NoError(t, err)
	assert.Greater(t, metric.EmbeddingTokens, int64(0))
	assert.Greater(t, metric.CostUSD["embedding"], 0.0)
}

func TestService_TranscriptionRequested_Idempotent(t *testing.T) {
	extractor := &scriptedExtractor{result: canned(100)}
	service, videos, _, _ := setupService(t, extractor)
	ctx := context.Background()

	video, err := videos.GetOrCreateVideo(ctx, &core.Video{
		CreatorID:  "creator-1",
		SourceType: core.SourceYouTube,
		Identifier: "dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	require.NoError(t, service.HandleTranscriptionRequested(ctx, video.Id))

	// Replayed event on a video already in processing is a no-op.
	require.NoError(t, service.HandleTranscriptionRequested(ctx, video.Id))
	assert.Equal(t, 1, extractor.calls, "transcript is not re-extracted")

	stored, err := videos.GetVideo(ctx, video.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusProcessing, stored.Status)
}

func TestService_TranscriptionCompleted_ReplacesOnRerun(t *testing.T) {
	extractor := &scriptedExtractor{result: canned(300)}
	service, videos, chunks, _ := setupService(t, extractor)
	ctx := context.Background()

	video, err := videos.GetOrCreateVideo(ctx, &core.Video{
		CreatorID:  "creator-1",
		SourceType: core.SourceYouTube,
		Identifier: "dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	require.NoError(t, service.HandleTranscriptionRequested(ctx, video.Id))
	require.NoError(t, service.HandleTranscriptionCompleted(ctx, video.Id))

	firstTotal, _, err := chunks.CountChunks(ctx, video.Id)
	require.NoError(t, err)

	// Wind the video back to processing and replay the event. The chunk
	// set must be regenerated, not appended to.
	_, err = videos.MutateVideo(ctx, video.Id, func(v *core.Video) error {
		v.Status = core.StatusProcessing
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, service.HandleTranscriptionCompleted(ctx, video.Id))

	secondTotal, _, err := chunks.CountChunks(ctx, video.Id)
	require.NoError(t, err)
	assert.Equal(t, firstTotal, secondTotal)
}

func TestService_ExtractionFailureMarksFailed(t *testing.T) {
	extractor := &scriptedExtractor{
		err: &transcript.RouterError{
			Code:    transcript.CodePrivate,
			Source:  core.SourceYouTube,
			Message: "video is private",
		},
	}
	service, videos, _, _ := setupService(t, extractor)
	ctx := context.Background()

	video, err := videos.GetOrCreateVideo(ctx, &core.Video{
		CreatorID:  "creator-1",
		SourceType: core.SourceYouTube,
		Identifier: "dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	err = service.HandleTranscriptionRequested(ctx, video.Id)
	require.Error(t, err)

	stored, err := videos.GetVideo(ctx, video.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, stored.Status)
	assert.Equal(t, 1, stored.Metadata.RetryCount)
	require.NotNil(t, stored.Metadata.LastError)
	assert.Equal(t, core.StatusTranscribing, stored.Metadata.LastError.Stage)
	assert.Equal(t, "PRIVATE", stored.Metadata.LastError.Type)
}

func TestService_CompletedEventIgnoredWithoutProcessingState(t *testing.T) {
	extractor := &scriptedExtractor{result: canned(100)}
	service, videos, chunks, _ := setupService(t, extractor)
	ctx := context.Background()

	video, err := videos.GetOrCreateVideo(ctx, &core.Video{
		CreatorID:  "creator-1",
		SourceType: core.SourceYouTube,
		Identifier: "dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	// Still pending: the completed event is premature and ignored.
	require.NoError(t, service.HandleTranscriptionCompleted(ctx, video.Id))

	total, _, err := chunks.CountChunks(ctx, video.Id)
	require.NoError(t, err)
	assert.Zero(t, total)
}
