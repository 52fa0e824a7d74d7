package search

import (
	"context"
	"testing"
	"time"

	"github.com/reelmind/reelmind/ai"
	"github.com/reelmind/reelmind/ai/mock"
	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/embed"
	"github.com/reelmind/reelmind/storage"
	"github.com/reelmind/reelmind/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCounter struct{}

func (staticCounter) Count(string) int { return 1 }

// setupSearcher seeds two videos with hand-built three-dimensional vectors
// so similarity ordering is predictable. The mock embedder answers every
// query with the x axis.
func setupSearcher(t *testing.T) (*Searcher, storage.VideoRepository, storage.ChunkRepository) {
	t.Helper()
	videos, chunks, usage, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		usage.Close()
		chunks.Close()
		videos.Close()
		backend.Close()
	})

	mockEmb := mock.NewMockEmbedder()
	mockEmb.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	gen := embed.NewGenerator(mockEmb,
		ai.NewConfig(ai.WithDimensions(3)),
		embed.Options{BatchSize: 20, MaxRetries: 1, RetryDelay: time.Millisecond},
		embed.WithTokenCounter(staticCounter{}))

	return NewSearcher(videos, chunks, gen), videos, chunks
}

func seedVideo(t *testing.T, videos storage.VideoRepository, chunks storage.ChunkRepository, identifier, title string, vectors [][]float32) core.ID {
	t.Helper()
	ctx := context.Background()

	video, err := videos.GetOrCreateVideo(ctx, &core.Video{
		CreatorID:  "creator-1",
		SourceType: core.SourceYouTube,
		Identifier: identifier,
	})
	require.NoError(t, err)
	_, err = videos.MutateVideo(ctx, video.Id, func(v *core.Video) error {
		v.Title = title
		v.URL = "https://example.com/" + identifier
		return nil
	})
	require.NoError(t, err)

	set := make([]*core.TranscriptChunk, len(vectors))
	for i := range vectors {
		set[i] = &core.TranscriptChunk{
			Index:        i,
			Text:         "chunk text " + identifier,
			StartSeconds: float64(i * 90),
			EndSeconds:   float64((i + 1) * 90),
			WordCount:    3,
		}
	}
	require.NoError(t, chunks.ReplaceChunks(ctx, video.Id, set))
	for i := range vectors {
		set[i].Vector = vectors[i]
	}
	require.NoError(t, chunks.UpdateChunks(ctx, set...))
	return video.Id
}

func TestSearcher_SearchChunks(t *testing.T) {
	searcher, videos, chunks := setupSearcher(t)
	ctx := context.Background()

	// Similarities against the x-axis query: 1.0, 0.8, and 0.0.
	strong := seedVideo(t, videos, chunks, "vidAAAAAAA1", "Strong Match", [][]float32{
		{1, 0, 0},
		{0.8, 0.6, 0},
	})
	seedVideo(t, videos, chunks, "vidBBBBBBB2", "Weak Match", [][]float32{
		{0, 1, 0},
	})

	results, err := searcher.SearchChunks(ctx, "anything", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ordered by descending similarity, all above threshold, enriched.
	assert.InDelta(t, 1.0, float64(results[0].Similarity), 1e-5)
	assert.InDelta(t, 0.8, float64(results[1].Similarity), 1e-5)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Similarity, float32(0.7))
		assert.Equal(t, strong, r.Chunk.VideoId)
		assert.Equal(t, "Strong Match", r.VideoTitle)
		assert.NotEmpty(t, r.VideoURL)
	}
}

func TestSearcher_SearchChunks_MatchCountCap(t *testing.T) {
	searcher, videos, chunks := setupSearcher(t)

	seedVideo(t, videos, chunks, "vidAAAAAAA1", "Video", [][]float32{
		{1, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 0, 0},
	})

	opts := DefaultOptions()
	opts.MatchCount = 2
	results, err := searcher.SearchChunks(context.Background(), "anything", opts)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearcher_SearchChunks_VideoFilter(t *testing.T) {
	searcher, videos, chunks := setupSearcher(t)

	seedVideo(t, videos, chunks, "vidAAAAAAA1", "First", [][]float32{{1, 0, 0}})
	second := seedVideo(t, videos, chunks, "vidBBBBBBB2", "Second", [][]float32{{1, 0, 0}})

	opts := DefaultOptions()
	opts.FilterVideoIDs = []core.ID{second}
	results, err := searcher.SearchChunks(context.Background(), "anything", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, second, results[0].Chunk.VideoId)
}

func TestSearcher_SearchChunks_EmptyQuery(t *testing.T) {
	searcher, _, _ := setupSearcher(t)
	_, err := searcher.SearchChunks(context.Background(), "", DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearcher_FindRelatedChunks(t *testing.T) {
	searcher, videos, chunks := setupSearcher(t)

	// Chunk 1 sits at similarity 0.9 against chunk 0's vector.
	videoID := seedVideo(t, videos, chunks, "vidAAAAAAA1", "Video", [][]float32{
		{1, 0, 0},
		{0.9, 0.43589, 0},
	})

	opts := DefaultOptions()
	results, err := searcher.FindRelatedChunks(context.Background(), videoID, 0, opts)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// The queried chunk never appears in its own results.
	assert.Equal(t, 1, results[0].Chunk.Index)
	assert.InDelta(t, 0.9, float64(results[0].Similarity), 1e-4)
}

func TestSearcher_FindRelatedChunks_RequiresEmbedding(t *testing.T) {
	searcher, videos, chunks := setupSearcher(t)
	ctx := context.Background()

	video, err := videos.GetOrCreateVideo(ctx, &core.Video{
		CreatorID: "creator-1", SourceType: core.SourceYouTube, Identifier: "vidAAAAAAA1",
	})
	require.NoError(t, err)
	require.NoError(t, chunks.ReplaceChunks(ctx, video.Id, []*core.TranscriptChunk{
		{Index: 0, Text: "no vector yet", WordCount: 3},
	}))

	_, err = searcher.FindRelatedChunks(ctx, video.Id, 0, DefaultOptions())
	assert.ErrorIs(t, err, ErrChunkNotEmbedded)
}
