package badger

import (
	"context"
	"testing"

	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestChunks(videoID core.ID, n int) []*core.TranscriptChunk {
	chunks := make([]*core.TranscriptChunk, n)
	for i := range chunks {
		chunks[i] = &core.TranscriptChunk{
			VideoId:      videoID,
			Index:        i,
			Text:         "chunk text",
			StartSeconds: float64(i * 60),
			EndSeconds:   float64((i + 1) * 60),
			WordCount:    2,
		}
	}
	return chunks
}

func TestChunkRepository_ReplaceChunks_Overwrites(t *testing.T) {
	_, repo, _ := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceChunks(ctx, 1, makeTestChunks(1, 5)))

	// A re-run with fewer chunks must not leave stale rows behind.
	require.NoError(t, repo.ReplaceChunks(ctx, 1, makeTestChunks(1, 3)))

	chunks, err := repo.GetChunks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index, "chunks iterate in index order")
	}
}

func TestChunkRepository_UpdateChunks_AttachesVectors(t *testing.T) {
	_, repo, _ := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceChunks(ctx, 7, makeTestChunks(7, 2)))

	chunks, err := repo.GetChunks(ctx, 7)
	require.NoError(t, err)
	chunks[0].Vector = []float32{1, 0, 0}
	chunks[1].Vector = []float32{0, 1, 0}
	require.NoError(t, repo.UpdateChunks(ctx, chunks...))

	total, embedded, err := repo.CountChunks(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, embedded)
}

func TestChunkRepository_UpdateChunks_NotFound(t *testing.T) {
	_, repo, _ := setupTestRepos(t)

	err := repo.UpdateChunks(context.Background(), &core.TranscriptChunk{
		VideoId: 99, Index: 0, Text: "missing",
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChunkRepository_FindSimilarChunks(t *testing.T) {
	_, repo, _ := setupTestRepos(t)
	ctx := context.Background()

	// Video 1: one chunk aligned with the query, one orthogonal.
	chunks := makeTestChunks(1, 2)
	require.NoError(t, repo.ReplaceChunks(ctx, 1, chunks))
	chunks[0].Vector = []float32{1, 0, 0}
	chunks[1].Vector = []float32{0, 1, 0}
	require.NoError(t, repo.UpdateChunks(ctx, chunks...))

	// Video 2: also aligned, used to verify the video filter.
	other := makeTestChunks(2, 1)
	require.NoError(t, repo.ReplaceChunks(ctx, 2, other))
	other[0].Vector = []float32{0.9, 0.1, 0}
	require.NoError(t, repo.UpdateChunks(ctx, other...))

	query := []float32{1, 0, 0}

	matches, err := repo.FindSimilarChunks(ctx, query, 0.7, 10, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.GreaterOrEqual(t, matches[0].Similarity, matches[1].Similarity, "ordered by similarity")
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Similarity, float32(0.7))
	}

	// Restricting to video 1 drops the video 2 match.
	matches, err = repo.FindSimilarChunks(ctx, query, 0.7, 10, []core.ID{1})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, core.ID(1), matches[0].Chunk.VideoId)

	// Limit caps the result count.
	matches, err = repo.FindSimilarChunks(ctx, query, 0.0, 1, nil)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestChunkRepository_FindSimilarChunks_SkipsUnembedded(t *testing.T) {
	_, repo, _ := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceChunks(ctx, 3, makeTestChunks(3, 2)))

	matches, err := repo.FindSimilarChunks(ctx, []float32{1, 0, 0}, 0.0, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, matches, "chunks without vectors are not matched")
}

func TestChunkRepository_DeleteChunks(t *testing.T) {
	_, repo, _ := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceChunks(ctx, 5, makeTestChunks(5, 4)))
	require.NoError(t, repo.DeleteChunks(ctx, 5))

	total, _, err := repo.CountChunks(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, total)
}
