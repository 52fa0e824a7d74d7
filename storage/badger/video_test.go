package badger

import (
	"context"
	"testing"

	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepos(t *testing.T) (storage.VideoRepository, storage.ChunkRepository, storage.UsageRepository) {
	t.Helper()
	videoRepo, chunkRepo, usageRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		usageRepo.Close()
		chunkRepo.Close()
		videoRepo.Close()
		backend.Close()
	})
	return videoRepo, chunkRepo, usageRepo
}

func TestVideoRepository_GetOrCreateVideo(t *testing.T) {
	repo, _, _ := setupTestRepos(t)
	ctx := context.Background()

	video := &core.Video{
		CreatorID:  "creator-1",
		SourceType: core.SourceYouTube,
		Identifier: "dQw4w9WgXcQ",
	}

	created, err := repo.GetOrCreateVideo(ctx, video)
	require.NoError(t, err)
	assert.NotZero(t, created.Id)
	assert.Equal(t, core.StatusPending, created.Status)
	assert.False(t, created.InsertedAt.IsZero())
	assert.Equal(t, core.MetadataVersion, created.Metadata.Version)

	// Re-ingesting the same source resolves to the same stored record.
	again, err := repo.GetOrCreateVideo(ctx, &core.Video{
		CreatorID:  "creator-1",
		SourceType: core.SourceYouTube,
		Identifier: "dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	assert.Equal(t, created.Id, again.Id)
	assert.Equal(t, created.InsertedAt, again.InsertedAt)

	// The record returned from the create matches a read exactly; timestamps
	// are stamped at the precision the value encoding keeps.
	stored, err := repo.GetVideo(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.InsertedAt, stored.InsertedAt)
	assert.Equal(t, created.UpdatedAt, stored.UpdatedAt)
}

func TestVideoRepository_GetVideo_NotFound(t *testing.T) {
	repo, _, _ := setupTestRepos(t)

	_, err := repo.GetVideo(context.Background(), 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVideoRepository_MutateVideo(t *testing.T) {
	repo, _, _ := setupTestRepos(t)
	ctx := context.Background()

	created, err := repo.GetOrCreateVideo(ctx, &core.Video{
		SourceType: core.SourceVimeo,
		Identifier: "76979871",
	})
	require.NoError(t, err)

	updated, err := repo.MutateVideo(ctx, created.Id, func(v *core.Video) error {
		v.Status = core.StatusUploading
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, core.StatusUploading, updated.Status)

	// The status index follows the mutation.
	pending, err := repo.GetVideosByStatus(ctx, core.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	uploading, err := repo.GetVideosByStatus(ctx, core.StatusUploading)
	require.NoError(t, err)
	require.Len(t, uploading, 1)
	assert.Equal(t, created.Id, uploading[0].Id)
}

func TestVideoRepository_MutateVideo_AbortLeavesRecordUntouched(t *testing.T) {
	repo, _, _ := setupTestRepos(t)
	ctx := context.Background()

	created, err := repo.GetOrCreateVideo(ctx, &core.Video{
		SourceType: core.SourceMux,
		Identifier: "asset-1",
	})
	require.NoError(t, err)

	wantErr := assert.AnError
	_, err = repo.MutateVideo(ctx, created.Id, func(v *core.Video) error {
		v.Status = core.StatusCompleted
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	stored, err := repo.GetVideo(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, stored.Status)
}

func TestVideoRepository_DeleteVideo(t *testing.T) {
	repo, _, _ := setupTestRepos(t)
	ctx := context.Background()

	created, err := repo.GetOrCreateVideo(ctx, &core.Video{
		SourceType: core.SourceUpload,
		Identifier: "uploads/a/b.mp4",
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteVideo(ctx, created.Id))

	_, err = repo.GetVideo(ctx, created.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	pending, err := repo.GetVideosByStatus(ctx, core.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
