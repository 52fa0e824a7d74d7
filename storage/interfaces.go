package storage

import (
	"context"

	"github.com/reelmind/reelmind/core"
)

// VideoRepository provides operations for managing video records.
// Implementations must be thread-safe and support concurrent access.
type VideoRepository interface {
	// GetOrCreateVideo finds or creates a video by its content-based ID.
	// If the video already exists, the stored record is returned unchanged,
	// which makes replayed ingest events converge on the same row.
	// New videos are created with status pending unless one is set.
	GetOrCreateVideo(ctx context.Context, video *core.Video) (*core.Video, error)

	// GetVideo retrieves a single video by ID.
	// Returns ErrNotFound if the video doesn't exist.
	GetVideo(ctx context.Context, id core.ID) (*core.Video, error)

	// UpdateVideo updates an existing video and its status index.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the video doesn't exist.
	UpdateVideo(ctx context.Context, video *core.Video) (*core.Video, error)

	// MutateVideo applies fn to the current stored video inside a single
	// write transaction and persists the result. If fn returns an error the
	// stored record is left untouched. This is the serialization point for
	// status transitions: fn sees the current status immediately before the
	// write.
	MutateVideo(ctx context.Context, id core.ID, fn func(*core.Video) error) (*core.Video, error)

	// GetVideosByStatus retrieves all videos currently in the given status.
	GetVideosByStatus(ctx context.Context, status core.VideoStatus) ([]*core.Video, error)

	// DeleteVideo removes a video by ID, including its status index entry.
	// Returns ErrNotFound if the video doesn't exist.
	DeleteVideo(ctx context.Context, id core.ID) error

	// Close releases resources held by the repository.
	Close() error
}

// ChunkRepository provides operations for managing transcript chunks and
// their embeddings. Chunks are keyed by (video ID, chunk index).
type ChunkRepository interface {
	// ReplaceChunks atomically deletes all existing chunks for the video and
	// writes the given set. Stage handlers use this so a re-run overwrites
	// prior partial output instead of appending to it.
	ReplaceChunks(ctx context.Context, videoID core.ID, chunks []*core.TranscriptChunk) error

	// UpdateChunks updates existing chunks, typically to attach embeddings.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.TranscriptChunk) error

	// GetChunk retrieves a single chunk.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, videoID core.ID, index int) (*core.TranscriptChunk, error)

	// GetChunks retrieves all chunks for a video ordered by index.
	GetChunks(ctx context.Context, videoID core.ID) ([]*core.TranscriptChunk, error)

	// CountChunks returns the number of chunks for a video and how many of
	// them carry an embedding vector.
	CountChunks(ctx context.Context, videoID core.ID) (total, embedded int, err error)

	// DeleteChunks removes all chunks for a video.
	DeleteChunks(ctx context.Context, videoID core.ID) error

	// FindSimilarChunks finds chunks similar to the given vector.
	// Returns chunks with cosine similarity >= minSimilarity, up to limit
	// results, ordered by similarity (highest first). When videoIDs is
	// non-empty, only chunks belonging to those videos are considered.
	FindSimilarChunks(ctx context.Context, vector []float32, minSimilarity float32, limit int, videoIDs []core.ID) ([]*core.ChunkMatch, error)

	// Close releases resources held by the repository.
	Close() error
}

// UsageRepository is the cost-ledger sink. Increments are merge-only; this
// package never deletes usage rows.
type UsageRepository interface {
	// RecordUsage merges the delta into the (CreatorID, Date) row, creating
	// it if absent. Minutes and tokens are added; CostUSD categories are
	// added key by key. Safe to call concurrently.
	RecordUsage(ctx context.Context, delta *core.UsageMetric) error

	// GetUsage retrieves the accumulated metric for a creator and day.
	// Returns ErrNotFound if nothing has been recorded.
	GetUsage(ctx context.Context, creatorID, date string) (*core.UsageMetric, error)

	// Close releases resources held by the repository.
	Close() error
}
