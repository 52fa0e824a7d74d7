package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/embed"
	"github.com/reelmind/reelmind/storage"
)

// Options controls a similarity search.
type Options struct {
	// MatchCount caps the number of results. Default 5.
	MatchCount int

	// SimilarityThreshold filters out weak matches. Default 0.7.
	SimilarityThreshold float32

	// FilterVideoIDs restricts the search to specific videos. Empty means
	// all videos.
	FilterVideoIDs []core.ID
}

// DefaultOptions returns the standard search parameters.
func DefaultOptions() Options {
	return Options{
		MatchCount:          5,
		SimilarityThreshold: 0.7,
	}
}

func (o *Options) normalize() {
	if o.MatchCount <= 0 {
		o.MatchCount = 5
	}
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = 0.7
	}
}

// Result is a chunk match enriched with its source video's display fields.
type Result struct {
	Chunk             *core.TranscriptChunk
	Similarity        float32
	VideoTitle        string
	VideoURL          string
	VideoThumbnailURL string
}

// Searcher answers natural-language queries against the stored
// chunk/embedding index.
type Searcher struct {
	videos storage.VideoRepository
	chunks storage.ChunkRepository
	gen    *embed.Generator
	logger *slog.Logger
}

// NewSearcher creates a Searcher.
func NewSearcher(videos storage.VideoRepository, chunks storage.ChunkRepository, gen *embed.Generator) *Searcher {
	return &Searcher{
		videos: videos,
		chunks: chunks,
		gen:    gen,
		logger: slog.Default().With("component", "searcher"),
	}
}

// SearchChunks embeds the query and returns the closest chunks above the
// similarity threshold, ordered by descending similarity, capped at
// MatchCount.
func (s *Searcher) SearchChunks(ctx context.Context, query string, opts Options) ([]*Result, error) {
	opts.normalize()
	if query == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := s.gen.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.chunks.FindSimilarChunks(ctx, vector, opts.SimilarityThreshold, opts.MatchCount, opts.FilterVideoIDs)
	if err != nil {
		return nil, fmt.Errorf("similarity lookup: %w", err)
	}

	results, err := s.enrich(ctx, matches)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search complete", "query_len", len(query), "matches", len(results))
	return results, nil
}

// FindRelatedChunks reuses a stored chunk's own embedding as the query,
// excluding the chunk itself from the results.
func (s *Searcher) FindRelatedChunks(ctx context.Context, videoID core.ID, chunkIndex int, opts Options) ([]*Result, error) {
	opts.normalize()

	self, err := s.chunks.GetChunk(ctx, videoID, chunkIndex)
	if err != nil {
		return nil, fmt.Errorf("load chunk %d/%d: %w", videoID, chunkIndex, err)
	}
	if len(self.Vector) == 0 {
		return nil, ErrChunkNotEmbedded
	}

	// Fetch one extra match: the chunk always matches itself.
	matches, err := s.chunks.FindSimilarChunks(ctx, self.Vector, opts.SimilarityThreshold, opts.MatchCount+1, opts.FilterVideoIDs)
	if err != nil {
		return nil, fmt.Errorf("similarity lookup: %w", err)
	}

	filtered := matches[:0]
	for _, m := range matches {
		if m.Chunk.VideoId == videoID && m.Chunk.Index == chunkIndex {
			continue
		}
		filtered = append(filtered, m)
	}
	if len(filtered) > opts.MatchCount {
		filtered = filtered[:opts.MatchCount]
	}

	return s.enrich(ctx, filtered)
}

// enrich attaches source-video display fields to each match, fetching each
// distinct video once.
func (s *Searcher) enrich(ctx context.Context, matches []*core.ChunkMatch) ([]*Result, error) {
	videoCache := map[core.ID]*core.Video{}

	results := make([]*Result, 0, len(matches))
	for _, m := range matches {
		video, ok := videoCache[m.Chunk.VideoId]
		if !ok {
			var err error
			video, err = s.videos.GetVideo(ctx, m.Chunk.VideoId)
			if err != nil {
				return nil, fmt.Errorf("load video %d: %w", m.Chunk.VideoId, err)
			}
			videoCache[m.Chunk.VideoId] = video
		}

		results = append(results, &Result{
			Chunk:             m.Chunk,
			Similarity:        m.Similarity,
			VideoTitle:        video.Title,
			VideoURL:          video.URL,
			VideoThumbnailURL: video.ThumbnailURL,
		})
	}
	return results, nil
}
