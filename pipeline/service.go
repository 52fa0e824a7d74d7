package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/reelmind/reelmind/chunker"
	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/embed"
	"github.com/reelmind/reelmind/storage"
	"github.com/reelmind/reelmind/transcript"
)

// Service consumes the two pipeline events: "transcription requested"
// drives the router, "transcription completed" drives chunking and
// embedding. Both handlers are idempotent: event delivery is
// at-least-once, so a re-run overwrites prior partial output instead of
// appending to it.
type Service struct {
	videos  storage.VideoRepository
	chunks  storage.ChunkRepository
	usage   storage.UsageRepository
	machine *StateMachine
	router  *transcript.Router
	gen     *embed.Generator

	chunkOpts chunker.Options
	pool      *ants.Pool
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// NewService creates a Service with a shared worker pool. poolSize <= 0
// defaults to half the CPU count.
func NewService(
	videos storage.VideoRepository,
	chunks storage.ChunkRepository,
	usage storage.UsageRepository,
	router *transcript.Router,
	gen *embed.Generator,
	poolSize int,
) (*Service, error) {
	if poolSize <= 0 {
		poolSize = runtime.NumCPU() / 2
		if poolSize < 1 {
			poolSize = 1
		}
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &Service{
		videos:    videos,
		chunks:    chunks,
		usage:     usage,
		machine:   NewStateMachine(videos),
		router:    router,
		gen:       gen,
		chunkOpts: chunker.DefaultOptions(),
		pool:      pool,
		logger:    slog.Default().With("component", "pipeline-service"),
	}, nil
}

// Machine exposes the state machine for operator commands (retry, repair).
func (s *Service) Machine() *StateMachine {
	return s.machine
}

// Close waits for in-flight work and releases the pool.
func (s *Service) Close() error {
	s.wg.Wait()
	s.pool.Release()
	return nil
}

// SubmitTranscriptionRequested runs HandleTranscriptionRequested on the pool.
func (s *Service) SubmitTranscriptionRequested(ctx context.Context, videoID core.ID) error {
	return s.submit(ctx, videoID, s.HandleTranscriptionRequested)
}

// SubmitTranscriptionCompleted runs HandleTranscriptionCompleted on the pool.
func (s *Service) SubmitTranscriptionCompleted(ctx context.Context, videoID core.ID) error {
	return s.submit(ctx, videoID, s.HandleTranscriptionCompleted)
}

func (s *Service) submit(ctx context.Context, videoID core.ID, handler func(context.Context, core.ID) error) error {
	s.wg.Add(1)
	err := s.pool.Submit(func() {
		defer s.wg.Done()
		if err := handler(ctx, videoID); err != nil {
			s.logger.Error("pipeline stage failed", "video", videoID, "err", err)
		}
	})
	if err != nil {
		s.wg.Done()
	}
	return err
}

// HandleTranscriptionRequested moves a pending video through uploading and
// transcribing, extracts its transcript via the router, and parks it in
// processing for the chunk/embed handler.
//
// Re-delivered events are safe: a video already past transcribing is left
// alone, and a video that already has a transcript skips re-extraction.
func (s *Service) HandleTranscriptionRequested(ctx context.Context, videoID core.ID) error {
	video, err := s.videos.GetVideo(ctx, videoID)
	if err != nil {
		return fmt.Errorf("load video %d: %w", videoID, err)
	}

	switch video.Status {
	case core.StatusPending:
		if _, err := s.machine.UpdateStatus(ctx, videoID, core.StatusUploading); err != nil {
			return err
		}
		fallthrough
	case core.StatusUploading:
		if _, err := s.machine.UpdateStatus(ctx, videoID, core.StatusTranscribing); err != nil {
			return err
		}
	case core.StatusTranscribing:
		// Replayed event; resume extraction below.
	default:
		s.logger.Debug("transcription request ignored, video already past transcribing",
			"video", videoID, "status", video.Status)
		return nil
	}

	if video.Transcript == "" {
		result, err := s.router.ExtractTranscript(ctx, video.Identifier, video.CreatorID, transcript.ExtractOptions{})
		if err != nil {
			return s.failStage(ctx, videoID, core.StatusTranscribing, err)
		}

		_, err = s.videos.MutateVideo(ctx, videoID, func(v *core.Video) error {
			if v.Status != core.StatusTranscribing {
				return ErrStaleResult
			}
			v.Transcript = result.Transcript
			v.TranscriptMethod = result.Method
			v.Segments = result.Segments
			if result.Title != "" {
				v.Title = result.Title
			}
			if result.URL != "" {
				v.URL = result.URL
			}
			if result.ThumbnailURL != "" {
				v.ThumbnailURL = result.ThumbnailURL
			}
			if result.DurationSeconds > 0 {
				v.DurationSeconds = result.DurationSeconds
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if _, err := s.machine.UpdateStatus(ctx, videoID, core.StatusProcessing); err != nil {
		return err
	}
	return nil
}

// HandleTranscriptionCompleted chunks the stored transcript, embeds the
// chunks, and completes the video.
//
// Chunk writes replace any previous set for the video, so a replayed event
// regenerates rather than duplicates. Before attaching vectors the video's
// status is re-checked; results arriving after a concurrent failure are
// discarded.
func (s *Service) HandleTranscriptionCompleted(ctx context.Context, videoID core.ID) error {
	video, err := s.videos.GetVideo(ctx, videoID)
	if err != nil {
		return fmt.Errorf("load video %d: %w", videoID, err)
	}
	if video.Status != core.StatusProcessing {
		s.logger.Debug("transcription-completed event ignored",
			"video", videoID, "status", video.Status)
		return nil
	}
	if video.Transcript == "" {
		_, _ = s.machine.MarkFailed(ctx, videoID, core.StatusProcessing,
			ErrEmptyTranscript.Error(), "VALIDATION")
		return ErrEmptyTranscript
	}

	chunks := s.chunkVideo(video)
	if len(chunks) == 0 {
		_, _ = s.machine.MarkFailed(ctx, videoID, core.StatusProcessing,
			"transcript produced no chunks", "VALIDATION")
		return ErrEmptyTranscript
	}
	for _, w := range chunker.ValidateChunks(chunks) {
		s.logger.Warn("chunk validation warning", "video", videoID, "warning", w.String())
	}

	if err := s.chunks.ReplaceChunks(ctx, videoID, chunks); err != nil {
		return s.failStage(ctx, videoID, core.StatusProcessing, err)
	}
	if _, err := s.machine.UpdateStatus(ctx, videoID, core.StatusEmbedding); err != nil {
		return err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	result, err := s.gen.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return s.failStage(ctx, videoID, core.StatusEmbedding, err)
	}

	// The video may have been failed by the monitor while embedding ran.
	current, err := s.videos.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}
	if current.Status != core.StatusEmbedding {
		s.logger.Warn("discarding stale embedding result",
			"video", videoID, "status", current.Status)
		return ErrStaleResult
	}

	for i, c := range chunks {
		c.Vector = result.Embeddings[i]
	}
	if err := s.chunks.UpdateChunks(ctx, chunks...); err != nil {
		return s.failStage(ctx, videoID, core.StatusEmbedding, err)
	}

	s.recordEmbeddingCost(ctx, video.CreatorID, result)

	if _, err := s.machine.UpdateStatus(ctx, videoID, core.StatusCompleted); err != nil {
		return err
	}
	s.logger.Info("video completed",
		"video", videoID, "chunks", len(chunks), "tokens", result.TotalTokens)
	return nil
}

// chunkVideo prefers timestamped segments over the flat transcript.
func (s *Service) chunkVideo(video *core.Video) []*core.TranscriptChunk {
	if len(video.Segments) > 0 {
		return chunker.ChunkSegments(video.Segments, s.chunkOpts)
	}
	return chunker.ChunkText(video.Transcript, s.chunkOpts)
}

// failStage marks the video failed at the given stage, preserving the
// failure taxonomy from router errors.
func (s *Service) failStage(ctx context.Context, videoID core.ID, stage core.VideoStatus, cause error) error {
	errType := "UNKNOWN"
	var rerr *transcript.RouterError
	if errors.As(cause, &rerr) {
		errType = string(rerr.Code)
	}

	if _, err := s.machine.MarkFailed(ctx, videoID, stage, cause.Error(), errType); err != nil {
		var terr *StateTransitionError
		if errors.As(err, &terr) {
			// Lost a race with another writer; the cause still stands.
			s.logger.Warn("failure report raced a concurrent transition",
				"video", videoID, "stage", stage, "err", err)
			return cause
		}
		return errors.Join(cause, err)
	}
	return cause
}

// recordEmbeddingCost writes the run's token usage to the cost ledger.
func (s *Service) recordEmbeddingCost(ctx context.Context, creatorID string, result *embed.Result) {
	if s.usage == nil || creatorID == "" {
		return
	}
	err := s.usage.RecordUsage(ctx, &core.UsageMetric{
		CreatorID:       creatorID,
		Date:            core.UsageDate(nowFunc()),
		EmbeddingTokens: result.TotalTokens,
		CostUSD:         map[string]float64{"embedding": result.TotalCostUSD},
	})
	if err != nil {
		s.logger.Error("failed to record embedding cost", "creator", creatorID, "err", err)
	}
}
