package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/storage"
)

// Recommendation is the monitor's verdict for a stuck video.
type Recommendation string

const (
	// RecommendMarkFailed: no transcript was ever produced; the run is dead.
	RecommendMarkFailed Recommendation = "mark-failed"

	// RecommendRetryProcessing: a transcript exists but chunking never
	// produced output; the processing stage needs to run again.
	RecommendRetryProcessing Recommendation = "retry-processing"

	// RecommendRetryEmbeddings: chunks exist but some or all vectors are
	// missing; re-running the embedding stage will finish the job.
	RecommendRetryEmbeddings Recommendation = "retry-embeddings"

	// RecommendFixStatus: chunks and vectors all exist; only the status
	// is stale and can be corrected in place.
	RecommendFixStatus Recommendation = "fix-status"
)

// Diagnosis pairs a stuck video with the monitor's recommendation.
type Diagnosis struct {
	Video          *core.Video
	StuckFor       time.Duration
	TotalChunks    int
	EmbeddedChunks int
	Recommendation Recommendation
}

// Monitor detects videos stalled past their stage timeout and recommends
// corrective action. It runs periodically, outside the stage handlers.
type Monitor struct {
	videos storage.VideoRepository
	chunks storage.ChunkRepository
	logger *slog.Logger
}

// NewMonitor creates a Monitor over the video and chunk repositories.
func NewMonitor(videos storage.VideoRepository, chunks storage.ChunkRepository) *Monitor {
	return &Monitor{
		videos: videos,
		chunks: chunks,
		logger: slog.Default().With("component", "pipeline-monitor"),
	}
}

// IsStuck reports whether the video has sat in its current timed stage
// longer than the stage's timeout. UpdatedAt is the stage entry time.
func IsStuck(v *core.Video, now time.Time) bool {
	info, timed := StageFor(v.Status)
	if !timed {
		return false
	}
	return now.Sub(v.UpdatedAt) > info.Timeout
}

// FindStuck scans every timed stage for videos past their timeout.
func (m *Monitor) FindStuck(ctx context.Context) ([]*core.Video, error) {
	now := nowFunc().UTC()

	var stuck []*core.Video
	for _, status := range TimedStages() {
		videos, err := m.videos.GetVideosByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("scan %s videos: %w", status, err)
		}
		for _, v := range videos {
			if IsStuck(v, now) {
				stuck = append(stuck, v)
			}
		}
	}
	return stuck, nil
}

// Diagnose inspects a stuck video's transcript, chunk count, and embedded
// count to recommend the cheapest corrective action.
func (m *Monitor) Diagnose(ctx context.Context, v *core.Video) (*Diagnosis, error) {
	total, embedded, err := m.chunks.CountChunks(ctx, v.Id)
	if err != nil {
		return nil, fmt.Errorf("count chunks for video %d: %w", v.Id, err)
	}

	d := &Diagnosis{
		Video:          v,
		StuckFor:       nowFunc().UTC().Sub(v.UpdatedAt),
		TotalChunks:    total,
		EmbeddedChunks: embedded,
	}

	switch {
	case v.Transcript == "":
		d.Recommendation = RecommendMarkFailed
	case total == 0:
		d.Recommendation = RecommendRetryProcessing
	case embedded < total:
		d.Recommendation = RecommendRetryEmbeddings
	default:
		d.Recommendation = RecommendFixStatus
	}
	return d, nil
}

// CheckOnce finds and diagnoses every stuck video in one pass.
func (m *Monitor) CheckOnce(ctx context.Context) ([]*Diagnosis, error) {
	stuck, err := m.FindStuck(ctx)
	if err != nil {
		return nil, err
	}

	diagnoses := make([]*Diagnosis, 0, len(stuck))
	for _, v := range stuck {
		d, err := m.Diagnose(ctx, v)
		if err != nil {
			return nil, err
		}
		m.logger.Warn("stuck video",
			"video", v.Id,
			"status", v.Status,
			"stuck_for", d.StuckFor.Round(time.Second),
			"chunks", d.TotalChunks,
			"embedded", d.EmbeddedChunks,
			"recommendation", d.Recommendation)
		diagnoses = append(diagnoses, d)
	}
	return diagnoses, nil
}

// Run invokes CheckOnce on the interval until the context ends.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.CheckOnce(ctx); err != nil {
				m.logger.Error("monitor pass failed", "err", err)
			}
		}
	}
}
