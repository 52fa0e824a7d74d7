package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/storage"
)

// nowFunc is a seam for tests that manipulate stage timing.
var nowFunc = time.Now

// StateMachine owns every status write for a video. All mutations go
// through the repository's single-transaction mutate, which validates the
// current status immediately before writing the next one; concurrent
// writers lose with a StateTransitionError instead of merging.
type StateMachine struct {
	videos storage.VideoRepository
	logger *slog.Logger
}

// NewStateMachine creates a StateMachine over the video repository.
func NewStateMachine(videos storage.VideoRepository) *StateMachine {
	return &StateMachine{
		videos: videos,
		logger: slog.Default().With("component", "state-machine"),
	}
}

// UpdateStatus advances a video along the transition graph.
//
// First entry into uploading stamps processing_started_at; entry into
// completed stamps processing_completed_at. Leaving a timed stage records
// its wall-clock duration, measured from the previous status write.
func (m *StateMachine) UpdateStatus(ctx context.Context, videoID core.ID, to core.VideoStatus) (*core.Video, error) {
	updated, err := m.videos.MutateVideo(ctx, videoID, func(v *core.Video) error {
		if !IsValidTransition(v.Status, to) {
			return &StateTransitionError{VideoID: videoID, From: v.Status, To: to}
		}

		now := nowFunc().UTC()
		m.recordStageDuration(v, now)

		if to == core.StatusUploading && v.ProcessingStartedAt.IsZero() {
			v.ProcessingStartedAt = now
		}
		if to == core.StatusCompleted {
			v.ProcessingCompletedAt = now
		}
		v.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("status updated", "video", videoID, "status", to)
	return updated, nil
}

// MarkFailed diverts a video to failed from the given stage.
//
// The stage must be the video's current status and stage -> failed must be
// legal; a mismatch means the failure report raced a concurrent transition
// and is rejected. Records structured last-error metadata and increments
// the retry counter.
func (m *StateMachine) MarkFailed(ctx context.Context, videoID core.ID, stage core.VideoStatus, message, errType string) (*core.Video, error) {
	updated, err := m.videos.MutateVideo(ctx, videoID, func(v *core.Video) error {
		if v.Status != stage || !IsValidTransition(stage, core.StatusFailed) {
			return &StateTransitionError{VideoID: videoID, From: v.Status, To: core.StatusFailed}
		}

		now := nowFunc().UTC()
		m.recordStageDuration(v, now)

		v.Status = core.StatusFailed
		v.ErrorMessage = message
		v.Metadata.RetryCount++
		v.Metadata.LastError = &core.LastError{
			Stage:     stage,
			Message:   message,
			Timestamp: now,
			Type:      errType,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Warn("video marked failed",
		"video", videoID, "stage", stage, "type", errType, "message", message)
	return updated, nil
}

// RetryFailedVideo resets a failed video to pending for another run.
//
// Rejected with a RetryLimitError when the stage that failed has exhausted
// its retry budget; the video stays failed and needs operator intervention.
func (m *StateMachine) RetryFailedVideo(ctx context.Context, videoID core.ID) (*core.Video, error) {
	updated, err := m.videos.MutateVideo(ctx, videoID, func(v *core.Video) error {
		if v.Status != core.StatusFailed {
			return ErrNotFailed
		}

		stage := core.StatusUploading
		if v.Metadata.LastError != nil {
			stage = v.Metadata.LastError.Stage
		}
		if info, ok := StageFor(stage); ok {
			if !info.Retryable || v.Metadata.RetryCount >= info.MaxRetries {
				return &RetryLimitError{
					VideoID:    videoID,
					Stage:      string(stage),
					RetryCount: v.Metadata.RetryCount,
					MaxRetries: info.MaxRetries,
				}
			}
		}

		v.Status = core.StatusPending
		v.ErrorMessage = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("failed video reset for retry",
		"video", videoID, "retry_count", updated.Metadata.RetryCount)
	return updated, nil
}

// recordStageDuration stamps how long the video sat in its current timed
// stage. UpdatedAt is the stage entry time because every status write
// refreshes it.
func (m *StateMachine) recordStageDuration(v *core.Video, now time.Time) {
	if _, timed := StageFor(v.Status); !timed || v.UpdatedAt.IsZero() {
		return
	}
	if v.Metadata.StageDurations == nil {
		v.Metadata.StageDurations = map[string]float64{}
	}
	v.Metadata.StageDurations[string(v.Status)] = now.Sub(v.UpdatedAt).Seconds()
}
