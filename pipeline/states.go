package pipeline

import (
	"time"

	"github.com/reelmind/reelmind/core"
)

// transitions is the legal status graph. completed is terminal;
// failed -> pending is the only back-edge.
var transitions = map[core.VideoStatus][]core.VideoStatus{
	core.StatusPending:      {core.StatusUploading, core.StatusFailed},
	core.StatusUploading:    {core.StatusTranscribing, core.StatusFailed},
	core.StatusTranscribing: {core.StatusProcessing, core.StatusFailed},
	core.StatusProcessing:   {core.StatusEmbedding, core.StatusFailed},
	core.StatusEmbedding:    {core.StatusCompleted, core.StatusFailed},
	core.StatusCompleted:    {},
	core.StatusFailed:       {core.StatusPending},
}

// IsValidTransition reports whether from -> to follows the status graph.
func IsValidTransition(from, to core.VideoStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// StageInfo describes the retry and timeout policy of a timed stage.
type StageInfo struct {
	Retryable  bool
	MaxRetries int
	Timeout    time.Duration
}

// stages covers the four timed stages. pending, completed, and failed are
// not timed and carry no policy.
var stages = map[core.VideoStatus]StageInfo{
	core.StatusUploading:    {Retryable: true, MaxRetries: 3, Timeout: 30 * time.Minute},
	core.StatusTranscribing: {Retryable: true, MaxRetries: 3, Timeout: 60 * time.Minute},
	core.StatusProcessing:   {Retryable: true, MaxRetries: 3, Timeout: 15 * time.Minute},
	core.StatusEmbedding:    {Retryable: true, MaxRetries: 3, Timeout: 30 * time.Minute},
}

// StageFor returns the policy for a timed stage, or false for untimed states.
func StageFor(status core.VideoStatus) (StageInfo, bool) {
	info, ok := stages[status]
	return info, ok
}

// TimedStages lists the statuses the stuck monitor watches.
func TimedStages() []core.VideoStatus {
	return []core.VideoStatus{
		core.StatusUploading,
		core.StatusTranscribing,
		core.StatusProcessing,
		core.StatusEmbedding,
	}
}
