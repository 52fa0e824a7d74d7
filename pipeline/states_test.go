package pipeline

import (
	"testing"
	"time"

	"github.com/reelmind/reelmind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTransition(t *testing.T) {
	all := []core.VideoStatus{
		core.StatusPending, core.StatusUploading, core.StatusTranscribing,
		core.StatusProcessing, core.StatusEmbedding, core.StatusCompleted,
		core.StatusFailed,
	}

	allowed := map[core.VideoStatus][]core.VideoStatus{
		core.StatusPending:      {core.StatusUploading, core.StatusFailed},
		core.StatusUploading:    {core.StatusTranscribing, core.StatusFailed},
		core.StatusTranscribing: {core.StatusProcessing, core.StatusFailed},
		core.StatusProcessing:   {core.StatusEmbedding, core.StatusFailed},
		core.StatusEmbedding:    {core.StatusCompleted, core.StatusFailed},
		core.StatusCompleted:    {},
		core.StatusFailed:       {core.StatusPending},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, IsValidTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestStageFor(t *testing.T) {
	info, ok := StageFor(core.StatusTranscribing)
	require.True(t, ok)
	assert.True(t, info.Retryable)
	assert.Equal(t, 3, info.MaxRetries)
	assert.Equal(t, 60*time.Minute, info.Timeout)

	for _, untimed := range []core.VideoStatus{core.StatusPending, core.StatusCompleted, core.StatusFailed} {
		_, ok := StageFor(untimed)
		assert.False(t, ok, "%s is not a timed stage", untimed)
	}
}
