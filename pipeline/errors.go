// Copyright 2025 Reelmind Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"errors"
	"fmt"

	"github.com/reelmind/reelmind/core"
)

var (
	// ErrNotFailed is returned when retry is requested for a video that is
	// not in the failed state.
	ErrNotFailed = errors.New("video is not in failed state")

	// ErrEmptyTranscript is returned when the chunking stage runs against
	// a video with no transcript.
	ErrEmptyTranscript = errors.New("video has no transcript")

	// ErrStaleResult marks work discarded because the video's status
	// changed while the work was in flight.
	ErrStaleResult = errors.New("video status changed mid-stage, result discarded")
)

// StateTransitionError reports an illegal status transition. Always an
// ordering fault in the caller, never retried.
type StateTransitionError struct {
	VideoID core.ID
	From    core.VideoStatus
	To      core.VideoStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("video %d: illegal transition %s -> %s", e.VideoID, e.From, e.To)
}

// Retryable always reports false; an illegal transition will stay illegal.
func (e *StateTransitionError) Retryable() bool {
	return false
}

// RetryLimitError reports that a failed video has exhausted its stage's
// retry budget and needs operator intervention.
type RetryLimitError struct {
	VideoID    core.ID
	Stage      string
	RetryCount int
	MaxRetries int
}

func (e *RetryLimitError) Error() string {
	return fmt.Sprintf("video %d: stage %s exhausted retries (%d/%d)",
		e.VideoID, e.Stage, e.RetryCount, e.MaxRetries)
}

func (e *RetryLimitError) Retryable() bool {
	return false
}
