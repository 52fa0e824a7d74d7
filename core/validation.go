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


package core

import "fmt"

// ValidateSourceType checks that the source type is one of the closed set.
func ValidateSourceType(st SourceType) error {
	switch st {
	case SourceYouTube, SourceVimeo, SourceMux, SourceUpload:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSourceType, st)
}

// ValidateStatus checks that the status is a known pipeline state.
func ValidateStatus(s VideoStatus) error {
	switch s {
	case StatusPending, StatusUploading, StatusTranscribing, StatusProcessing,
		StatusEmbedding, StatusCompleted, StatusFailed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ValidateVideo validates a Video according to domain rules.
//
// Validation rules:
//   - Identifier must not be empty
//   - SourceType must be one of the closed set
//   - Status, when set, must be a known state
//
// NOT validated (populated by the pipeline):
//   - Transcript, Segments (empty until the transcribing stage runs)
//   - Title, DurationSeconds (populated from the extractor result)
func ValidateVideo(video *Video) error {
	if video == nil {
		return fmt.Errorf("%w: video is nil", ErrInvalidVideo)
	}

	if video.Identifier == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVideo, ErrEmptyIdentifier)
	}

	if err := ValidateSourceType(video.SourceType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVideo, err)
	}

	if video.Status != "" {
		if err := ValidateStatus(video.Status); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidVideo, err)
		}
	}

	return nil
}

// ValidateChunk validates a TranscriptChunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Index must not be negative
//   - EndSeconds must not precede StartSeconds
//
// NOT validated (populated by the embedding stage):
//   - Vector (empty until embeddings are attached)
func ValidateChunk(chunk *TranscriptChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}

	if chunk.EndSeconds < chunk.StartSeconds {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidTimeRange)
	}

	return nil
}
