package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVideo(t *testing.T) {
	tests := []struct {
		name    string
		video   *Video
		wantErr error
	}{
		{
			name:  "valid youtube video",
			video: &Video{SourceType: SourceYouTube, Identifier: "dQw4w9WgXcQ", Status: StatusPending},
		},
		{
			name:  "valid upload without status",
			video: &Video{SourceType: SourceUpload, Identifier: "uploads/creator-1/talk.mp4"},
		},
		{
			name:    "nil video",
			video:   nil,
			wantErr: ErrInvalidVideo,
		},
		{
			name:    "empty identifier",
			video:   &Video{SourceType: SourceVimeo},
			wantErr: ErrEmptyIdentifier,
		},
		{
			name:    "unknown source type",
			video:   &Video{SourceType: "dailymotion", Identifier: "x"},
			wantErr: ErrInvalidSourceType,
		},
		{
			name:    "unknown status",
			video:   &Video{SourceType: SourceMux, Identifier: "x", Status: "paused"},
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVideo(tt.video)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *TranscriptChunk
		wantErr error
	}{
		{
			name:  "valid chunk",
			chunk: &TranscriptChunk{VideoId: 1, Index: 0, Text: "hello", StartSeconds: 0, EndSeconds: 5},
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty text",
			chunk:   &TranscriptChunk{VideoId: 1},
			wantErr: ErrEmptyChunkText,
		},
		{
			name:    "negative index",
			chunk:   &TranscriptChunk{VideoId: 1, Index: -1, Text: "x"},
			wantErr: ErrNegativeChunkIndex,
		},
		{
			name:    "end before start",
			chunk:   &TranscriptChunk{VideoId: 1, Text: "x", StartSeconds: 10, EndSeconds: 5},
			wantErr: ErrInvalidTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
