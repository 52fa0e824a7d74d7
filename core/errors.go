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

import "errors"

// Domain validation errors
var (
	// ErrInvalidVideo indicates a Video failed validation.
	ErrInvalidVideo = errors.New("invalid video")

	// ErrInvalidChunk indicates a TranscriptChunk failed validation.
	ErrInvalidChunk = errors.New("invalid transcript chunk")

	// ErrEmptyIdentifier indicates the video has no source identifier.
	ErrEmptyIdentifier = errors.New("identifier cannot be empty")

	// ErrInvalidSourceType indicates an unknown SourceType value.
	ErrInvalidSourceType = errors.New("invalid source type")

	// ErrInvalidStatus indicates an unknown VideoStatus value.
	ErrInvalidStatus = errors.New("invalid video status")

	// ErrEmptyChunkText indicates the chunk Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrNegativeChunkIndex indicates a chunk index below zero.
	ErrNegativeChunkIndex = errors.New("chunk index cannot be negative")

	// ErrInvalidTimeRange indicates a chunk whose end precedes its start.
	ErrInvalidTimeRange = errors.New("chunk end time cannot precede start time")
)
