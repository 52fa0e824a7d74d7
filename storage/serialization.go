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


package storage

import (
	"github.com/reelmind/reelmind/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalVideo serializes a Video to bytes.
func MarshalVideo(video *core.Video) []byte {
	buf := make([]byte, core.VideoMUS.Size(*video))
	core.VideoMUS.Marshal(*video, buf)
	return buf
}

// UnmarshalVideo deserializes a Video from bytes.
func UnmarshalVideo(data []byte) (*core.Video, error) {
	video, _, err := core.VideoMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// MarshalChunk serializes a TranscriptChunk to bytes.
func MarshalChunk(chunk *core.TranscriptChunk) []byte {
	buf := make([]byte, core.TranscriptChunkMUS.Size(*chunk))
	core.TranscriptChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a TranscriptChunk from bytes.
func UnmarshalChunk(data []byte) (*core.TranscriptChunk, error) {
	chunk, _, err := core.TranscriptChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalUsage serializes a UsageMetric to bytes.
func MarshalUsage(metric *core.UsageMetric) []byte {
	buf := make([]byte, core.UsageMetricMUS.Size(*metric))
	core.UsageMetricMUS.Marshal(*metric, buf)
	return buf
}

// UnmarshalUsage deserializes a UsageMetric from bytes.
func UnmarshalUsage(data []byte) (*core.UsageMetric, error) {
	metric, _, err := core.UsageMetricMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &metric, nil
}
