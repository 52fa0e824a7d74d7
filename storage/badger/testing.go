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


package badger

import "github.com/reelmind/reelmind/storage"

// NewMemoryRepositories creates in-memory video, chunk, and usage
// repositories for testing. Caller must close the repos and backend when
// done.
func NewMemoryRepositories() (storage.VideoRepository, storage.ChunkRepository, storage.UsageRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	videoRepo, err := NewVideoRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	chunkRepo, err := NewChunkRepository(backend)
	if err != nil {
		videoRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	usageRepo, err := NewUsageRepository(backend)
	if err != nil {
		chunkRepo.Close()
		videoRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return videoRepo, chunkRepo, usageRepo, backend, nil
}
