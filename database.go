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


package reelmind

import (
	"log/slog"

	"github.com/reelmind/reelmind/ai"
	"github.com/reelmind/reelmind/ai/openai"
	"github.com/reelmind/reelmind/embed"
	"github.com/reelmind/reelmind/pipeline"
	"github.com/reelmind/reelmind/search"
	"github.com/reelmind/reelmind/storage"
	"github.com/reelmind/reelmind/storage/badger"
	"github.com/reelmind/reelmind/transcript"
)

// Database wires the storage backend, the embedding provider, and the
// transcript router into one handle the pipeline and search layers hang off.
type Database struct {
	path      string
	backend   *badger.Backend
	videoRepo storage.VideoRepository
	chunkRepo storage.ChunkRepository
	usageRepo storage.UsageRepository
	embedder  ai.Embedder
	generator *embed.Generator
	router    *transcript.Router
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig         *ai.Config
	transcriptConfig *transcript.Config
	embedOptions     embed.Options
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithTranscriptConfig sets the transcript source credentials.
func WithTranscriptConfig(cfg *transcript.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.transcriptConfig = cfg
	}
}

// WithEmbedOptions sets batching, retry, and rate-limit parameters.
func WithEmbedOptions(opts embed.Options) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedOptions = opts
	}
}

// NewDatabase opens the store at filePath and constructs the full stack.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig:         ai.DefaultConfig(),
		transcriptConfig: transcript.DefaultConfig(),
		embedOptions:     embed.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	videoRepo, err := badger.NewVideoRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		videoRepo.Close()
		backend.Close()
		return nil, err
	}

	usageRepo, err := badger.NewUsageRepository(backend)
	if err != nil {
		chunkRepo.Close()
		videoRepo.Close()
		backend.Close()
		return nil, err
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		usageRepo.Close()
		chunkRepo.Close()
		videoRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		path:      filePath,
		backend:   backend,
		videoRepo: videoRepo,
		chunkRepo: chunkRepo,
		usageRepo: usageRepo,
		embedder:  embedder,
		generator: embed.NewGenerator(embedder, options.aiConfig, options.embedOptions),
		router: transcript.NewRouter(options.transcriptConfig,
			transcript.WithUsageRepository(usageRepo)),
		logger: slog.Default(),
	}, nil
}

// Close shuts down repositories and the backend.
func (db *Database) Close() error {
	if err := db.usageRepo.Close(); err != nil {
		db.logger.Error("error closing usage repository", "err", err)
		return err
	}
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := db.videoRepo.Close(); err != nil {
		db.logger.Error("error closing video repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Path returns the directory the store was opened at.
func (db *Database) Path() string {
	return db.path
}

func (db *Database) VideoRepository() storage.VideoRepository {
	return db.videoRepo
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) UsageRepository() storage.UsageRepository {
	return db.usageRepo
}

func (db *Database) Router() *transcript.Router {
	return db.router
}

func (db *Database) Generator() *embed.Generator {
	return db.generator
}

// NewPipelineService constructs the stage-event consumer over this
// database's repositories.
func (db *Database) NewPipelineService(poolSize int) (*pipeline.Service, error) {
	return pipeline.NewService(db.videoRepo, db.chunkRepo, db.usageRepo, db.router, db.generator, poolSize)
}

// NewMonitor constructs the stuck-video monitor.
func (db *Database) NewMonitor() *pipeline.Monitor {
	return pipeline.NewMonitor(db.videoRepo, db.chunkRepo)
}

// NewSearcher constructs a similarity searcher over the stored chunks.
func (db *Database) NewSearcher() *search.Searcher {
	return search.NewSearcher(db.videoRepo, db.chunkRepo, db.generator)
}
