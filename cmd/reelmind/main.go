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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reelmind/reelmind"
	"github.com/reelmind/reelmind/ai"
	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/pipeline"
	"github.com/reelmind/reelmind/search"
	"github.com/reelmind/reelmind/transcript"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "reelmind",
		Usage: "Transcript ingestion and semantic search for video libraries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a video: extract its transcript, chunk it, and embed the chunks",
				ArgsUsage: "<identifier>",
				Action:    ingestCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "creator",
						Aliases:  []string{"c"},
						Usage:    "Creator ID the video and its costs belong to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "media",
						Usage: "Path to a local media file for direct-upload transcription",
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "ISO language hint for speech-to-text",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search stored transcripts by semantic similarity",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(databaseFlags(),
					&cli.IntFlag{
						Name:  "match-count",
						Usage: "Maximum number of results",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum cosine similarity for a match",
						Value: 0.7,
					},
					&cli.Uint64SliceFlag{
						Name:  "video",
						Usage: "Restrict the search to these video IDs (repeatable)",
					},
					&cli.IntFlag{
						Name:  "context-chars",
						Usage: "Print an assembled context block capped at N characters instead of citations",
					},
				),
			},
			{
				Name:   "related",
				Usage:  "Find chunks similar to one already stored",
				Action: relatedCommand,
				Flags: append(databaseFlags(),
					&cli.Uint64Flag{
						Name:     "video",
						Usage:    "Video ID the source chunk belongs to",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "chunk",
						Usage: "Index of the source chunk",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "match-count",
						Usage: "Maximum number of results",
						Value: 5,
					},
				),
			},
			{
				Name:   "monitor",
				Usage:  "Report videos stalled past their stage timeout",
				Action: monitorCommand,
				Flags: append(databaseFlags(),
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Re-check on this interval instead of exiting after one pass",
					},
				),
			},
			{
				Name:   "retry",
				Usage:  "Reset a failed video to pending for another run",
				Action: retryCommand,
				Flags: append(databaseFlags(),
					&cli.Uint64Flag{
						Name:     "video",
						Usage:    "Video ID to retry",
						Required: true,
					},
				),
			},
			{
				Name:   "usage",
				Usage:  "Show a creator's cost ledger for one day",
				Action: usageCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "creator",
						Aliases:  []string{"c"},
						Usage:    "Creator ID to report on",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "Ledger day (YYYY-MM-DD, UTC); defaults to today",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// databaseFlags are the flags every command needs to open the store and
// reach the embedding and transcript services.
func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:    "openai-api-key",
			Usage:   "API key for the embedding and speech-to-text services",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "vimeo-api-key",
			Usage:   "Vimeo API bearer token",
			EnvVars: []string{"VIMEO_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "mux-token-id",
			Usage:   "Mux access token ID",
			EnvVars: []string{"MUX_TOKEN_ID"},
		},
		&cli.StringFlag{
			Name:    "mux-token-secret",
			Usage:   "Mux access token secret",
			EnvVars: []string{"MUX_TOKEN_SECRET"},
		},
	}
}

// openDatabase builds the full stack from the shared flags.
func openDatabase(c *cli.Context) (*reelmind.Database, error) {
	aiOpts := []ai.ConfigOption{
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	}
	if key := c.String("openai-api-key"); key != "" {
		aiOpts = append(aiOpts, ai.WithAPIKey(key))
	}
	aiConfig := ai.NewConfig(aiOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	transcriptConfig := transcript.NewConfig(
		transcript.WithOpenAIAPIKey(c.String("openai-api-key")),
		transcript.WithVimeoAPIKey(c.String("vimeo-api-key")),
		transcript.WithMuxCredentials(c.String("mux-token-id"), c.String("mux-token-secret")),
	)

	db, err := reelmind.NewDatabase(c.String("db"),
		reelmind.WithAIConfig(aiConfig),
		reelmind.WithTranscriptConfig(transcriptConfig),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	identifier := c.Args().First()
	if identifier == "" {
		return fmt.Errorf("identifier argument is required")
	}

	sourceType, ok := transcript.DetectSourceType(identifier)
	if c.String("media") != "" {
		// A local media file overrides detection; the paid fallback
		// transcribes it regardless of what the identifier looks like.
		sourceType = core.SourceUpload
	} else if !ok {
		return fmt.Errorf("unrecognized identifier %q: pass --media for direct uploads", identifier)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := db.NewPipelineService(1)
	if err != nil {
		return fmt.Errorf("failed to create pipeline service: %w", err)
	}
	defer svc.Close()

	video, err := db.VideoRepository().GetOrCreateVideo(ctx, &core.Video{
		CreatorID:  c.String("creator"),
		SourceType: sourceType,
		Identifier: identifier,
	})
	if err != nil {
		return fmt.Errorf("failed to register video: %w", err)
	}
	if video.Status == core.StatusCompleted {
		fmt.Fprintf(os.Stderr, "Video %d already completed\n", video.Id)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Video: %d (%s %s)\n", video.Id, video.SourceType, video.Identifier)

	if mediaPath := c.String("media"); mediaPath != "" {
		err = ingestMedia(ctx, db, svc, video, mediaPath, c.String("language"))
	} else {
		err = svc.HandleTranscriptionRequested(ctx, video.Id)
	}
	if err != nil {
		return reportFailure(ctx, db, video.Id, err)
	}

	if err := svc.HandleTranscriptionCompleted(ctx, video.Id); err != nil {
		return reportFailure(ctx, db, video.Id, err)
	}

	video, err = db.VideoRepository().GetVideo(ctx, video.Id)
	if err != nil {
		return err
	}
	total, embedded, err := db.ChunkRepository().CountChunks(ctx, video.Id)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Status: %s\n", video.Status)
	fmt.Fprintf(os.Stderr, "Title: %s\n", video.Title)
	fmt.Fprintf(os.Stderr, "Transcript method: %s\n", video.TranscriptMethod)
	fmt.Fprintf(os.Stderr, "Chunks: %d (%d embedded)\n", total, embedded)
	return nil
}

// ingestMedia walks the video to transcribing, runs the router with the
// uploaded bytes, and parks it in processing. The event handler path cannot
// carry a media buffer, so direct uploads drive the state machine here.
func ingestMedia(ctx context.Context, db *reelmind.Database, svc *pipeline.Service, video *core.Video, mediaPath, language string) error {
	media, err := os.ReadFile(mediaPath)
	if err != nil {
		return fmt.Errorf("failed to read media file: %w", err)
	}

	machine := svc.Machine()
	if video.Status == core.StatusPending {
		if _, err := machine.UpdateStatus(ctx, video.Id, core.StatusUploading); err != nil {
			return err
		}
		video.Status = core.StatusUploading
	}
	if video.Status == core.StatusUploading {
		if _, err := machine.UpdateStatus(ctx, video.Id, core.StatusTranscribing); err != nil {
			return err
		}
	}

	result, err := db.Router().ExtractTranscript(ctx, video.Identifier, video.CreatorID, transcript.ExtractOptions{
		Media:    media,
		Filename: filepath.Base(mediaPath),
		Language: language,
	})
	if err != nil {
		_, _ = machine.MarkFailed(ctx, video.Id, core.StatusTranscribing, err.Error(), "UNKNOWN")
		return err
	}

	_, err = db.VideoRepository().MutateVideo(ctx, video.Id, func(v *core.Video) error {
		v.Transcript = result.Transcript
		v.TranscriptMethod = result.Method
		v.Segments = result.Segments
		if result.DurationSeconds > 0 {
			v.DurationSeconds = result.DurationSeconds
		}
		return nil
	})
	if err != nil {
		return err
	}

	_, err = machine.UpdateStatus(ctx, video.Id, core.StatusProcessing)
	return err
}

// reportFailure surfaces the stored failure record alongside the error.
func reportFailure(ctx context.Context, db *reelmind.Database, videoID core.ID, cause error) error {
	video, err := db.VideoRepository().GetVideo(ctx, videoID)
	if err == nil && video.Status == core.StatusFailed && video.Metadata.LastError != nil {
		le := video.Metadata.LastError
		fmt.Fprintf(os.Stderr, "Failed at %s (%s): %s\n", le.Stage, le.Type, le.Message)
		fmt.Fprintf(os.Stderr, "Retry with: reelmind retry --db %s --video %d\n", db.Path(), videoID)
	}
	return cause
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := search.DefaultOptions()
	opts.MatchCount = c.Int("match-count")
	opts.SimilarityThreshold = float32(c.Float64("threshold"))
	for _, id := range c.Uint64Slice("video") {
		opts.FilterVideoIDs = append(opts.FilterVideoIDs, core.ID(id))
	}

	results, err := db.NewSearcher().SearchChunks(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No matches")
		return nil
	}

	if maxChars := c.Int("context-chars"); maxChars > 0 {
		fmt.Println(search.BuildContext(results, maxChars))
		return nil
	}
	for _, r := range results {
		fmt.Printf("%.3f %s\n", r.Similarity, search.FormatCitation(r))
	}
	return nil
}

func relatedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := search.DefaultOptions()
	opts.MatchCount = c.Int("match-count")

	results, err := db.NewSearcher().FindRelatedChunks(ctx, core.ID(c.Uint64("video")), c.Int("chunk"), opts)
	if err != nil {
		return fmt.Errorf("related lookup failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%.3f %s\n", r.Similarity, search.FormatCitation(r))
	}
	return nil
}

func monitorCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	monitor := db.NewMonitor()

	if interval := c.Duration("interval"); interval > 0 {
		fmt.Fprintf(os.Stderr, "Checking every %s\n", interval)
		return monitor.Run(ctx, interval)
	}

	diagnoses, err := monitor.CheckOnce(ctx)
	if err != nil {
		return fmt.Errorf("monitor pass failed: %w", err)
	}
	if len(diagnoses) == 0 {
		fmt.Fprintln(os.Stderr, "No stuck videos")
		return nil
	}
	for _, d := range diagnoses {
		fmt.Printf("%d\t%s\tstuck %s\tchunks %d/%d\t%s\n",
			d.Video.Id, d.Video.Status, d.StuckFor.Round(time.Second),
			d.EmbeddedChunks, d.TotalChunks, d.Recommendation)
	}
	return nil
}

func retryCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	machine := pipeline.NewStateMachine(db.VideoRepository())
	video, err := machine.RetryFailedVideo(ctx, core.ID(c.Uint64("video")))
	if err != nil {
		return fmt.Errorf("retry failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Video %d reset to %s (attempt %d)\n",
		video.Id, video.Status, video.Metadata.RetryCount+1)
	fmt.Fprintf(os.Stderr, "Re-run: reelmind ingest --db %s --creator %s %s\n",
		db.Path(), video.CreatorID, video.Identifier)
	return nil
}

func usageCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	date := c.String("date")
	if date == "" {
		date = core.UsageDate(time.Now())
	}

	metric, err := db.UsageRepository().GetUsage(ctx, c.String("creator"), date)
	if err != nil {
		return fmt.Errorf("usage lookup failed: %w", err)
	}

	fmt.Printf("Creator: %s\n", metric.CreatorID)
	fmt.Printf("Date: %s\n", metric.Date)
	fmt.Printf("Transcription minutes: %.2f\n", metric.TranscriptionMinutes)
	fmt.Printf("Embedding tokens: %d\n", metric.EmbeddingTokens)
	var total float64
	for category, cost := range metric.CostUSD {
		fmt.Printf("Cost (%s): $%.4f\n", category, cost)
		total += cost
	}
	fmt.Printf("Cost (total): $%.4f\n", total)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
