package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical inputs
// (e.g. the same source video ingested twice) resolve to the same entity.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SourceType identifies where a video's media and captions come from.
type SourceType string

const (
	// SourceYouTube resolves captions through the public caption endpoints.
	SourceYouTube SourceType = "youtube"
	// SourceVimeo resolves captions through the Vimeo text tracks API.
	SourceVimeo SourceType = "vimeo"
	// SourceMux resolves captions from Mux asset text tracks, which may be absent.
	SourceMux SourceType = "mux"
	// SourceUpload is a direct media upload with no caption source; it is
	// always transcribed through the paid speech-to-text fallback.
	SourceUpload SourceType = "upload"
)

// VideoStatus is the pipeline lifecycle status of a video.
type VideoStatus string

const (
	StatusPending      VideoStatus = "pending"
	StatusUploading    VideoStatus = "uploading"
	StatusTranscribing VideoStatus = "transcribing"
	StatusProcessing   VideoStatus = "processing"
	StatusEmbedding    VideoStatus = "embedding"
	StatusCompleted    VideoStatus = "completed"
	StatusFailed       VideoStatus = "failed"
)

// MetadataVersion is the current schema version of ProcessingMetadata.
// Bump when fields are added so stage handlers can detect drift.
const MetadataVersion = 1

// LastError records the most recent failure that reached the state machine.
type LastError struct {
	Stage     VideoStatus
	Message   string
	Timestamp time.Time
	Type      string // error taxonomy name, e.g. "rate_limited", "not_found"
}

// ProcessingMetadata is the structured per-video processing record.
// It replaces an untyped metadata blob with an explicit, versioned shape.
type ProcessingMetadata struct {
	Version        int
	RetryCount     int
	LastError      *LastError
	StageDurations map[string]float64 // seconds spent in each completed stage
}

// VideoID returns the content-based identity for a video given its source.
func VideoID(sourceType SourceType, identifier string) ID {
	return IDFromContent(string(sourceType) + ":" + identifier)
}

// Video is the unit of work owned by the pipeline. While the video is in a
// non-terminal status, only the pipeline writes to it.
type Video struct {
	Id              ID
	CreatorID       string
	SourceType      SourceType
	Identifier      string // source-specific: video id, asset id, or storage path
	URL             string
	Title           string
	ThumbnailURL    string
	DurationSeconds float64

	Status           VideoStatus
	Transcript       string
	TranscriptMethod string              // how the transcript was obtained
	Segments         []TranscriptSegment // timestamped transcript, when the source provides one
	ErrorMessage     string
	Metadata         ProcessingMetadata

	ProcessingStartedAt   time.Time // first entry to uploading
	ProcessingCompletedAt time.Time // entry to completed
	InsertedAt            time.Time
	UpdatedAt             time.Time
}

// TranscriptSegment is a timestamped span of spoken text as delivered by a
// caption source or the speech-to-text fallback.
type TranscriptSegment struct {
	Text         string
	StartSeconds float64
	EndSeconds   float64
}

// TranscriptChunk is a contiguous, sentence-aligned slice of a transcript
// sized for embedding. Index is unique per video. The Vector is attached
// after creation by the embedding stage, never before.
type TranscriptChunk struct {
	VideoId      ID
	Index        int
	Text         string
	StartSeconds float64
	EndSeconds   float64
	WordCount    int

	HasOverlap       bool
	OverlapWordCount int // leading words injected from the previous chunk
	SegmentCount     int // source segments that contributed text

	Vector     []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// OwnWordCount returns the number of words the chunk contributed itself,
// excluding the injected overlap prefix.
func (c *TranscriptChunk) OwnWordCount() int {
	return c.WordCount - c.OverlapWordCount
}

// UsageMetric accumulates per-creator, per-day cost and usage figures.
// Records are append/merge-only; the pipeline never deletes them.
type UsageMetric struct {
	CreatorID            string
	Date                 string // YYYY-MM-DD, UTC
	TranscriptionMinutes float64
	EmbeddingTokens      int64
	CostUSD              map[string]float64 // by category, e.g. "transcription", "embedding"
	UpdatedAt            time.Time
}

// UsageDate formats a timestamp as a ledger day key.
func UsageDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ChunkMatch is a chunk returned from vector similarity search.
type ChunkMatch struct {
	Chunk      *TranscriptChunk
	Similarity float32
}
