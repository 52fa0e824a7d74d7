package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored domain types. Field order is the wire
// format; append new fields at the end and bump MetadataVersion when the
// metadata shape changes.

var (
	// IDMUS serializes entity IDs.
	IDMUS = idMUS{}
	// TranscriptSegmentMUS serializes a single timestamped segment.
	TranscriptSegmentMUS = transcriptSegmentMUS{}
	// VideoMUS serializes Video records.
	VideoMUS = videoMUS{}
	// TranscriptChunkMUS serializes TranscriptChunk records.
	TranscriptChunkMUS = transcriptChunkMUS{}
	// UsageMetricMUS serializes UsageMetric records.
	UsageMetricMUS = usageMetricMUS{}

	segmentsMUS  = ord.NewSliceSer[TranscriptSegment](TranscriptSegmentMUS)
	vectorMUS    = ord.NewSliceSer[float32](raw.Float32)
	durationsMUS = ord.NewMapSer[string, float64](ord.String, raw.Float64)
	lastErrMUS   = ord.NewPtrSer[LastError](lastErrorMUS{})
)

// timeMUS encodes time.Time as Unix microseconds, with 0 meaning the zero
// time so unset timestamps round-trip.
type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) (n int) {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	return varint.Int64.Marshal(micros, bs)
}

func (timeMUS) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil || micros == 0 {
		return
	}
	t = time.UnixMicro(micros).UTC()
	return
}

func (timeMUS) Size(t time.Time) (size int) {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	return varint.Int64.Size(micros)
}

func (timeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

var timeSer = timeMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type transcriptSegmentMUS struct{}

func (transcriptSegmentMUS) Marshal(s TranscriptSegment, bs []byte) (n int) {
	n = ord.String.Marshal(s.Text, bs)
	n += raw.Float64.Marshal(s.StartSeconds, bs[n:])
	n += raw.Float64.Marshal(s.EndSeconds, bs[n:])
	return
}

func (transcriptSegmentMUS) Unmarshal(bs []byte) (s TranscriptSegment, n int, err error) {
	var n1 int
	s.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	s.StartSeconds, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.EndSeconds, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (transcriptSegmentMUS) Size(s TranscriptSegment) (size int) {
	size = ord.String.Size(s.Text)
	size += raw.Float64.Size(s.StartSeconds)
	size += raw.Float64.Size(s.EndSeconds)
	return
}

func (transcriptSegmentMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = raw.Float64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.Float64.Skip(bs[n:])
	n += n1
	return
}

type lastErrorMUS struct{}

func (lastErrorMUS) Marshal(e LastError, bs []byte) (n int) {
	n = ord.String.Marshal(string(e.Stage), bs)
	n += ord.String.Marshal(e.Message, bs[n:])
	n += timeSer.Marshal(e.Timestamp, bs[n:])
	n += ord.String.Marshal(e.Type, bs[n:])
	return
}

func (lastErrorMUS) Unmarshal(bs []byte) (e LastError, n int, err error) {
	var (
		n1    int
		stage string
	)
	stage, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	e.Stage = VideoStatus(stage)
	e.Message, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Timestamp, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Type, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (lastErrorMUS) Size(e LastError) (size int) {
	size = ord.String.Size(string(e.Stage))
	size += ord.String.Size(e.Message)
	size += timeSer.Size(e.Timestamp)
	size += ord.String.Size(e.Type)
	return
}

func (lastErrorMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = timeSer.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

type processingMetadataMUS struct{}

func (processingMetadataMUS) Marshal(m ProcessingMetadata, bs []byte) (n int) {
	n = varint.Int.Marshal(m.Version, bs)
	n += varint.Int.Marshal(m.RetryCount, bs[n:])
	n += lastErrMUS.Marshal(m.LastError, bs[n:])
	n += durationsMUS.Marshal(m.StageDurations, bs[n:])
	return
}

func (processingMetadataMUS) Unmarshal(bs []byte) (m ProcessingMetadata, n int, err error) {
	var n1 int
	m.Version, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	m.RetryCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.LastError, n1, err = lastErrMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.StageDurations, n1, err = durationsMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (processingMetadataMUS) Size(m ProcessingMetadata) (size int) {
	size = varint.Int.Size(m.Version)
	size += varint.Int.Size(m.RetryCount)
	size += lastErrMUS.Size(m.LastError)
	size += durationsMUS.Size(m.StageDurations)
	return
}

func (processingMetadataMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = varint.Int.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = lastErrMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = durationsMUS.Skip(bs[n:])
	n += n1
	return
}

var metadataSer = processingMetadataMUS{}

type videoMUS struct{}

func (videoMUS) Marshal(v Video, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.CreatorID, bs[n:])
	n += ord.String.Marshal(string(v.SourceType), bs[n:])
	n += ord.String.Marshal(v.Identifier, bs[n:])
	n += ord.String.Marshal(v.URL, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.ThumbnailURL, bs[n:])
	n += raw.Float64.Marshal(v.DurationSeconds, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += ord.String.Marshal(v.Transcript, bs[n:])
	n += ord.String.Marshal(v.TranscriptMethod, bs[n:])
	n += segmentsMUS.Marshal(v.Segments, bs[n:])
	n += ord.String.Marshal(v.ErrorMessage, bs[n:])
	n += metadataSer.Marshal(v.Metadata, bs[n:])
	n += timeSer.Marshal(v.ProcessingStartedAt, bs[n:])
	n += timeSer.Marshal(v.ProcessingCompletedAt, bs[n:])
	n += timeSer.Marshal(v.InsertedAt, bs[n:])
	n += timeSer.Marshal(v.UpdatedAt, bs[n:])
	return
}

func (videoMUS) Unmarshal(bs []byte) (v Video, n int, err error) {
	var (
		n1 int
		s  string
	)
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	if v.CreatorID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	} else {
		n += n1
	}
	if s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.SourceType = SourceType(s)
	if v.Identifier, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.URL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ThumbnailURL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.DurationSeconds, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.Status = VideoStatus(s)
	if v.Transcript, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TranscriptMethod, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Segments, n1, err = segmentsMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ErrorMessage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Metadata, n1, err = metadataSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ProcessingStartedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ProcessingCompletedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (videoMUS) Size(v Video) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.CreatorID)
	size += ord.String.Size(string(v.SourceType))
	size += ord.String.Size(v.Identifier)
	size += ord.String.Size(v.URL)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.ThumbnailURL)
	size += raw.Float64.Size(v.DurationSeconds)
	size += ord.String.Size(string(v.Status))
	size += ord.String.Size(v.Transcript)
	size += ord.String.Size(v.TranscriptMethod)
	size += segmentsMUS.Size(v.Segments)
	size += ord.String.Size(v.ErrorMessage)
	size += metadataSer.Size(v.Metadata)
	size += timeSer.Size(v.ProcessingStartedAt)
	size += timeSer.Size(v.ProcessingCompletedAt)
	size += timeSer.Size(v.InsertedAt)
	size += timeSer.Size(v.UpdatedAt)
	return
}

func (videoMUS) Skip(bs []byte) (n int, err error) {
	v, n, err := VideoMUS.Unmarshal(bs)
	_ = v
	return
}

type transcriptChunkMUS struct{}

func (transcriptChunkMUS) Marshal(c TranscriptChunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.VideoId, bs)
	n += varint.Int.Marshal(c.Index, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += raw.Float64.Marshal(c.StartSeconds, bs[n:])
	n += raw.Float64.Marshal(c.EndSeconds, bs[n:])
	n += varint.Int.Marshal(c.WordCount, bs[n:])
	n += ord.Bool.Marshal(c.HasOverlap, bs[n:])
	n += varint.Int.Marshal(c.OverlapWordCount, bs[n:])
	n += varint.Int.Marshal(c.SegmentCount, bs[n:])
	n += vectorMUS.Marshal(c.Vector, bs[n:])
	n += timeSer.Marshal(c.InsertedAt, bs[n:])
	n += timeSer.Marshal(c.UpdatedAt, bs[n:])
	return
}

func (transcriptChunkMUS) Unmarshal(bs []byte) (c TranscriptChunk, n int, err error) {
	var n1 int
	c.VideoId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	if c.Index, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.StartSeconds, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.EndSeconds, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.WordCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.HasOverlap, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.OverlapWordCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.SegmentCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	c.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (transcriptChunkMUS) Size(c TranscriptChunk) (size int) {
	size = IDMUS.Size(c.VideoId)
	size += varint.Int.Size(c.Index)
	size += ord.String.Size(c.Text)
	size += raw.Float64.Size(c.StartSeconds)
	size += raw.Float64.Size(c.EndSeconds)
	size += varint.Int.Size(c.WordCount)
	size += ord.Bool.Size(c.HasOverlap)
	size += varint.Int.Size(c.OverlapWordCount)
	size += varint.Int.Size(c.SegmentCount)
	size += vectorMUS.Size(c.Vector)
	size += timeSer.Size(c.InsertedAt)
	size += timeSer.Size(c.UpdatedAt)
	return
}

func (transcriptChunkMUS) Skip(bs []byte) (n int, err error) {
	c, n, err := TranscriptChunkMUS.Unmarshal(bs)
	_ = c
	return
}

type usageMetricMUS struct{}

func (usageMetricMUS) Marshal(m UsageMetric, bs []byte) (n int) {
	n = ord.String.Marshal(m.CreatorID, bs)
	n += ord.String.Marshal(m.Date, bs[n:])
	n += raw.Float64.Marshal(m.TranscriptionMinutes, bs[n:])
	n += varint.Int64.Marshal(m.EmbeddingTokens, bs[n:])
	n += durationsMUS.Marshal(m.CostUSD, bs[n:])
	n += timeSer.Marshal(m.UpdatedAt, bs[n:])
	return
}

func (usageMetricMUS) Unmarshal(bs []byte) (m UsageMetric, n int, err error) {
	var n1 int
	m.CreatorID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	if m.Date, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.TranscriptionMinutes, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.EmbeddingTokens, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.CostUSD, n1, err = durationsMUS.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	m.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (usageMetricMUS) Size(m UsageMetric) (size int) {
	size = ord.String.Size(m.CreatorID)
	size += ord.String.Size(m.Date)
	size += raw.Float64.Size(m.TranscriptionMinutes)
	size += varint.Int64.Size(m.EmbeddingTokens)
	size += durationsMUS.Size(m.CostUSD)
	size += timeSer.Size(m.UpdatedAt)
	return
}

func (usageMetricMUS) Skip(bs []byte) (n int, err error) {
	m, n, err := UsageMetricMUS.Unmarshal(bs)
	_ = m
	return
}
