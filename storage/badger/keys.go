package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/reelmind/reelmind/core"
)

// Key prefixes for different data types
const (
	videoPrefix       = "vidrec"
	videoStatusPrefix = "vidrecs"
	chunkPrefix       = "chkrec"
	usagePrefix       = "usgrec"
)

// makeVideoKey generates a key for a video record by ID.
func makeVideoKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", videoPrefix, id))
}

// makeVideoStatusKey generates a composite key for the status index.
// Format: prefix:status:id
func makeVideoStatusKey(status core.VideoStatus, id core.ID) []byte {
	prefix := videoStatusPrefix + ":" + string(status) + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialVideoStatusKey generates a partial key for status scans.
func makePartialVideoStatusKey(status core.VideoStatus) []byte {
	return []byte(videoStatusPrefix + ":" + string(status) + ":")
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:videoID:index. Chunk index uniqueness per video is a
// property of the key itself.
func makeChunkKey(videoID core.ID, index int) []byte {
	prefix := chunkPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so chunks iterate in index order
	binary.BigEndian.PutUint64(buf[offset:], uint64(videoID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}

// makePartialChunkKey generates a partial key for per-video chunk scans.
func makePartialChunkKey(videoID core.ID) []byte {
	prefix := chunkPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(videoID))
	return buf
}

// makeUsageKey generates a key for a usage ledger row.
// Format: prefix:creatorID:date
func makeUsageKey(creatorID, date string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", usagePrefix, creatorID, date))
}
