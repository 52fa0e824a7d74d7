package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ChunkRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns all resources.
func (r *ChunkRepository) Close() error {
	return nil
}

// ReplaceChunks atomically deletes all existing chunks for the video and
// writes the given set.
func (r *ChunkRepository) ReplaceChunks(ctx context.Context, videoID core.ID, chunks []*core.TranscriptChunk) error {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteByPrefix(tx, makePartialChunkKey(videoID)); err != nil {
			return err
		}

		now := storageNow()
		for _, chunk := range chunks {
			chunk.VideoId = videoID
			chunk.InsertedAt = now
			chunk.UpdatedAt = now
			key := makeChunkKey(videoID, chunk.Index)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// UpdateChunks updates existing chunks.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks ...*core.TranscriptChunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(chunk.VideoId, chunk.Index)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}

			chunk.UpdatedAt = storageNow()
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk.
func (r *ChunkRepository) GetChunk(ctx context.Context, videoID core.ID, index int) (*core.TranscriptChunk, error) {
	var chunk *core.TranscriptChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeChunkKey(videoID, index))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			chunk, err = storage.UnmarshalChunk(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// GetChunks retrieves all chunks for a video ordered by index.
// Key layout (BigEndian index) makes iteration order the chunk order.
func (r *ChunkRepository) GetChunks(ctx context.Context, videoID core.ID) ([]*core.TranscriptChunk, error) {
	var chunks []*core.TranscriptChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkKey(videoID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				chunk, err := storage.UnmarshalChunk(val)
				if err != nil {
					return err
				}
				chunks = append(chunks, chunk)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// CountChunks returns chunk totals for a video.
func (r *ChunkRepository) CountChunks(ctx context.Context, videoID core.ID) (total, embedded int, err error) {
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkKey(videoID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			total++
			err := iter.Item().Value(func(val []byte) error {
				chunk, err := storage.UnmarshalChunk(val)
				if err != nil {
					return err
				}
				if len(chunk.Vector) > 0 {
					embedded++
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return total, embedded, err
}

// DeleteChunks removes all chunks for a video.
func (r *ChunkRepository) DeleteChunks(ctx context.Context, videoID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteByPrefix(tx, makePartialChunkKey(videoID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindSimilarChunks delegates to the backend.
func (r *ChunkRepository) FindSimilarChunks(ctx context.Context, vector []float32, minSimilarity float32, limit int, videoIDs []core.ID) ([]*core.ChunkMatch, error) {
	return r.backend.FindSimilarChunks(ctx, vector, minSimilarity, limit, videoIDs)
}

// deleteByPrefix removes every key under the prefix within the transaction.
func deleteByPrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
