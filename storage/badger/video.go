package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/storage"
)

// VideoRepository implements storage.VideoRepository for BadgerDB.
type VideoRepository struct {
	backend *Backend
}

var _ storage.VideoRepository = (*VideoRepository)(nil)

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(backend *Backend) (*VideoRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &VideoRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns all resources.
func (r *VideoRepository) Close() error {
	return nil
}

// GetOrCreateVideo finds or creates a video by its content-based ID.
func (r *VideoRepository) GetOrCreateVideo(ctx context.Context, video *core.Video) (*core.Video, error) {
	if err := core.ValidateVideo(video); err != nil {
		return nil, err
	}

	if video.Id == 0 {
		video.Id = core.VideoID(video.SourceType, video.Identifier)
	}

	var result *core.Video
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := r.readVideo(tx, makeVideoKey(video.Id))
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		if video.Status == "" {
			video.Status = core.StatusPending
		}
		if video.Metadata.Version == 0 {
			video.Metadata.Version = core.MetadataVersion
		}
		video.InsertedAt = storageNow()
		video.UpdatedAt = video.InsertedAt

		if err := r.writeVideo(tx, video, ""); err != nil {
			return err
		}
		result = video
		return tx.Commit()
	}, true)

	return result, err
}

// GetVideo retrieves a single video by ID.
func (r *VideoRepository) GetVideo(ctx context.Context, id core.ID) (*core.Video, error) {
	var video *core.Video
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		video, err = r.readVideo(tx, makeVideoKey(id))
		if err != nil {
			return err
		}
		if video == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return video, nil
}

// UpdateVideo updates an existing video.
func (r *VideoRepository) UpdateVideo(ctx context.Context, video *core.Video) (*core.Video, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := r.readVideo(tx, makeVideoKey(video.Id))
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		video.UpdatedAt = storageNow()
		if err := r.writeVideo(tx, video, old.Status); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return video, err
}

// MutateVideo applies fn to the stored video inside one write transaction.
func (r *VideoRepository) MutateVideo(ctx context.Context, id core.ID, fn func(*core.Video) error) (*core.Video, error) {
	var result *core.Video
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		video, err := r.readVideo(tx, makeVideoKey(id))
		if err != nil {
			return err
		}
		if video == nil {
			return storage.ErrNotFound
		}

		oldStatus := video.Status
		if err := fn(video); err != nil {
			return err
		}

		video.UpdatedAt = storageNow()
		if err := r.writeVideo(tx, video, oldStatus); err != nil {
			return err
		}
		result = video
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetVideosByStatus retrieves all videos in the given status via the index.
func (r *VideoRepository) GetVideosByStatus(ctx context.Context, status core.VideoStatus) ([]*core.Video, error) {
	if err := core.ValidateStatus(status); err != nil {
		return nil, err
	}

	var videos []*core.Video
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialVideoStatusKey(status)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var ids []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, id := range ids {
			video, err := r.readVideo(tx, makeVideoKey(id))
			if err != nil {
				return err
			}
			// Index entries may be briefly stale; skip rather than fail.
			if video == nil || video.Status != status {
				continue
			}
			videos = append(videos, video)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return videos, nil
}

// DeleteVideo removes a video and its status index entry.
func (r *VideoRepository) DeleteVideo(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		video, err := r.readVideo(tx, makeVideoKey(id))
		if err != nil {
			return err
		}
		if video == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeVideoStatusKey(video.Status, id)); err != nil {
			return err
		}
		if err := tx.Delete(makeVideoKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readVideo reads a video by key; returns nil if not found.
func (r *VideoRepository) readVideo(tx *badger.Txn, key []byte) (*core.Video, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var video *core.Video
	err = item.Value(func(val []byte) error {
		var err error
		video, err = storage.UnmarshalVideo(val)
		return err
	})
	return video, err
}

// writeVideo stores a video and keeps the status index consistent.
// oldStatus is the previously indexed status; empty means a new record.
func (r *VideoRepository) writeVideo(tx *badger.Txn, video *core.Video, oldStatus core.VideoStatus) error {
	if err := tx.Set(makeVideoKey(video.Id), storage.MarshalVideo(video)); err != nil {
		return err
	}

	if oldStatus != "" && oldStatus != video.Status {
		if err := tx.Delete(makeVideoStatusKey(oldStatus, video.Id)); err != nil {
			return err
		}
	}
	if oldStatus != video.Status {
		return tx.Set(makeVideoStatusKey(video.Status, video.Id), storage.MarshalID(video.Id))
	}
	return nil
}
