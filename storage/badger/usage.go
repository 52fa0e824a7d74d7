package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/reelmind/reelmind/core"
	"github.com/reelmind/reelmind/storage"
)

// UsageRepository implements the merge-only cost ledger on BadgerDB.
type UsageRepository struct {
	backend *Backend
}

var _ storage.UsageRepository = (*UsageRepository)(nil)

// NewUsageRepository creates a new UsageRepository.
func NewUsageRepository(backend *Backend) (*UsageRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &UsageRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns all resources.
func (r *UsageRepository) Close() error {
	return nil
}

// RecordUsage merges the delta into the (CreatorID, Date) row.
// The read-merge-write happens inside one transaction so concurrent
// increments from the router and the embedder don't lose updates.
func (r *UsageRepository) RecordUsage(ctx context.Context, delta *core.UsageMetric) error {
	if delta == nil || delta.CreatorID == "" || delta.Date == "" {
		return storage.ErrInvalidQuery
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUsageKey(delta.CreatorID, delta.Date)

		current := &core.UsageMetric{
			CreatorID: delta.CreatorID,
			Date:      delta.Date,
			CostUSD:   map[string]float64{},
		}

		item, err := tx.Get(key)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			err = item.Value(func(val []byte) error {
				var err error
				current, err = storage.UnmarshalUsage(val)
				return err
			})
			if err != nil {
				return err
			}
			if current.CostUSD == nil {
				current.CostUSD = map[string]float64{}
			}
		}

		current.TranscriptionMinutes += delta.TranscriptionMinutes
		current.EmbeddingTokens += delta.EmbeddingTokens
		for category, cost := range delta.CostUSD {
			current.CostUSD[category] += cost
		}
		current.UpdatedAt = storageNow()

		if err := tx.Set(key, storage.MarshalUsage(current)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetUsage retrieves the accumulated metric for a creator and day.
func (r *UsageRepository) GetUsage(ctx context.Context, creatorID, date string) (*core.UsageMetric, error) {
	var metric *core.UsageMetric
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeUsageKey(creatorID, date))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			metric, err = storage.UnmarshalUsage(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return metric, nil
}
