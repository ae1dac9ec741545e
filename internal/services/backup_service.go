package services

import (
	"context"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/repositories"

	"github.com/uptrace/bun"
)

type BackupServiceInterface interface {
	Export(ctx context.Context) (*models.Storage, error)
	Import(ctx context.Context, storage *models.Storage) (bool, error)
}

type BackupService struct {
	db        *bun.DB
	items     repositories.ItemRepositoryInterface
	snapshots repositories.SnapshotRepositoryInterface
	summaries repositories.SummaryRepositoryInterface
	cache     ResultCacheInterface
	logger    providers.Logger
}

func NewBackupService(
	db *bun.DB,
	items repositories.ItemRepositoryInterface,
	snapshots repositories.SnapshotRepositoryInterface,
	summaries repositories.SummaryRepositoryInterface,
	cache ResultCacheInterface,
	logger providers.Logger,
) BackupServiceInterface {
	return &BackupService{db: db, items: items, snapshots: snapshots, summaries: summaries, cache: cache, logger: logger}
}

// Export reads the whole store inside one transaction so the dump is consistent.
func (b *BackupService) Export(ctx context.Context) (*models.Storage, error) {
	storage := &models.Storage{Version: models.StorageVersion}
	err := b.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if storage.Items, err = b.items.All(ctx, tx); err != nil {
			return err
		}
		if storage.Snapshots, err = b.snapshots.All(ctx, tx); err != nil {
			return err
		}
		storage.Summaries, err = b.summaries.All(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return storage, nil
}

// Import loads a dump into an empty store and reports whether anything was written.
// Row ids are reassigned by the database.
func (b *BackupService) Import(ctx context.Context, storage *models.Storage) (bool, error) {
	if storage == nil || storage.Empty() {
		return false, nil
	}

	imported := false
	err := b.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		n, err := b.items.Count(ctx, tx)
		if err != nil {
			return err
		}
		if n > 0 {
			b.logger.Infof(providers.TypeApp, "Store already holds %d items, backup not restored", n)
			return nil
		}

		for i := range storage.Items {
			if err := b.items.Create(ctx, tx, &storage.Items[i]); err != nil {
				return err
			}
		}
		for i := range storage.Snapshots {
			storage.Snapshots[i].ID = 0
			if err := b.snapshots.Create(ctx, tx, &storage.Snapshots[i]); err != nil {
				return err
			}
		}
		for i := range storage.Summaries {
			storage.Summaries[i].ID = 0
			if err := b.summaries.Create(ctx, tx, &storage.Summaries[i]); err != nil {
				return err
			}
		}
		imported = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if imported {
		b.cache.InvalidateAll()
	}
	return imported, nil
}
