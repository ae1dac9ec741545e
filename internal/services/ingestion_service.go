package services

import (
	"context"
	"errors"
	"fmt"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/repositories"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpstreamClientInterface fetches the current cumulative readings from the library API.
type UpstreamClientInterface interface {
	FetchCurrentReadings(ctx context.Context) ([]models.Reading, error)
}

type IngestionServiceInterface interface {
	Sync(ctx context.Context) (*models.IngestReport, error)
	Reconcile(ctx context.Context, readings []models.Reading) (*models.IngestReport, error)
}

type IngestionService struct {
	db        *bun.DB
	upstream  UpstreamClientInterface
	items     repositories.ItemRepositoryInterface
	snapshots repositories.SnapshotRepositoryInterface
	cache     ResultCacheInterface
	clock     Clock
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewIngestionService(
	db *bun.DB,
	upstream UpstreamClientInterface,
	items repositories.ItemRepositoryInterface,
	snapshots repositories.SnapshotRepositoryInterface,
	cache ResultCacheInterface,
	clock Clock,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) IngestionServiceInterface {
	return &IngestionService{
		db:        db,
		upstream:  upstream,
		items:     items,
		snapshots: snapshots,
		cache:     cache,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Sync fetches the current readings and reconciles them. Upstream failures write nothing.
func (s *IngestionService) Sync(ctx context.Context) (*models.IngestReport, error) {
	readings, err := s.upstream.FetchCurrentReadings(ctx)
	if err != nil {
		s.metrics.IncIngestTotal(providers.OutcomeFailed)
		s.logger.Errorf(providers.TypeSync, "Upstream fetch failed: %s", err)
		if !errors.Is(err, models.ErrUpstream) {
			err = fmt.Errorf("%w: %v", models.ErrUpstream, err)
		}
		return nil, err
	}
	return s.Reconcile(ctx, readings)
}

func validateReadings(readings []models.Reading) error {
	seen := make(map[int64]struct{}, len(readings))
	for i, r := range readings {
		if r.ID <= 0 {
			return fmt.Errorf("%w: reading %d has non-positive id %d", models.ErrInvalidInput, i, r.ID)
		}
		if r.PlaytimeMinutes < 0 {
			return fmt.Errorf("%w: item %d has negative playtime", models.ErrInvalidInput, r.ID)
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: item %d appears twice in the batch", models.ErrInvalidInput, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// Reconcile writes the batch in one transaction: unknown items are created, changed names and
// icons are updated, and each item keeps at most one snapshot per day.
func (s *IngestionService) Reconcile(ctx context.Context, readings []models.Reading) (*models.IngestReport, error) {
	if err := validateReadings(readings); err != nil {
		s.metrics.IncIngestTotal(providers.OutcomeFailed)
		return nil, err
	}

	report := &models.IngestReport{RunID: uuid.NewString(), Items: len(readings)}
	now := s.clock.Now().Truncate(time.Second)
	dayStart, dayEnd := models.DayRange(now)
	started := time.Now()

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		todays, err := s.snapshots.FindInRange(ctx, tx, dayStart, dayEnd)
		if err != nil {
			return err
		}
		existing := make(map[int64]models.Snapshot)
		for _, snap := range LatestPerItem(todays) {
			existing[snap.ItemID] = snap
		}

		for _, r := range readings {
			if err := s.reconcileItem(ctx, tx, r, now, report); err != nil {
				return err
			}
			if err := s.reconcileSnapshot(ctx, tx, r, now, existing, report); err != nil {
				return err
			}
		}
		return nil
	})
	s.metrics.ObserveIngestDuration(time.Since(started))
	if err != nil {
		s.metrics.IncIngestTotal(providers.OutcomeFailed)
		s.logger.Errorf(providers.TypeSync, "Ingestion %s rolled back: %s", report.RunID, err)
		return nil, fmt.Errorf("ingestion %s: %w", report.RunID, err)
	}

	s.cache.InvalidateAll()
	s.metrics.IncIngestTotal(providers.OutcomeOK)
	s.logger.Infof(providers.TypeSync, "Ingestion %s: %d items (%d new), snapshots %d created %d updated %d unchanged",
		report.RunID, report.Items, report.ItemsCreated, report.SnapshotsCreated, report.SnapshotsUpdated, report.SnapshotsUnchanged)
	return report, nil
}

func (s *IngestionService) reconcileItem(ctx context.Context, tx bun.IDB, r models.Reading, now time.Time, report *models.IngestReport) error {
	item, err := s.items.Find(ctx, tx, r.ID)
	if err != nil {
		return err
	}

	if item == nil {
		item = &models.Item{ID: r.ID, Name: r.Name, CreatedAt: now, UpdatedAt: now}
		if item.Name == "" {
			item.Name = models.UnknownItemName
		}
		if r.IconURL != "" {
			icon := r.IconURL
			item.IconURL = &icon
		}
		report.ItemsCreated++
		return s.items.Create(ctx, tx, item)
	}

	changed := false
	if r.Name != "" && r.Name != item.Name {
		item.Name = r.Name
		changed = true
	}
	if r.IconURL != "" && (item.IconURL == nil || *item.IconURL != r.IconURL) {
		icon := r.IconURL
		item.IconURL = &icon
		changed = true
	}
	if !changed {
		return nil
	}
	item.UpdatedAt = now
	report.ItemsUpdated++
	return s.items.Update(ctx, tx, item)
}

func (s *IngestionService) reconcileSnapshot(
	ctx context.Context,
	tx bun.IDB,
	r models.Reading,
	now time.Time,
	existing map[int64]models.Snapshot,
	report *models.IngestReport,
) error {
	if snap, ok := existing[r.ID]; ok {
		if snap.PlaytimeForever == r.PlaytimeMinutes {
			report.SnapshotsUnchanged++
			return nil
		}
		if r.PlaytimeMinutes < snap.PlaytimeForever {
			s.warnDecrease(r, snap.PlaytimeForever)
		}
		snap.PlaytimeForever = r.PlaytimeMinutes
		snap.TakenAt = now
		snap.LastPlayedAt = r.LastPlayedAt
		report.SnapshotsUpdated++
		return s.snapshots.Update(ctx, tx, &snap)
	}

	prev, err := s.snapshots.FindLatestBefore(ctx, tx, r.ID, now)
	if err != nil {
		return err
	}
	if prev != nil && r.PlaytimeMinutes < prev.PlaytimeForever {
		s.warnDecrease(r, prev.PlaytimeForever)
	}

	report.SnapshotsCreated++
	return s.snapshots.Create(ctx, tx, &models.Snapshot{
		ItemID:          r.ID,
		TakenAt:         now,
		PlaytimeForever: r.PlaytimeMinutes,
		LastPlayedAt:    r.LastPlayedAt,
	})
}

// warnDecrease records an upstream anomaly; the reading is stored as reported.
func (s *IngestionService) warnDecrease(r models.Reading, previous int64) {
	s.logger.Warnf(providers.TypeSync, "Playtime for item %d decreased from %d to %d", r.ID, previous, r.PlaytimeMinutes)
}
