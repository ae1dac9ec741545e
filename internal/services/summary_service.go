package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/repositories"
	"time"

	"github.com/uptrace/bun"
)

var (
	ErrNoData     = fmt.Errorf("%w: no snapshots recorded for the day", models.ErrNotFound)
	ErrNoActivity = fmt.Errorf("%w: no playtime increase for the day", models.ErrNotFound)
)

type SummaryServiceInterface interface {
	Generate(ctx context.Context, date time.Time) (*models.DailySummary, bool, error)
	GenerateToday(ctx context.Context) (*models.DailySummary, bool, error)
	Latest(ctx context.Context) (*models.DailySummary, error)
}

type SummaryService struct {
	db        *bun.DB
	deltas    DeltaEngineInterface
	summaries repositories.SummaryRepositoryInterface
	items     repositories.ItemRepositoryInterface
	cache     ResultCacheInterface
	clock     Clock
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewSummaryService(
	db *bun.DB,
	deltas DeltaEngineInterface,
	summaries repositories.SummaryRepositoryInterface,
	items repositories.ItemRepositoryInterface,
	cache ResultCacheInterface,
	clock Clock,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) SummaryServiceInterface {
	return &SummaryService{
		db:        db,
		deltas:    deltas,
		summaries: summaries,
		items:     items,
		cache:     cache,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

func (s *SummaryService) GenerateToday(ctx context.Context) (*models.DailySummary, bool, error) {
	return s.Generate(ctx, s.clock.Now())
}

// Generate returns the date's summary, creating it when absent. The boolean reports creation.
// Existing summaries are never recomputed.
//
// The change field compares against the latest summary dated before date. For today that is the
// most recent summary overall; when backfilling an older day, summaries dated after it are ignored.
func (s *SummaryService) Generate(ctx context.Context, date time.Time) (*models.DailySummary, bool, error) {
	day := models.DayStart(date)
	started := time.Now()

	var result *models.DailySummary
	created := false
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := s.summaries.FindByDate(ctx, tx, day)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		deltas, err := s.deltas.Compute(ctx, tx, day)
		if err != nil {
			return err
		}
		switch deltas.Status {
		case StatusNoData:
			return ErrNoData
		case StatusNoActivity:
			return ErrNoActivity
		}

		summary, err := s.build(ctx, tx, deltas)
		if err != nil {
			return err
		}
		if err := s.summaries.Create(ctx, tx, summary); err != nil {
			return err
		}
		result = summary
		created = true
		return nil
	})
	s.metrics.ObservePersistenceDuration(time.Since(started))

	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.metrics.IncSummariesTotal(providers.OutcomeNoData)
			return nil, false, fmt.Errorf("summary for %s: %w", models.FormatDate(day), err)
		}
		// a concurrent writer may have inserted the same date first
		if winner, findErr := s.summaries.FindByDate(ctx, s.db, day); findErr == nil && winner != nil {
			s.metrics.IncSummariesTotal(providers.OutcomeExists)
			return winner, false, nil
		}
		s.metrics.IncSummariesTotal(providers.OutcomeFailed)
		s.logger.Errorf(providers.TypeApp, "Summary generation for %s failed: %s", models.FormatDate(day), err)
		return nil, false, fmt.Errorf("generate summary for %s: %w", models.FormatDate(day), err)
	}

	if !created {
		s.metrics.IncSummariesTotal(providers.OutcomeExists)
		return result, false, nil
	}

	s.cache.Invalidate(SummaryOperations...)
	s.metrics.IncSummariesTotal(providers.OutcomeOK)
	s.logger.Infof(providers.TypeApp, "Summary for %s created: %d minutes across %d items",
		models.FormatDate(day), result.TotalPlaytimeMinutes, result.ActiveItems)
	return result, true, nil
}

func (s *SummaryService) build(ctx context.Context, db bun.IDB, deltas *DayDeltas) (*models.DailySummary, error) {
	total := deltas.Total()
	active := len(deltas.Deltas)

	// deltas are ordered by item id, so strict > keeps the lowest id on ties
	top := deltas.Deltas[0]
	for _, d := range deltas.Deltas[1:] {
		if d.Delta > top.Delta {
			top = d
		}
	}

	topName := models.UnknownItemName
	item, err := s.items.Find(ctx, db, top.ItemID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		topName = item.Name
	}

	var change int64
	prev, err := s.summaries.FindLatestBefore(ctx, db, deltas.Date)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		change = total - prev.TotalPlaytimeMinutes
	} else {
		change = total
	}

	topID := top.ItemID
	return &models.DailySummary{
		Date:                 deltas.Date,
		TotalPlaytimeMinutes: total,
		ActiveItems:          active,
		TrackedItems:         deltas.Tracked,
		TopItemID:            &topID,
		TopItemName:          &topName,
		TopItemMinutes:       top.Delta,
		AveragePerActiveItem: math.Round(float64(total)/float64(active)*100) / 100,
		TotalPlaytimeChange:  change,
		CreatedAt:            s.clock.Now(),
	}, nil
}

func (s *SummaryService) Latest(ctx context.Context) (*models.DailySummary, error) {
	return cached(s.cache, OpLatestSummary, "", func() (*models.DailySummary, error) {
		summary, err := s.summaries.FindLatest(ctx, s.db)
		if err != nil {
			return nil, err
		}
		if summary == nil {
			return nil, fmt.Errorf("%w: no summaries yet", models.ErrNotFound)
		}
		return summary, nil
	})
}
