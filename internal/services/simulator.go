package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/repositories"
	"time"

	"github.com/uptrace/bun"
)

const (
	MaxSimulationDays = 366
	simulatedPlayRate = 0.4
	simulatedMaxDaily = 240
)

type SimulatorInterface interface {
	Simulate(ctx context.Context, days int) (*models.SimulationReport, error)
}

// Simulator backfills plausible earlier snapshots for items read on the anchor day, then
// builds summaries for every day of the range. Results are best-effort demo data.
type Simulator struct {
	db        *bun.DB
	snapshots repositories.SnapshotRepositoryInterface
	summaries SummaryServiceInterface
	clock     Clock
	logger    providers.Logger
	rng       *rand.Rand
}

func NewSimulator(
	db *bun.DB,
	snapshots repositories.SnapshotRepositoryInterface,
	summaries SummaryServiceInterface,
	clock Clock,
	logger providers.Logger,
) SimulatorInterface {
	now := uint64(time.Now().UnixNano())
	return newSeededSimulator(db, snapshots, summaries, clock, logger, now, now>>1)
}

func newSeededSimulator(
	db *bun.DB,
	snapshots repositories.SnapshotRepositoryInterface,
	summaries SummaryServiceInterface,
	clock Clock,
	logger providers.Logger,
	seed1, seed2 uint64,
) *Simulator {
	return &Simulator{
		db:        db,
		snapshots: snapshots,
		summaries: summaries,
		clock:     clock,
		logger:    logger,
		rng:       rand.New(rand.NewPCG(seed1, seed2)),
	}
}

func (s *Simulator) Simulate(ctx context.Context, days int) (*models.SimulationReport, error) {
	if days < 1 || days > MaxSimulationDays {
		return nil, invalidf("days must be between 1 and %d", MaxSimulationDays)
	}

	anchor := today(s.clock)
	from := anchor.Add(-time.Duration(days) * models.Day)
	report := &models.SimulationReport{Start: models.FormatDate(from), End: models.FormatDate(anchor)}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := s.snapshots.FindInRange(ctx, tx, anchor, anchor.Add(models.Day))
		if err != nil {
			return err
		}
		earlier, err := s.snapshots.FindInRange(ctx, tx, from, anchor)
		if err != nil {
			return err
		}
		hasHistory := make(map[int64]bool, len(earlier))
		for _, snap := range earlier {
			hasHistory[snap.ItemID] = true
		}

		for _, snap := range LatestPerItem(current) {
			if hasHistory[snap.ItemID] {
				continue
			}
			report.Items++
			value := snap.PlaytimeForever
			for day := anchor.Add(-models.Day); !day.Before(from); day = day.Add(-models.Day) {
				if s.rng.Float64() < simulatedPlayRate {
					value -= min(value, int64(s.rng.IntN(simulatedMaxDaily)+1))
				}
				err := s.snapshots.Create(ctx, tx, &models.Snapshot{
					ItemID:          snap.ItemID,
					TakenAt:         day.Add(12 * time.Hour),
					PlaytimeForever: value,
				})
				if err != nil {
					return err
				}
				report.SnapshotsCreated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("simulate history: %w", err)
	}

	for day := from; !day.After(anchor); day = day.Add(models.Day) {
		_, created, err := s.summaries.Generate(ctx, day)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if created {
			report.SummariesCreated++
		}
	}

	s.logger.Infof(providers.TypeApp, "Simulated %d days for %d items: %d snapshots, %d summaries",
		days, report.Items, report.SnapshotsCreated, report.SummariesCreated)
	return report, nil
}
