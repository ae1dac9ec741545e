package services

import (
	"context"
	"playtrack/internal/models"
	"playtrack/internal/repositories"
	"sort"
	"time"

	"github.com/uptrace/bun"
)

type DeltaStatus int

const (
	StatusNoData DeltaStatus = iota
	StatusNoActivity
	StatusActive
)

func (s DeltaStatus) String() string {
	switch s {
	case StatusNoData:
		return "no_data"
	case StatusNoActivity:
		return "no_activity"
	case StatusActive:
		return "active"
	default:
		return "unknown"
	}
}

// ItemDelta is one item's positive playtime increase over a day.
type ItemDelta struct {
	ItemID   int64
	Value    int64
	Baseline int64
	Delta    int64
}

type DayDeltas struct {
	Date    time.Time
	Status  DeltaStatus
	Tracked int
	Deltas  []ItemDelta
}

// Total sums the positive deltas.
func (d *DayDeltas) Total() int64 {
	var total int64
	for _, delta := range d.Deltas {
		total += delta.Delta
	}
	return total
}

type DeltaEngineInterface interface {
	Compute(ctx context.Context, db bun.IDB, date time.Time) (*DayDeltas, error)
}

type DeltaEngine struct {
	snapshots repositories.SnapshotRepositoryInterface
}

func NewDeltaEngine(snapshots repositories.SnapshotRepositoryInterface) DeltaEngineInterface {
	return &DeltaEngine{snapshots: snapshots}
}

// Compute diffs each item's last reading of the day against its most recent reading
// strictly before the day. Missing baselines count as zero; non-positive deltas are dropped.
func (e *DeltaEngine) Compute(ctx context.Context, db bun.IDB, date time.Time) (*DayDeltas, error) {
	start, end := models.DayRange(date)
	result := &DayDeltas{Date: start, Status: StatusNoData, Deltas: make([]ItemDelta, 0)}

	snaps, err := e.snapshots.FindInRange(ctx, db, start, end)
	if err != nil {
		return nil, err
	}
	latest := LatestPerItem(snaps)
	if len(latest) == 0 {
		return result, nil
	}
	result.Tracked = len(latest)

	for _, snap := range latest {
		var baseline int64
		prev, err := e.snapshots.FindLatestBefore(ctx, db, snap.ItemID, start)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			baseline = prev.PlaytimeForever
		}
		if delta := snap.PlaytimeForever - baseline; delta > 0 {
			result.Deltas = append(result.Deltas, ItemDelta{
				ItemID:   snap.ItemID,
				Value:    snap.PlaytimeForever,
				Baseline: baseline,
				Delta:    delta,
			})
		}
	}

	if len(result.Deltas) == 0 {
		result.Status = StatusNoActivity
	} else {
		result.Status = StatusActive
	}
	return result, nil
}

// LatestPerItem keeps the newest snapshot of every item, ordered by item id.
func LatestPerItem(snaps []models.Snapshot) []models.Snapshot {
	byItem := make(map[int64]models.Snapshot, len(snaps))
	for _, snap := range snaps {
		cur, ok := byItem[snap.ItemID]
		if !ok || snap.Newer(&cur) {
			byItem[snap.ItemID] = snap
		}
	}

	out := make([]models.Snapshot, 0, len(byItem))
	for _, snap := range byItem {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// dailyValues reduces one item's ascending snapshots to the last value of each UTC day.
func dailyValues(snaps []models.Snapshot) map[string]int64 {
	out := make(map[string]int64)
	latest := make(map[string]models.Snapshot)
	for _, snap := range snaps {
		day := models.FormatDate(snap.TakenAt)
		if cur, ok := latest[day]; !ok || snap.Newer(&cur) {
			latest[day] = snap
			out[day] = snap.PlaytimeForever
		}
	}
	return out
}

// itemDailyDeltas returns the item's positive per-day increase for every day it has a reading.
func itemDailyDeltas(snaps []models.Snapshot) map[string]int64 {
	values := dailyValues(snaps)
	days := make([]string, 0, len(values))
	for day := range values {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make(map[string]int64, len(days))
	var prev int64
	for _, day := range days {
		if delta := values[day] - prev; delta > 0 {
			out[day] = delta
		}
		prev = values[day]
	}
	return out
}
