package services

import (
	"context"
	"playtrack/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestPerItem_TieBreaksOnHigherID(t *testing.T) {
	at := testNow
	snaps := []models.Snapshot{
		{ID: 3, ItemID: 2, TakenAt: at, PlaytimeForever: 10},
		{ID: 7, ItemID: 1, TakenAt: at, PlaytimeForever: 50},
		{ID: 5, ItemID: 1, TakenAt: at, PlaytimeForever: 40},
		{ID: 9, ItemID: 1, TakenAt: at.Add(-time.Hour), PlaytimeForever: 99},
	}

	latest := LatestPerItem(snaps)
	require.Len(t, latest, 2)
	assert.Equal(t, int64(1), latest[0].ItemID)
	assert.Equal(t, int64(7), latest[0].ID)
	assert.Equal(t, int64(2), latest[1].ItemID)
}

func TestDeltaEngine_Statuses(t *testing.T) {
	h := newHarness(t)
	h.item(1, "A")
	ctx := context.Background()

	res, err := h.deltas.Compute(ctx, h.db, testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, res.Status)

	h.reading(1, 1, 12, 100)
	h.reading(1, 0, 12, 100)
	res, err = h.deltas.Compute(ctx, h.db, testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusNoActivity, res.Status)
	assert.Equal(t, 1, res.Tracked)
	assert.Empty(t, res.Deltas)
}

func TestDeltaEngine_DeltasAreNonNegative(t *testing.T) {
	h := newHarness(t)
	for id, name := range map[int64]string{1: "A", 2: "B", 3: "C", 4: "D"} {
		h.item(id, name)
	}

	// item 1: baseline from two days back, two readings today, the later wins
	h.reading(1, 2, 20, 100)
	h.reading(1, 0, 8, 110)
	h.reading(1, 0, 14, 130)
	// item 2: no baseline, counts from zero
	h.reading(2, 0, 9, 45)
	// item 3: decreased, excluded
	h.reading(3, 1, 9, 300)
	h.reading(3, 0, 9, 250)
	// item 4: only tomorrow
	h.reading(4, -1, 9, 1000)

	res, err := h.deltas.Compute(context.Background(), h.db, testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, res.Status)
	assert.Equal(t, 3, res.Tracked)
	require.Len(t, res.Deltas, 2)

	assert.Equal(t, ItemDelta{ItemID: 1, Value: 130, Baseline: 100, Delta: 30}, res.Deltas[0])
	assert.Equal(t, ItemDelta{ItemID: 2, Value: 45, Baseline: 0, Delta: 45}, res.Deltas[1])
	for _, d := range res.Deltas {
		assert.Positive(t, d.Delta)
	}
	assert.Equal(t, int64(75), res.Total())
}

func TestItemDailyDeltas(t *testing.T) {
	day := func(n int, hour int) time.Time { return daysAgo(n).Add(time.Duration(hour) * time.Hour) }
	snaps := []models.Snapshot{
		{ID: 1, TakenAt: day(3, 10), PlaytimeForever: 10},
		{ID: 2, TakenAt: day(2, 10), PlaytimeForever: 10},
		{ID: 3, TakenAt: day(1, 8), PlaytimeForever: 20},
		{ID: 4, TakenAt: day(1, 20), PlaytimeForever: 35},
	}

	deltas := itemDailyDeltas(snaps)
	assert.Equal(t, map[string]int64{
		models.FormatDate(daysAgo(3)): 10,
		models.FormatDate(daysAgo(1)): 25,
	}, deltas)
}
