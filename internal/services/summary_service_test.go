package services

import (
	"context"
	"errors"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/repositories"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestSummaryService_GenerateAggregatesDeltas(t *testing.T) {
	h := newHarness(t)
	h.item(1, "Alpha")
	h.item(2, "Beta")
	h.item(3, "Gamma")
	h.reading(1, 1, 12, 100)
	h.reading(1, 0, 12, 160)
	h.reading(2, 1, 12, 10)
	h.reading(2, 0, 12, 70)
	h.reading(3, 0, 12, 25)

	summary, created, err := h.summary.Generate(context.Background(), testNow)
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, "2024-03-15", models.FormatDate(summary.Date))
	assert.Equal(t, int64(145), summary.TotalPlaytimeMinutes)
	assert.Equal(t, 3, summary.ActiveItems)
	assert.Equal(t, 3, summary.TrackedItems)
	require.NotNil(t, summary.TopItemID)
	assert.Equal(t, int64(1), *summary.TopItemID, "tie on 60 goes to the lower id")
	assert.Equal(t, "Alpha", *summary.TopItemName)
	assert.Equal(t, int64(60), summary.TopItemMinutes)
	assert.Equal(t, 48.33, summary.AveragePerActiveItem)
	assert.Equal(t, int64(145), summary.TotalPlaytimeChange, "no earlier summary")
	assert.Equal(t, 1, h.metrics.SummaryCount(providers.OutcomeOK))
}

func TestSummaryService_GenerateIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.item(1, "Alpha")
	h.reading(1, 0, 10, 30)
	ctx := context.Background()

	first, created, err := h.summary.Generate(ctx, testNow)
	require.NoError(t, err)
	require.True(t, created)

	// more playtime arrives later the same day; the stored summary must not change
	h.reading(1, 0, 20, 90)

	second, created, err := h.summary.Generate(ctx, testNow)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TotalPlaytimeMinutes, second.TotalPlaytimeMinutes)
	assert.Equal(t, 1, h.countRows((*models.DailySummary)(nil)))
	assert.Equal(t, 1, h.metrics.SummaryCount(providers.OutcomeExists))
}

func TestSummaryService_ChangeUsesMostRecentEarlierSummary(t *testing.T) {
	h := newHarness(t)
	h.summaryDaysAgo(4, 200)
	h.summaryDaysAgo(9, 20)
	h.item(1, "Alpha")
	h.reading(1, 5, 10, 1000)
	h.reading(1, 0, 10, 1050)

	summary, _, err := h.summary.Generate(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(50), summary.TotalPlaytimeMinutes)
	assert.Equal(t, int64(-150), summary.TotalPlaytimeChange)
}

func TestSummaryService_NoDataAndNoActivity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, created, err := h.summary.Generate(ctx, testNow)
	assert.False(t, created)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.True(t, errors.Is(err, models.ErrNotFound))

	h.item(1, "Alpha")
	h.reading(1, 1, 10, 100)
	h.reading(1, 0, 10, 100)
	_, _, err = h.summary.Generate(ctx, testNow)
	assert.True(t, errors.Is(err, ErrNoActivity))
	assert.Equal(t, 0, h.countRows((*models.DailySummary)(nil)))
	assert.Equal(t, 2, h.metrics.SummaryCount(providers.OutcomeNoData))
}

func TestSummaryService_LatestIsInvalidatedOnCreate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.summary.Latest(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	h.summaryDaysAgo(3, 10)
	latest, err := h.summary.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FormatDate(daysAgo(3)), models.FormatDate(latest.Date))

	h.item(1, "Alpha")
	h.reading(1, 0, 10, 5)
	_, created, err := h.summary.GenerateToday(ctx)
	require.NoError(t, err)
	require.True(t, created)

	latest, err = h.summary.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", models.FormatDate(latest.Date))
}

func TestSummaryService_SumOfDeltasEqualsTotal(t *testing.T) {
	h := newHarness(t)
	var expected int64
	for id := int64(1); id <= 12; id++ {
		h.item(id, "item")
		base := id * 100
		h.reading(id, 1, 9, base)
		gain := (id * 7) % 5 // some items gain nothing
		h.reading(id, 0, 9, base+gain)
		expected += gain
	}

	deltas, err := h.deltas.Compute(context.Background(), h.db, testNow)
	require.NoError(t, err)
	summary, _, err := h.summary.Generate(context.Background(), testNow)
	require.NoError(t, err)

	assert.Equal(t, expected, summary.TotalPlaytimeMinutes)
	assert.Equal(t, deltas.Total(), summary.TotalPlaytimeMinutes)
	assert.Equal(t, len(deltas.Deltas), summary.ActiveItems)
}

// failingAfterInsertSummaries writes the row and then reports a failure, so only a rollback can remove it.
type failingAfterInsertSummaries struct {
	repositories.SummaryRepositoryInterface
}

func (f failingAfterInsertSummaries) Create(ctx context.Context, db bun.IDB, summary *models.DailySummary) error {
	if err := f.SummaryRepositoryInterface.Create(ctx, db, summary); err != nil {
		return err
	}
	return &repositories.RepositoryError{Operation: "create", Entity: "daily_summary", Err: errors.New("disk full")}
}

// lateWriterSummaries hides an existing row from the first lookup, as if another writer committed it meanwhile.
type lateWriterSummaries struct {
	repositories.SummaryRepositoryInterface
	lookups int
}

func (l *lateWriterSummaries) FindByDate(ctx context.Context, db bun.IDB, date time.Time) (*models.DailySummary, error) {
	l.lookups++
	if l.lookups == 1 {
		return nil, nil
	}
	return l.SummaryRepositoryInterface.FindByDate(ctx, db, date)
}

func TestSummaryService_FailureRollsBackAndPersistsNothing(t *testing.T) {
	h := newHarness(t)
	h.item(1, "Alpha")
	h.reading(1, 0, 12, 40)
	svc := NewSummaryService(h.db, h.deltas, failingAfterInsertSummaries{h.summaries}, h.items, h.cache, h.clock, h.logger, h.metrics)

	summary, created, err := svc.Generate(context.Background(), testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Nil(t, summary)
	assert.False(t, created)

	assert.Equal(t, 0, h.countRows((*models.DailySummary)(nil)))
	assert.Equal(t, 1, h.metrics.SummaryCount(providers.OutcomeFailed))
	assert.Equal(t, 1, h.logger.Count("error", "Summary generation"))
}

func TestSummaryService_UniqueConflictReturnsWinningRow(t *testing.T) {
	h := newHarness(t)
	h.item(1, "Alpha")
	h.reading(1, 0, 12, 40)
	h.summaryDaysAgo(0, 999)
	repo := &lateWriterSummaries{SummaryRepositoryInterface: h.summaries}
	svc := NewSummaryService(h.db, h.deltas, repo, h.items, h.cache, h.clock, h.logger, h.metrics)

	summary, created, err := svc.Generate(context.Background(), testNow)
	require.NoError(t, err)
	assert.False(t, created)
	require.NotNil(t, summary)
	assert.Equal(t, int64(999), summary.TotalPlaytimeMinutes, "the row already stored wins")

	assert.Equal(t, 1, h.countRows((*models.DailySummary)(nil)))
	assert.Equal(t, 1, h.metrics.SummaryCount(providers.OutcomeExists))
	assert.Equal(t, 0, h.metrics.SummaryCount(providers.OutcomeFailed))
}
