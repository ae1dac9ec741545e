package services

import (
	"context"
	"playtrack/internal/models"
	"playtrack/internal/repositories"
	"playtrack/internal/structures"
	"playtrack/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// testNow is mid-afternoon on 2024-03-15 UTC.
var testNow = time.Date(2024, 3, 15, 15, 30, 0, 0, time.UTC)

type harness struct {
	t         *testing.T
	db        *bun.DB
	clock     FixedClock
	logger    *testutil.MockLogger
	metrics   *testutil.MockMetrics
	cache     *ResultCache
	items     repositories.ItemRepositoryInterface
	snapshots repositories.SnapshotRepositoryInterface
	summaries repositories.SummaryRepositoryInterface
	deltas    DeltaEngineInterface
	summary   SummaryServiceInterface
	analytics AnalyticsServiceInterface
	itemSvc   ItemServiceInterface
}

func newHarness(t *testing.T) *harness {
	conf := &structures.Config{}
	h := &harness{
		t:         t,
		db:        testutil.NewTestDB(t),
		clock:     FixedClock{T: testNow},
		logger:    &testutil.MockLogger{},
		metrics:   testutil.NewMockMetrics(),
		items:     repositories.NewItemRepository(conf),
		snapshots: repositories.NewSnapshotRepository(conf),
		summaries: repositories.NewSummaryRepository(conf),
	}
	h.cache = NewResultCache(testutil.NewMockCache(), h.logger)
	h.deltas = NewDeltaEngine(h.snapshots)
	h.summary = NewSummaryService(h.db, h.deltas, h.summaries, h.items, h.cache, h.clock, h.logger, h.metrics)
	h.analytics = NewAnalyticsService(h.db, h.items, h.snapshots, h.summaries, h.cache, h.clock, h.logger)
	h.itemSvc = NewItemService(h.db, h.items, h.snapshots, h.cache, h.clock)
	return h
}

func (h *harness) ingestion(upstream UpstreamClientInterface, snapshots repositories.SnapshotRepositoryInterface) IngestionServiceInterface {
	if snapshots == nil {
		snapshots = h.snapshots
	}
	return NewIngestionService(h.db, upstream, h.items, snapshots, h.cache, h.clock, h.logger, h.metrics)
}

func (h *harness) item(id int64, name string) {
	testutil.SeedItem(h.t, h.db, id, name)
}

// reading stores a snapshot daysAgo days before testNow's day, at the given hour.
func (h *harness) reading(itemID int64, daysAgo int, hour int, value int64) *models.Snapshot {
	day := models.DayStart(testNow).Add(-time.Duration(daysAgo) * models.Day)
	return testutil.SeedSnapshot(h.t, h.db, itemID, day.Add(time.Duration(hour)*time.Hour), value)
}

func (h *harness) summaryDaysAgo(daysAgo int, total int64) {
	testutil.SeedSummary(h.t, h.db, models.DayStart(testNow).Add(-time.Duration(daysAgo)*models.Day), total, 1)
}

func (h *harness) countRows(model interface{}) int {
	n, err := h.db.NewSelect().Model(model).Count(context.Background())
	require.NoError(h.t, err)
	return n
}

func daysAgo(n int) time.Time {
	return models.DayStart(testNow).Add(-time.Duration(n) * models.Day)
}
