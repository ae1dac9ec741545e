package controllers

import (
	"context"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"time"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct {
	errors int
}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) { m.errors++ }
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockSummaries struct {
	latest    *models.DailySummary
	latestErr error
	generated *models.DailySummary
	created   bool
	genErr    error
}

func (m *mockSummaries) Generate(_ context.Context, _ time.Time) (*models.DailySummary, bool, error) {
	return m.generated, m.created, m.genErr
}
func (m *mockSummaries) GenerateToday(ctx context.Context) (*models.DailySummary, bool, error) {
	return m.Generate(ctx, time.Time{})
}
func (m *mockSummaries) Latest(_ context.Context) (*models.DailySummary, error) {
	return m.latest, m.latestErr
}

type mockAnalytics struct {
	err error

	period     models.Period
	page       int
	limit      int
	streakItem *int64
	days       int
	ids        []int64
	start, end *time.Time
}

func (m *mockAnalytics) TopItems(_ context.Context, period models.Period, page, limit int) (*models.Leaderboard, error) {
	m.period, m.page, m.limit = period, page, limit
	if m.err != nil {
		return nil, m.err
	}
	return &models.Leaderboard{Period: period, Page: page, Limit: limit, Entries: []models.LeaderboardEntry{}}, nil
}
func (m *mockAnalytics) Trends(_ context.Context) (*models.Trends, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Trends{Change: "+0.0%"}, nil
}
func (m *mockAnalytics) Streaks(_ context.Context, itemID *int64) (*models.Streak, error) {
	m.streakItem = itemID
	if m.err != nil {
		return nil, m.err
	}
	return &models.Streak{ItemID: itemID, Longest: 2, Current: 1}, nil
}
func (m *mockAnalytics) Heatmap(_ context.Context, days int) ([]models.HeatmapDay, error) {
	m.days = days
	return []models.HeatmapDay{}, m.err
}
func (m *mockAnalytics) Compare(_ context.Context, ids []int64, start, end *time.Time) (*models.Comparison, error) {
	m.ids, m.start, m.end = ids, start, end
	if m.err != nil {
		return nil, m.err
	}
	return &models.Comparison{Items: []models.ItemSeries{}}, nil
}
func (m *mockAnalytics) History(_ context.Context, start, end *time.Time, limit int) ([]models.DailySummary, error) {
	m.start, m.end, m.limit = start, end, limit
	return []models.DailySummary{}, m.err
}

type mockItems struct {
	query    string
	id       int64
	days     int
	count    int
	err      error
	countErr error
}

func (m *mockItems) Search(_ context.Context, query string) ([]models.Item, error) {
	m.query = query
	return []models.Item{{ID: 1, Name: "Portal"}}, m.err
}
func (m *mockItems) Details(_ context.Context, id int64, days int) (*models.ItemDetails, error) {
	m.id, m.days = id, days
	if m.err != nil {
		return nil, m.err
	}
	return &models.ItemDetails{Item: &models.Item{ID: id, Name: "Portal"}}, nil
}
func (m *mockItems) Count(_ context.Context) (int, error) {
	return m.count, m.countErr
}

type mockIngestion struct {
	report *models.IngestReport
	err    error
}

func (m *mockIngestion) Sync(_ context.Context) (*models.IngestReport, error) {
	return m.report, m.err
}
func (m *mockIngestion) Reconcile(_ context.Context, _ []models.Reading) (*models.IngestReport, error) {
	return m.report, m.err
}
