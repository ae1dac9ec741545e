package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"playtrack/internal/models"
	"playtrack/internal/services"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newTestController() (*ApiController, *mockSummaries, *mockAnalytics, *mockItems, *mockLogger) {
	summaries := &mockSummaries{}
	analytics := &mockAnalytics{}
	items := &mockItems{}
	logger := &mockLogger{}
	return NewApiController(logger, summaries, analytics, items), summaries, analytics, items, logger
}

func serve(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

// --- summaries ---

func TestLatestSummary_OK(t *testing.T) {
	ac, summaries, _, _, _ := newTestController()
	summaries.latest = &models.DailySummary{Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), TotalPlaytimeMinutes: 42}

	rr := serve(ac.LatestSummary, "/summary/latest")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var got models.DailySummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, int64(42), got.TotalPlaytimeMinutes)
}

func TestLatestSummary_NotFound(t *testing.T) {
	ac, summaries, _, _, _ := newTestController()
	summaries.latestErr = fmt.Errorf("%w: no summaries yet", models.ErrNotFound)

	rr := serve(ac.LatestSummary, "/summary/latest")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decodeError(t, rr), "no summaries yet")
}

func TestSummaryHistory_ParsesRange(t *testing.T) {
	ac, _, analytics, _, _ := newTestController()

	rr := serve(ac.SummaryHistory, "/summary/history?start=2024-03-01&end=2024-03-10&limit=5")

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, analytics.start)
	assert.Equal(t, "2024-03-01", models.FormatDate(*analytics.start))
	assert.Equal(t, "2024-03-10", models.FormatDate(*analytics.end))
	assert.Equal(t, 5, analytics.limit)
}

func TestSummaryHistory_Defaults(t *testing.T) {
	ac, _, analytics, _, _ := newTestController()

	rr := serve(ac.SummaryHistory, "/summary/history")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, analytics.start)
	assert.Nil(t, analytics.end)
	assert.Equal(t, services.DefaultHistoryLimit, analytics.limit)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestSummaryHistory_BadDate(t *testing.T) {
	ac, _, _, _, _ := newTestController()
	rr := serve(ac.SummaryHistory, "/summary/history?start=03/01/2024")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- analytics ---

func TestTopItems_Defaults(t *testing.T) {
	ac, _, analytics, _, _ := newTestController()

	rr := serve(ac.TopItems, "/top")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.PeriodWeek, analytics.period)
	assert.Equal(t, 1, analytics.page)
	assert.Equal(t, services.DefaultPageSize, analytics.limit)

	var board map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	assert.Contains(t, board, "top_items")
	assert.Contains(t, board, "total_pages")
}

func TestTopItems_BadParams(t *testing.T) {
	ac, _, _, _, _ := newTestController()

	for _, target := range []string{"/top?period=decade", "/top?page=abc", "/top?limit=1.5"} {
		rr := serve(ac.TopItems, target)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestTopItems_ServiceValidationIs400(t *testing.T) {
	ac, _, analytics, _, _ := newTestController()
	analytics.err = fmt.Errorf("%w: limit must be between 1 and 100", models.ErrInvalidInput)

	rr := serve(ac.TopItems, "/top?period=month&limit=500")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.PeriodMonth, analytics.period)
	assert.Equal(t, 500, analytics.limit)
}

func TestTrends_OK(t *testing.T) {
	ac, _, _, _, _ := newTestController()
	rr := serve(ac.Trends, "/trends")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"change_vs_last_week":"+0.0%"`)
}

func TestStreaks_ItemScope(t *testing.T) {
	ac, _, analytics, _, _ := newTestController()

	rr := serve(ac.Streaks, "/streaks?item=620")
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, analytics.streakItem)
	assert.Equal(t, int64(620), *analytics.streakItem)

	rr = serve(ac.Streaks, "/streaks")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, analytics.streakItem)

	rr = serve(ac.Streaks, "/streaks?item=-4")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHeatmap_DefaultDays(t *testing.T) {
	ac, _, analytics, _, _ := newTestController()
	rr := serve(ac.Heatmap, "/heatmap")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, services.DefaultHeatmapDays, analytics.days)
}

func TestCompare_ParsesIDs(t *testing.T) {
	ac, _, analytics, _, _ := newTestController()

	rr := serve(ac.Compare, "/compare?ids=620,70&ids=10&start=2024-01-01")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []int64{620, 70, 10}, analytics.ids)
	require.NotNil(t, analytics.start)
	assert.Nil(t, analytics.end)

	rr = serve(ac.Compare, "/compare?ids=620,abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalytics_PersistenceErrorIsHidden(t *testing.T) {
	ac, _, analytics, _, logger := newTestController()
	analytics.err = fmt.Errorf("load: %w", models.ErrPersistence)

	rr := serve(ac.Trends, "/trends")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rr))
	assert.Equal(t, 1, logger.errors)
}

// --- items ---

func TestSearchItems(t *testing.T) {
	ac, _, _, items, _ := newTestController()
	rr := serve(ac.SearchItems, "/items/search?q=port")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "port", items.query)
}

func TestItemDetails_PathValue(t *testing.T) {
	ac, _, _, items, _ := newTestController()
	mux := http.NewServeMux()
	mux.HandleFunc("/items/{id}", ac.ItemDetails)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/620?days=7", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(620), items.id)
	assert.Equal(t, 7, items.days)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/zero", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestItemDetails_NotFound(t *testing.T) {
	ac, _, _, items, _ := newTestController()
	items.err = fmt.Errorf("%w: item 9", models.ErrNotFound)
	mux := http.NewServeMux()
	mux.HandleFunc("/items/{id}", ac.ItemDetails)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/9", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("x: %w", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("steam: %w", models.ErrUpstream), http.StatusBadGateway},
		{models.ErrPersistence, http.StatusInternalServerError},
		{errors.New("anything"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
