package controllers

import (
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

func post(h http.HandlerFunc) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodPost, "/admin", nil))
	return rr
}

func TestAdminIngest_OK(t *testing.T) {
	ingestion := &mockIngestion{report: &models.IngestReport{RunID: "run-1", Items: 3, SnapshotsCreated: 3}}
	ac := NewAdminController(&mockLogger{}, ingestion, &mockSummaries{})

	rr := post(ac.Ingest)

	assert.Equal(t, http.StatusOK, rr.Code)
	var report models.IngestReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 3, report.SnapshotsCreated)
}

func TestAdminIngest_UpstreamFailureIs502(t *testing.T) {
	ingestion := &mockIngestion{err: fmt.Errorf("%w: steam status 503", models.ErrUpstream)}
	ac := NewAdminController(&mockLogger{}, ingestion, &mockSummaries{})

	rr := post(ac.Ingest)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestAdminGenerateSummary_CreatedAndExisting(t *testing.T) {
	summary := &models.DailySummary{ID: 7, Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), TotalPlaytimeMinutes: 90}
	summaries := &mockSummaries{generated: summary, created: true}
	ac := NewAdminController(&mockLogger{}, &mockIngestion{}, summaries)

	rr := post(ac.GenerateSummary)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"created":true`)

	summaries.created = false
	rr = post(ac.GenerateSummary)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"created":false`)
	assert.Contains(t, rr.Body.String(), `"total_playtime_minutes":90`)
}

func TestAdminGenerateSummary_NoData(t *testing.T) {
	summaries := &mockSummaries{genErr: fmt.Errorf("summary for 2024-03-15: %w", services.ErrNoData)}
	ac := NewAdminController(&mockLogger{}, &mockIngestion{}, summaries)

	rr := post(ac.GenerateSummary)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decodeError(t, rr), "no snapshots")
}
