package testutil

import (
	"context"
	"path/filepath"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/repositories"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level whose format contains substr.
func (m *MockLogger) Count(level, substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Format, substr) {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface without expiry.
type MockCache struct {
	mu      sync.Mutex
	Data    map[string][]byte
	TTLs    map[string]time.Duration
	SetHits int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte), TTLs: make(map[string]time.Duration)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
	m.TTLs[key] = ttl
	m.SetHits++
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	delete(m.TTLs, key)
}

func (m *MockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Data)
}

// MockMetrics implements providers.MetricsProviderInterface and counts outcomes.
type MockMetrics struct {
	mu          sync.Mutex
	Requests    int
	CacheHits   int
	CacheMisses int
	Ingests     map[string]int
	Summaries   map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Ingests: make(map[string]int), Summaries: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {}
func (m *MockMetrics) ObserveIngestDuration(_ time.Duration)      {}
func (m *MockMetrics) IncIngestTotal(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ingests[outcome]++
}
func (m *MockMetrics) IncSummariesTotal(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Summaries[outcome]++
}

func (m *MockMetrics) SummaryCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Summaries[outcome]
}

func (m *MockMetrics) IngestCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Ingests[outcome]
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// NewTestDB opens a schema-initialized SQLite database in a temp dir, closed on cleanup.
func NewTestDB(t testing.TB) *bun.DB {
	t.Helper()
	db, err := providers.OpenDatabase("sqlite", filepath.Join(t.TempDir(), "playtrack.db"), 1)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repositories.CreateSchema(context.Background(), db))
	return db
}

// Date returns UTC midnight of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func SeedItem(t testing.TB, db bun.IDB, id int64, name string) *models.Item {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	item := &models.Item{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(item).Exec(context.Background())
	require.NoError(t, err)
	return item
}

func SeedSnapshot(t testing.TB, db bun.IDB, itemID int64, takenAt time.Time, playtime int64) *models.Snapshot {
	t.Helper()
	snap := &models.Snapshot{ItemID: itemID, TakenAt: takenAt.UTC().Truncate(time.Second), PlaytimeForever: playtime}
	_, err := db.NewInsert().Model(snap).Exec(context.Background())
	require.NoError(t, err)
	return snap
}

func SeedSummary(t testing.TB, db bun.IDB, date time.Time, total int64, active int) *models.DailySummary {
	t.Helper()
	summary := &models.DailySummary{
		Date:                 models.DayStart(date),
		TotalPlaytimeMinutes: total,
		ActiveItems:          active,
		TrackedItems:         active,
		CreatedAt:            time.Now().UTC().Truncate(time.Second),
	}
	_, err := db.NewInsert().Model(summary).Exec(context.Background())
	require.NoError(t, err)
	return summary
}
