package services

import (
	"context"
	"fmt"
	"math"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/repositories"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const (
	DefaultPageSize     = 10
	MaxPageSize         = 100
	DefaultHeatmapDays  = 90
	MaxHeatmapDays      = 366
	MaxCompareItems     = 10
	DefaultCompareDays  = 90
	MaxCompareDays      = 366
	DefaultHistoryLimit = 90
	MaxHistoryLimit     = 365
)

type AnalyticsServiceInterface interface {
	TopItems(ctx context.Context, period models.Period, page, limit int) (*models.Leaderboard, error)
	Trends(ctx context.Context) (*models.Trends, error)
	Streaks(ctx context.Context, itemID *int64) (*models.Streak, error)
	Heatmap(ctx context.Context, days int) ([]models.HeatmapDay, error)
	Compare(ctx context.Context, ids []int64, start, end *time.Time) (*models.Comparison, error)
	History(ctx context.Context, start, end *time.Time, limit int) ([]models.DailySummary, error)
}

type AnalyticsService struct {
	db        *bun.DB
	items     repositories.ItemRepositoryInterface
	snapshots repositories.SnapshotRepositoryInterface
	summaries repositories.SummaryRepositoryInterface
	cache     ResultCacheInterface
	clock     Clock
	logger    providers.Logger
}

func NewAnalyticsService(
	db *bun.DB,
	items repositories.ItemRepositoryInterface,
	snapshots repositories.SnapshotRepositoryInterface,
	summaries repositories.SummaryRepositoryInterface,
	cache ResultCacheInterface,
	clock Clock,
	logger providers.Logger,
) AnalyticsServiceInterface {
	return &AnalyticsService{
		db:        db,
		items:     items,
		snapshots: snapshots,
		summaries: summaries,
		cache:     cache,
		clock:     clock,
		logger:    logger,
	}
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// TopItems ranks items by playtime gained inside the period's window, or by total playtime for lifetime.
func (a *AnalyticsService) TopItems(ctx context.Context, period models.Period, page, limit int) (*models.Leaderboard, error) {
	if _, err := models.ParsePeriod(string(period)); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, invalidf("page must be >= 1")
	}
	if limit < 1 || limit > MaxPageSize {
		return nil, invalidf("limit must be between 1 and %d", MaxPageSize)
	}

	params := fmt.Sprintf("%s|%d|%d", period, page, limit)
	return cached(a.cache, OpTopItems, params, func() (*models.Leaderboard, error) {
		var (
			values []repositories.ItemValue
			err    error
		)
		if window, ok := period.Window(); ok {
			values, err = a.snapshots.ValueSpreadSince(ctx, a.db, a.clock.Now().Add(-window))
		} else {
			values, err = a.snapshots.MaxValues(ctx, a.db)
		}
		if err != nil {
			return nil, err
		}

		ranked := make([]repositories.ItemValue, 0, len(values))
		for _, v := range values {
			if v.Value > 0 {
				ranked = append(ranked, v)
			}
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Value != ranked[j].Value {
				return ranked[i].Value > ranked[j].Value
			}
			return ranked[i].ItemID < ranked[j].ItemID
		})

		board := &models.Leaderboard{
			Period:     period,
			Page:       page,
			Limit:      limit,
			Total:      len(ranked),
			TotalPages: (len(ranked) + limit - 1) / limit,
			Entries:    make([]models.LeaderboardEntry, 0, limit),
		}

		from := (page - 1) * limit
		if from >= len(ranked) {
			return board, nil
		}
		pageRows := ranked[from:min(from+limit, len(ranked))]

		ids := make([]int64, len(pageRows))
		for i, row := range pageRows {
			ids[i] = row.ItemID
		}
		items, err := a.items.FindByIDs(ctx, a.db, ids)
		if err != nil {
			return nil, err
		}
		for _, row := range pageRows {
			name := models.UnknownItemName
			if item, ok := items[row.ItemID]; ok {
				name = item.Name
			}
			board.Entries = append(board.Entries, models.LeaderboardEntry{
				ItemID:        row.ItemID,
				Name:          name,
				TotalPlaytime: row.Value,
			})
		}
		return board, nil
	})
}

func (a *AnalyticsService) windowTotal(ctx context.Context, start, end time.Time) (models.WindowTotal, error) {
	summaries, err := a.summaries.FindBetween(ctx, a.db, start, end)
	if err != nil {
		return models.WindowTotal{}, err
	}
	var total int64
	for _, s := range summaries {
		total += s.TotalPlaytimeMinutes
	}
	return models.WindowTotal{
		Start:         models.FormatDate(start),
		End:           models.FormatDate(end.Add(-models.Day)),
		TotalPlaytime: total,
	}, nil
}

// Trends compares the trailing seven days, today included, with the seven days before them.
func (a *AnalyticsService) Trends(ctx context.Context) (*models.Trends, error) {
	day := today(a.clock)
	return cached(a.cache, OpTrends, models.FormatDate(day), func() (*models.Trends, error) {
		thisWeek, err := a.windowTotal(ctx, day.Add(-6*models.Day), day.Add(models.Day))
		if err != nil {
			return nil, err
		}
		lastWeek, err := a.windowTotal(ctx, day.Add(-13*models.Day), day.Add(-6*models.Day))
		if err != nil {
			return nil, err
		}

		pct := trendChange(thisWeek.TotalPlaytime, lastWeek.TotalPlaytime)
		return &models.Trends{
			ThisWeek:      thisWeek,
			LastWeek:      lastWeek,
			ChangePercent: pct,
			Change:        fmt.Sprintf("%+.1f%%", pct),
		}, nil
	})
}

// trendChange is the percentage change from last to current, 0 when last is 0.
func trendChange(current, last int64) float64 {
	if last == 0 {
		return 0
	}
	pct := float64(current-last) / float64(last) * 100
	return math.Round(pct*10) / 10
}

// Streaks walks summaries in date order. Dates without a summary are skipped, not treated as breaks.
func (a *AnalyticsService) Streaks(ctx context.Context, itemID *int64) (*models.Streak, error) {
	params := "all"
	if itemID != nil {
		if *itemID <= 0 {
			return nil, invalidf("item id must be positive")
		}
		params = strconv.FormatInt(*itemID, 10)
	}

	return cached(a.cache, OpStreaks, params, func() (*models.Streak, error) {
		summaries, err := a.summaries.All(ctx, a.db)
		if err != nil {
			return nil, err
		}

		active := make([]bool, len(summaries))
		if itemID == nil {
			for i, s := range summaries {
				active[i] = s.TotalPlaytimeMinutes > 0
			}
		} else {
			snaps, err := a.snapshots.FindForItem(ctx, a.db, *itemID)
			if err != nil {
				return nil, err
			}
			deltas := itemDailyDeltas(snaps)
			for i, s := range summaries {
				active[i] = deltas[models.FormatDate(s.Date)] > 0
			}
		}

		longest, current := streakLengths(active)
		return &models.Streak{ItemID: itemID, Longest: longest, Current: current}, nil
	})
}

func streakLengths(active []bool) (longest, current int) {
	for _, on := range active {
		if on {
			current++
			longest = max(longest, current)
		} else {
			current = 0
		}
	}
	return longest, current
}

func (a *AnalyticsService) Heatmap(ctx context.Context, days int) ([]models.HeatmapDay, error) {
	if days < 1 || days > MaxHeatmapDays {
		return nil, invalidf("days must be between 1 and %d", MaxHeatmapDays)
	}
	day := today(a.clock)
	params := fmt.Sprintf("%s|%d", models.FormatDate(day), days)
	return cached(a.cache, OpHeatmap, params, func() ([]models.HeatmapDay, error) {
		summaries, err := a.summaries.FindBetween(ctx, a.db, day.Add(-time.Duration(days)*models.Day), day.Add(models.Day))
		if err != nil {
			return nil, err
		}
		out := make([]models.HeatmapDay, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, models.HeatmapDay{
				Date:          models.FormatDate(s.Date),
				TotalPlaytime: s.TotalPlaytimeMinutes,
				ItemsPlayed:   s.ActiveItems,
			})
		}
		return out, nil
	})
}

// Compare builds one point per day and item. Days without a reading carry the previous value
// forward, seeded with the last reading before the range.
func (a *AnalyticsService) Compare(ctx context.Context, ids []int64, start, end *time.Time) (*models.Comparison, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 || len(ids) > MaxCompareItems {
		return nil, invalidf("between 1 and %d item ids are required", MaxCompareItems)
	}
	for _, id := range ids {
		if id <= 0 {
			return nil, invalidf("item id must be positive")
		}
	}

	to := today(a.clock)
	if end != nil {
		to = models.DayStart(*end)
	}
	from := to.Add(-(DefaultCompareDays - 1) * models.Day)
	if start != nil {
		from = models.DayStart(*start)
	}
	if from.After(to) {
		return nil, invalidf("start must not be after end")
	}
	days := int(to.Sub(from)/models.Day) + 1
	if days > MaxCompareDays {
		return nil, invalidf("range must not exceed %d days", MaxCompareDays)
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = strconv.FormatInt(id, 10)
	}
	params := fmt.Sprintf("%s|%s|%s", strings.Join(idStrings, ","), models.FormatDate(from), models.FormatDate(to))

	return cached(a.cache, OpCompare, params, func() (*models.Comparison, error) {
		items, err := a.items.FindByIDs(ctx, a.db, ids)
		if err != nil {
			return nil, err
		}

		result := &models.Comparison{
			Start: models.FormatDate(from),
			End:   models.FormatDate(to),
			Items: make([]models.ItemSeries, 0, len(ids)),
		}
		for _, id := range ids {
			series, err := a.itemSeries(ctx, id, from, days)
			if err != nil {
				return nil, err
			}
			series.Name = models.UnknownItemName
			if item, ok := items[id]; ok {
				series.Name = item.Name
			}
			result.Items = append(result.Items, *series)
		}
		return result, nil
	})
}

func (a *AnalyticsService) itemSeries(ctx context.Context, id int64, from time.Time, days int) (*models.ItemSeries, error) {
	var last int64
	seed, err := a.snapshots.FindLatestBefore(ctx, a.db, id, from)
	if err != nil {
		return nil, err
	}
	if seed != nil {
		last = seed.PlaytimeForever
	}

	snaps, err := a.snapshots.FindForItemInRange(ctx, a.db, id, from, from.Add(time.Duration(days)*models.Day))
	if err != nil {
		return nil, err
	}
	values := dailyValues(snaps)

	series := &models.ItemSeries{ItemID: id, Points: make([]models.ComparisonPoint, 0, days)}
	for i := 0; i < days; i++ {
		date := models.FormatDate(from.Add(time.Duration(i) * models.Day))
		value, ok := values[date]
		if !ok {
			value = last
		}
		series.Points = append(series.Points, models.ComparisonPoint{
			Date:            date,
			PlaytimeForever: value,
			DailyDelta:      max(value-last, 0),
		})
		last = value
	}
	return series, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// History returns the newest limit summaries inside the optional inclusive bounds, oldest first.
func (a *AnalyticsService) History(ctx context.Context, start, end *time.Time, limit int) ([]models.DailySummary, error) {
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, invalidf("limit must be between 1 and %d", MaxHistoryLimit)
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, invalidf("start must not be after end")
	}

	params := fmt.Sprintf("%s|%s|%d", optionalDate(start), optionalDate(end), limit)
	return cached(a.cache, OpHistory, params, func() ([]models.DailySummary, error) {
		rows, err := a.summaries.FindHistory(ctx, a.db, start, end, limit)
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
		return rows, nil
	})
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return models.FormatDate(*t)
}
