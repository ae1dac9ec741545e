package models

import (
	"fmt"
	"time"
)

type Period string

const (
	PeriodWeek     Period = "week"
	PeriodMonth    Period = "month"
	PeriodLifetime Period = "lifetime"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodWeek, PeriodMonth, PeriodLifetime:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown period %q", ErrInvalidInput, s)
}

// Window returns the rolling window length; lifetime has none.
func (p Period) Window() (time.Duration, bool) {
	switch p {
	case PeriodWeek:
		return 7 * Day, true
	case PeriodMonth:
		return 30 * Day, true
	}
	return 0, false
}

type LeaderboardEntry struct {
	ItemID        int64  `json:"item_id"`
	Name          string `json:"name"`
	TotalPlaytime int64  `json:"total_playtime"`
}

type Leaderboard struct {
	Period     Period             `json:"period"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Total      int                `json:"total"`
	TotalPages int                `json:"total_pages"`
	Entries    []LeaderboardEntry `json:"top_items"`
}

type WindowTotal struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	TotalPlaytime int64  `json:"total_playtime"`
}

type Trends struct {
	ThisWeek      WindowTotal `json:"this_week"`
	LastWeek      WindowTotal `json:"last_week"`
	ChangePercent float64     `json:"change_percent"`
	Change        string      `json:"change_vs_last_week"`
}

type Streak struct {
	ItemID  *int64 `json:"item_id,omitempty"`
	Longest int    `json:"longest_streak"`
	Current int    `json:"current_streak"`
}

type HeatmapDay struct {
	Date          string `json:"date"`
	TotalPlaytime int64  `json:"total_playtime"`
	ItemsPlayed   int    `json:"items_played"`
}

type ComparisonPoint struct {
	Date            string `json:"date"`
	PlaytimeForever int64  `json:"playtime_forever"`
	DailyDelta      int64  `json:"daily_delta"`
}

type ItemSeries struct {
	ItemID int64             `json:"item_id"`
	Name   string            `json:"name"`
	Points []ComparisonPoint `json:"points"`
}

type Comparison struct {
	Start string       `json:"start"`
	End   string       `json:"end"`
	Items []ItemSeries `json:"items"`
}

type ItemDetails struct {
	Item            *Item      `json:"item"`
	PlaytimeForever int64      `json:"playtime_forever"`
	History         []Snapshot `json:"history"`
}

type IngestReport struct {
	RunID              string `json:"run_id"`
	Items              int    `json:"items"`
	ItemsCreated       int    `json:"items_created"`
	ItemsUpdated       int    `json:"items_updated"`
	SnapshotsCreated   int    `json:"snapshots_created"`
	SnapshotsUpdated   int    `json:"snapshots_updated"`
	SnapshotsUnchanged int    `json:"snapshots_unchanged"`
}

type SimulationReport struct {
	Items            int    `json:"items"`
	Start            string `json:"start"`
	End              string `json:"end"`
	SnapshotsCreated int    `json:"snapshots_created"`
	SummariesCreated int    `json:"summaries_created"`
}
