package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DailySummary is written once per UTC date and never recomputed.
type DailySummary struct {
	bun.BaseModel `bun:"table:daily_summaries,alias:ds"`

	ID                   int64     `bun:"id,pk,autoincrement" json:"id"`
	Date                 time.Time `bun:"summary_date,notnull,unique" json:"date"`
	TotalPlaytimeMinutes int64     `bun:"total_playtime_minutes,notnull" json:"total_playtime_minutes"`
	ActiveItems          int       `bun:"active_items,notnull" json:"active_items"`
	TrackedItems         int       `bun:"tracked_items,notnull" json:"tracked_items"`
	TopItemID            *int64    `bun:"top_item_id" json:"top_item_id,omitempty"`
	TopItemName          *string   `bun:"top_item_name" json:"top_item_name,omitempty"`
	TopItemMinutes       int64     `bun:"top_item_minutes,notnull" json:"top_item_minutes"`
	AveragePerActiveItem float64   `bun:"average_per_active_item,notnull" json:"average_per_active_item"`
	TotalPlaytimeChange  int64     `bun:"total_playtime_change,notnull" json:"total_playtime_change"`
	CreatedAt            time.Time `bun:"created_at,notnull" json:"created_at"`
}
