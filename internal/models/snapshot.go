package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Snapshot is a cumulative playtime reading for one item.
type Snapshot struct {
	bun.BaseModel `bun:"table:snapshots,alias:s"`

	ID              int64      `bun:"id,pk,autoincrement" json:"id"`
	ItemID          int64      `bun:"item_id,notnull" json:"item_id"`
	TakenAt         time.Time  `bun:"taken_at,notnull" json:"taken_at"`
	PlaytimeForever int64      `bun:"playtime_forever,notnull" json:"playtime_forever"`
	LastPlayedAt    *time.Time `bun:"last_played_at" json:"last_played_at,omitempty"`
}

// Newer reports whether s supersedes o as the latest reading of a day.
// Equal timestamps fall back to the higher row id.
func (s *Snapshot) Newer(o *Snapshot) bool {
	if !s.TakenAt.Equal(o.TakenAt) {
		return s.TakenAt.After(o.TakenAt)
	}
	return s.ID > o.ID
}
