package models

import "time"

// Reading is one item's current state as reported by the upstream library API.
type Reading struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name,omitempty"`
	PlaytimeMinutes int64      `json:"playtime_minutes"`
	IconURL         string     `json:"icon_url,omitempty"`
	LastPlayedAt    *time.Time `json:"last_played_at,omitempty"`
}
