package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Item is a tracked game keyed by its upstream application id.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID        int64     `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	IconURL   *string   `bun:"icon_url" json:"icon_url,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

const UnknownItemName = "Unknown"
