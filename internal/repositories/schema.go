package repositories

import (
	"context"
	"fmt"
	"playtrack/internal/models"

	"github.com/uptrace/bun"
)

// CreateSchema creates tables and indexes that do not exist yet.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	tables := []struct {
		model interface{}
		fk    string
	}{
		{model: (*models.Item)(nil)},
		{model: (*models.Snapshot)(nil), fk: `("item_id") REFERENCES "items" ("id")`},
		{model: (*models.DailySummary)(nil)},
	}
	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		if t.fk != "" {
			q = q.ForeignKey(t.fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	indexes := []struct {
		model   interface{}
		name    string
		columns []string
	}{
		{(*models.Snapshot)(nil), "snapshots_item_taken_idx", []string{"item_id", "taken_at"}},
		{(*models.Snapshot)(nil), "snapshots_taken_idx", []string{"taken_at"}},
	}
	for _, idx := range indexes {
		_, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			IfNotExists().
			Column(idx.columns...).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
