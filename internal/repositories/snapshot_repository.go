package repositories

import (
	"context"
	"playtrack/internal/models"
	"playtrack/internal/structures"
	"time"

	"github.com/uptrace/bun"
)

// ItemValue is a per-item aggregate over snapshot values.
type ItemValue struct {
	ItemID int64 `bun:"item_id"`
	Value  int64 `bun:"value"`
}

type SnapshotRepositoryInterface interface {
	FindInRange(ctx context.Context, db bun.IDB, start, end time.Time) ([]models.Snapshot, error)
	FindForItemInRange(ctx context.Context, db bun.IDB, itemID int64, start, end time.Time) ([]models.Snapshot, error)
	FindForItem(ctx context.Context, db bun.IDB, itemID int64) ([]models.Snapshot, error)
	FindLatestBefore(ctx context.Context, db bun.IDB, itemID int64, before time.Time) (*models.Snapshot, error)
	FindLatest(ctx context.Context, db bun.IDB) (*models.Snapshot, error)
	ValueSpreadSince(ctx context.Context, db bun.IDB, since time.Time) ([]ItemValue, error)
	MaxValues(ctx context.Context, db bun.IDB) ([]ItemValue, error)
	All(ctx context.Context, db bun.IDB) ([]models.Snapshot, error)
	Create(ctx context.Context, db bun.IDB, snapshot *models.Snapshot) error
	Update(ctx context.Context, db bun.IDB, snapshot *models.Snapshot) error
}

type SnapshotRepository struct {
	BaseRepository
}

func NewSnapshotRepository(conf *structures.Config) SnapshotRepositoryInterface {
	return &SnapshotRepository{BaseRepository: NewBaseRepository(conf)}
}

// dbTime normalizes timestamps to UTC seconds so stored values compare in chronological order.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// FindInRange returns snapshots with taken_at in [start, end), newest first within each item.
func (r *SnapshotRepository) FindInRange(ctx context.Context, db bun.IDB, start, end time.Time) ([]models.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	snaps := make([]models.Snapshot, 0)
	err := db.NewSelect().
		Model(&snaps).
		Where("taken_at >= ?", dbTime(start)).
		Where("taken_at < ?", dbTime(end)).
		OrderExpr("item_id ASC, taken_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.handleError("find_in_range", "snapshot", err)
	}
	return snaps, nil
}

// FindForItemInRange returns one item's snapshots in [start, end), oldest first.
func (r *SnapshotRepository) FindForItemInRange(ctx context.Context, db bun.IDB, itemID int64, start, end time.Time) ([]models.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	snaps := make([]models.Snapshot, 0)
	err := db.NewSelect().
		Model(&snaps).
		Where("item_id = ?", itemID).
		Where("taken_at >= ?", dbTime(start)).
		Where("taken_at < ?", dbTime(end)).
		OrderExpr("taken_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.handleError("find_item_range", "snapshot", err)
	}
	return snaps, nil
}

func (r *SnapshotRepository) FindForItem(ctx context.Context, db bun.IDB, itemID int64) ([]models.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	snaps := make([]models.Snapshot, 0)
	err := db.NewSelect().
		Model(&snaps).
		Where("item_id = ?", itemID).
		OrderExpr("taken_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.handleError("find_item", "snapshot", err)
	}
	return snaps, nil
}

// FindLatestBefore returns the item's most recent snapshot strictly before the given instant, or nil.
func (r *SnapshotRepository) FindLatestBefore(ctx context.Context, db bun.IDB, itemID int64, before time.Time) (*models.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	snap := new(models.Snapshot)
	err := db.NewSelect().
		Model(snap).
		Where("item_id = ?", itemID).
		Where("taken_at < ?", dbTime(before)).
		OrderExpr("taken_at DESC, id DESC").
		Limit(1).
		Scan(ctx)
	found, err := r.handleFind("find_latest_before", "snapshot", err)
	if !found {
		return nil, err
	}
	return snap, nil
}

func (r *SnapshotRepository) FindLatest(ctx context.Context, db bun.IDB) (*models.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	snap := new(models.Snapshot)
	err := db.NewSelect().
		Model(snap).
		OrderExpr("taken_at DESC, id DESC").
		Limit(1).
		Scan(ctx)
	found, err := r.handleFind("find_latest", "snapshot", err)
	if !found {
		return nil, err
	}
	return snap, nil
}

// ValueSpreadSince returns MAX - MIN of snapshot values per item for snapshots taken at or after since.
func (r *SnapshotRepository) ValueSpreadSince(ctx context.Context, db bun.IDB, since time.Time) ([]ItemValue, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows := make([]ItemValue, 0)
	err := db.NewSelect().
		Model((*models.Snapshot)(nil)).
		ColumnExpr("item_id").
		ColumnExpr("MAX(playtime_forever) - MIN(playtime_forever) AS value").
		Where("taken_at >= ?", dbTime(since)).
		Group("item_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, r.handleError("value_spread", "snapshot", err)
	}
	return rows, nil
}

func (r *SnapshotRepository) MaxValues(ctx context.Context, db bun.IDB) ([]ItemValue, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows := make([]ItemValue, 0)
	err := db.NewSelect().
		Model((*models.Snapshot)(nil)).
		ColumnExpr("item_id").
		ColumnExpr("MAX(playtime_forever) AS value").
		Group("item_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, r.handleError("max_values", "snapshot", err)
	}
	return rows, nil
}

func (r *SnapshotRepository) All(ctx context.Context, db bun.IDB) ([]models.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	snaps := make([]models.Snapshot, 0)
	err := db.NewSelect().Model(&snaps).OrderExpr("id ASC").Scan(ctx)
	if err != nil {
		return nil, r.handleError("list", "snapshot", err)
	}
	return snaps, nil
}

func (r *SnapshotRepository) Create(ctx context.Context, db bun.IDB, snapshot *models.Snapshot) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	snapshot.TakenAt = dbTime(snapshot.TakenAt)
	if snapshot.LastPlayedAt != nil {
		lp := dbTime(*snapshot.LastPlayedAt)
		snapshot.LastPlayedAt = &lp
	}
	_, err := db.NewInsert().Model(snapshot).Exec(ctx)
	return r.handleError("create", "snapshot", err)
}

func (r *SnapshotRepository) Update(ctx context.Context, db bun.IDB, snapshot *models.Snapshot) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	snapshot.TakenAt = dbTime(snapshot.TakenAt)
	if snapshot.LastPlayedAt != nil {
		lp := dbTime(*snapshot.LastPlayedAt)
		snapshot.LastPlayedAt = &lp
	}
	_, err := db.NewUpdate().
		Model(snapshot).
		Column("playtime_forever", "taken_at", "last_played_at").
		WherePK().
		Exec(ctx)
	return r.handleError("update", "snapshot", err)
}
