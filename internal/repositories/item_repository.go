package repositories

import (
	"context"
	"playtrack/internal/models"
	"playtrack/internal/structures"
	"strings"

	"github.com/uptrace/bun"
)

type ItemRepositoryInterface interface {
	Find(ctx context.Context, db bun.IDB, id int64) (*models.Item, error)
	FindByIDs(ctx context.Context, db bun.IDB, ids []int64) (map[int64]*models.Item, error)
	Search(ctx context.Context, db bun.IDB, query string, limit int) ([]models.Item, error)
	All(ctx context.Context, db bun.IDB) ([]models.Item, error)
	Count(ctx context.Context, db bun.IDB) (int, error)
	Create(ctx context.Context, db bun.IDB, item *models.Item) error
	Update(ctx context.Context, db bun.IDB, item *models.Item) error
}

type ItemRepository struct {
	BaseRepository
}

func NewItemRepository(conf *structures.Config) ItemRepositoryInterface {
	return &ItemRepository{BaseRepository: NewBaseRepository(conf)}
}

// Find returns nil when the item does not exist.
func (r *ItemRepository) Find(ctx context.Context, db bun.IDB, id int64) (*models.Item, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	item := new(models.Item)
	err := db.NewSelect().Model(item).Where("id = ?", id).Scan(ctx)
	found, err := r.handleFind("find", "item", err)
	if !found {
		return nil, err
	}
	return item, nil
}

func (r *ItemRepository) FindByIDs(ctx context.Context, db bun.IDB, ids []int64) (map[int64]*models.Item, error) {
	out := make(map[int64]*models.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var items []models.Item
	err := db.NewSelect().Model(&items).Where("id IN (?)", bun.In(ids)).Scan(ctx)
	if err != nil {
		return nil, r.handleError("find_by_ids", "item", err)
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

// Search matches names case-insensitively, shortest names first.
func (r *ItemRepository) Search(ctx context.Context, db bun.IDB, query string, limit int) ([]models.Item, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pattern := "%" + strings.ToLower(query) + "%"
	items := make([]models.Item, 0)
	err := db.NewSelect().
		Model(&items).
		Where("LOWER(name) LIKE ?", pattern).
		OrderExpr("LENGTH(name) ASC, id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, r.handleError("search", "item", err)
	}
	return items, nil
}

func (r *ItemRepository) All(ctx context.Context, db bun.IDB) ([]models.Item, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	items := make([]models.Item, 0)
	err := db.NewSelect().Model(&items).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, r.handleError("list", "item", err)
	}
	return items, nil
}

func (r *ItemRepository) Count(ctx context.Context, db bun.IDB) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := db.NewSelect().Model((*models.Item)(nil)).Count(ctx)
	return n, r.handleError("count", "item", err)
}

func (r *ItemRepository) Create(ctx context.Context, db bun.IDB, item *models.Item) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	item.CreatedAt = dbTime(item.CreatedAt)
	item.UpdatedAt = dbTime(item.UpdatedAt)
	_, err := db.NewInsert().Model(item).Exec(ctx)
	return r.handleError("create", "item", err)
}

func (r *ItemRepository) Update(ctx context.Context, db bun.IDB, item *models.Item) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	item.UpdatedAt = dbTime(item.UpdatedAt)
	_, err := db.NewUpdate().
		Model(item).
		Column("name", "icon_url", "updated_at").
		WherePK().
		Exec(ctx)
	return r.handleError("update", "item", err)
}
