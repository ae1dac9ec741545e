package services

import (
	"context"
	"fmt"
	"playtrack/internal/models"
	"playtrack/internal/repositories"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const (
	SearchLimit        = 20
	DefaultDetailsDays = 30
	MaxDetailsDays     = 366
)

type ItemServiceInterface interface {
	Search(ctx context.Context, query string) ([]models.Item, error)
	Details(ctx context.Context, id int64, days int) (*models.ItemDetails, error)
	Count(ctx context.Context) (int, error)
}

type ItemService struct {
	db        *bun.DB
	items     repositories.ItemRepositoryInterface
	snapshots repositories.SnapshotRepositoryInterface
	cache     ResultCacheInterface
	clock     Clock
}

func NewItemService(
	db *bun.DB,
	items repositories.ItemRepositoryInterface,
	snapshots repositories.SnapshotRepositoryInterface,
	cache ResultCacheInterface,
	clock Clock,
) ItemServiceInterface {
	return &ItemService{db: db, items: items, snapshots: snapshots, cache: cache, clock: clock}
}

func (s *ItemService) Search(ctx context.Context, query string) ([]models.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidf("search query must not be empty")
	}
	return cached(s.cache, OpItemSearch, strings.ToLower(query), func() ([]models.Item, error) {
		return s.items.Search(ctx, s.db, query, SearchLimit)
	})
}

// Details returns the item, its latest cumulative value and its snapshots from the last days days.
func (s *ItemService) Details(ctx context.Context, id int64, days int) (*models.ItemDetails, error) {
	if id <= 0 {
		return nil, invalidf("item id must be positive")
	}
	if days < 1 || days > MaxDetailsDays {
		return nil, invalidf("days must be between 1 and %d", MaxDetailsDays)
	}

	end := today(s.clock).Add(models.Day)
	params := fmt.Sprintf("%s|%s|%d", strconv.FormatInt(id, 10), models.FormatDate(end), days)
	return cached(s.cache, OpItemDetails, params, func() (*models.ItemDetails, error) {
		item, err := s.items.Find(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: item %d", models.ErrNotFound, id)
		}

		history, err := s.snapshots.FindForItemInRange(ctx, s.db, id, end.Add(-time.Duration(days)*models.Day), end)
		if err != nil {
			return nil, err
		}
		details := &models.ItemDetails{Item: item, History: history}

		latest, err := s.snapshots.FindLatestBefore(ctx, s.db, id, end)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			details.PlaytimeForever = latest.PlaytimeForever
		}
		return details, nil
	})
}

func (s *ItemService) Count(ctx context.Context) (int, error) {
	return s.items.Count(ctx, s.db)
}
