package repositories

import (
	"context"
	"playtrack/internal/models"
	"playtrack/internal/structures"
	"time"

	"github.com/uptrace/bun"
)

type SummaryRepositoryInterface interface {
	FindByDate(ctx context.Context, db bun.IDB, date time.Time) (*models.DailySummary, error)
	FindLatest(ctx context.Context, db bun.IDB) (*models.DailySummary, error)
	FindLatestBefore(ctx context.Context, db bun.IDB, date time.Time) (*models.DailySummary, error)
	FindBetween(ctx context.Context, db bun.IDB, start, end time.Time) ([]models.DailySummary, error)
	FindHistory(ctx context.Context, db bun.IDB, start, end *time.Time, limit int) ([]models.DailySummary, error)
	All(ctx context.Context, db bun.IDB) ([]models.DailySummary, error)
	Create(ctx context.Context, db bun.IDB, summary *models.DailySummary) error
}

type SummaryRepository struct {
	BaseRepository
}

func NewSummaryRepository(conf *structures.Config) SummaryRepositoryInterface {
	return &SummaryRepository{BaseRepository: NewBaseRepository(conf)}
}

func (r *SummaryRepository) findOne(ctx context.Context, op string, q *bun.SelectQuery, summary *models.DailySummary) (*models.DailySummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := q.Scan(ctx)
	found, err := r.handleFind(op, "daily_summary", err)
	if !found {
		return nil, err
	}
	return summary, nil
}

func (r *SummaryRepository) FindByDate(ctx context.Context, db bun.IDB, date time.Time) (*models.DailySummary, error) {
	s := new(models.DailySummary)
	q := db.NewSelect().Model(s).Where("summary_date = ?", models.DayStart(date))
	return r.findOne(ctx, "find_by_date", q, s)
}

func (r *SummaryRepository) FindLatest(ctx context.Context, db bun.IDB) (*models.DailySummary, error) {
	s := new(models.DailySummary)
	q := db.NewSelect().Model(s).Order("summary_date DESC").Limit(1)
	return r.findOne(ctx, "find_latest", q, s)
}

// FindLatestBefore returns the summary with the greatest date strictly before date, whatever the gap.
func (r *SummaryRepository) FindLatestBefore(ctx context.Context, db bun.IDB, date time.Time) (*models.DailySummary, error) {
	s := new(models.DailySummary)
	q := db.NewSelect().
		Model(s).
		Where("summary_date < ?", models.DayStart(date)).
		Order("summary_date DESC").
		Limit(1)
	return r.findOne(ctx, "find_latest_before", q, s)
}

// FindBetween returns summaries dated in [start, end), oldest first.
func (r *SummaryRepository) FindBetween(ctx context.Context, db bun.IDB, start, end time.Time) ([]models.DailySummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	out := make([]models.DailySummary, 0)
	err := db.NewSelect().
		Model(&out).
		Where("summary_date >= ?", models.DayStart(start)).
		Where("summary_date < ?", models.DayStart(end)).
		Order("summary_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.handleError("find_between", "daily_summary", err)
	}
	return out, nil
}

// FindHistory returns up to limit of the newest summaries within the optional
// inclusive bounds, newest first.
func (r *SummaryRepository) FindHistory(ctx context.Context, db bun.IDB, start, end *time.Time, limit int) ([]models.DailySummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	out := make([]models.DailySummary, 0)
	q := db.NewSelect().Model(&out).Order("summary_date DESC").Limit(limit)
	if start != nil {
		q = q.Where("summary_date >= ?", models.DayStart(*start))
	}
	if end != nil {
		q = q.Where("summary_date <= ?", models.DayStart(*end))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, r.handleError("find_history", "daily_summary", err)
	}
	return out, nil
}

func (r *SummaryRepository) All(ctx context.Context, db bun.IDB) ([]models.DailySummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	out := make([]models.DailySummary, 0)
	err := db.NewSelect().Model(&out).Order("summary_date ASC").Scan(ctx)
	if err != nil {
		return nil, r.handleError("list", "daily_summary", err)
	}
	return out, nil
}

func (r *SummaryRepository) Create(ctx context.Context, db bun.IDB, summary *models.DailySummary) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	summary.Date = models.DayStart(summary.Date)
	summary.CreatedAt = dbTime(summary.CreatedAt)
	_, err := db.NewInsert().Model(summary).Exec(ctx)
	return r.handleError("create", "daily_summary", err)
}
