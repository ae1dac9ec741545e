package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"playtrack/internal/models"
	"playtrack/internal/structures"
	"time"
)

const DefaultQueryTimeout = 5 * time.Second

// BaseRepository provides the per-query timeout and error wrapping shared by all repositories.
type BaseRepository struct {
	timeout time.Duration
}

func NewBaseRepository(conf *structures.Config) BaseRepository {
	timeout := conf.Database.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return BaseRepository{timeout: timeout}
}

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// Is makes every repository failure match models.ErrPersistence.
func (re *RepositoryError) Is(target error) bool {
	return target == models.ErrPersistence
}

func (br BaseRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, br.timeout)
}

func (br BaseRepository) handleError(operation, entity string, err error) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{Operation: operation, Entity: entity, Err: err}
}

// handleFind maps sql.ErrNoRows to an absent result.
func (br BaseRepository) handleFind(operation, entity string, err error) (bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, br.handleError(operation, entity, err)
	}
	return true, nil
}
