package statistic

import (
	"context"
	"errors"
	"playtrack/internal/models"
	"playtrack/internal/providers"
	"playtrack/internal/services"
	"playtrack/internal/statistic/interfaces"
	"playtrack/internal/structures"
	"sync"
	"time"
)

const jobTimeout = 2 * time.Minute

// Scheduler runs ingestion, summary generation and backups on fixed intervals.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	ingestion   services.IngestionServiceInterface
	summaries   services.SummaryServiceInterface
	fileManager *FileManager
	opsMu       sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	ingestion services.IngestionServiceInterface,
	summaries services.SummaryServiceInterface,
	fileManager *FileManager,
) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		ingestion:   ingestion,
		summaries:   summaries,
		fileManager: fileManager,
	}
}

func (s *Scheduler) Init() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.config.Scheduler.Enabled {
		s.every(ctx, s.config.Scheduler.IngestInterval, s.runIngest)
		s.every(ctx, s.config.Scheduler.SummaryInterval, s.runSummary)
	}
	if s.config.Persistence.BackupPath != "" {
		s.every(ctx, s.config.Persistence.SaveInterval, func(ctx context.Context) {
			if err := s.Persist(); err == nil {
				s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.BackupPath)
			}
		})
	}
}

func (s *Scheduler) every(ctx context.Context, interval time.Duration, job func(context.Context)) {
	if interval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	}()
}

func (s *Scheduler) runIngest(ctx context.Context) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()
	if _, err := s.ingestion.Sync(ctx); err != nil {
		s.logger.Errorf(providers.TypeSync, "Scheduled ingestion failed: %s", err)
	}
}

func (s *Scheduler) runSummary(ctx context.Context) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()
	summary, created, err := s.summaries.GenerateToday(ctx)
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.logger.Debugf(providers.TypeApp, "No summary for today yet: %s", err)
	case err != nil:
		s.logger.Errorf(providers.TypeApp, "Scheduled summary failed: %s", err)
	case created:
		s.logger.Infof(providers.TypeApp, "Scheduled summary created for %s", models.FormatDate(summary.Date))
	}
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) Restore() error {
	if s.config.Persistence.BackupPath == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	return s.fileManager.LoadFromFile(ctx, s.config.Persistence.BackupPath)
}

func (s *Scheduler) Persist() error {
	if s.config.Persistence.BackupPath == "" {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.logger.Infof(providers.TypeApp, "Persisting store to file...")
	err := s.fileManager.SaveToFile(ctx, s.config.Persistence.BackupPath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}
