package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const (
	CleanupJobName       = "stale_rows_cleanup"
	StatusRefreshJobName = "tournament_status_refresh"

	jobTimeout = 2 * time.Minute
)

// CleanupRunner вызывает процедуру очистки БД.
type CleanupRunner interface {
	Run(ctx context.Context) (int64, error)
}

// StatusRefresher продвигает статусы турниров по датам.
type StatusRefresher interface {
	RefreshStatuses(ctx context.Context) (int, error)
}

// RegisterCleanupJob регистрирует ежедневную очистку устаревших строк.
func RegisterCleanupJob(s *Scheduler, runner CleanupRunner, cronExpr string) (gocron.Job, error) {
	jobLogger := s.logger.With(slog.String("component", "cleanup_job"))

	job, err := s.AddJob(CleanupJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		// Результат и ошибки логирует сам сервис очистки.
		if _, err := runner.Run(ctx); err != nil {
			jobLogger.Warn("scheduled cleanup did not complete", slog.Any("error", err))
		}
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return nil, fmt.Errorf("add cleanup job: %w", err)
	}
	return job, nil
}

// RegisterStatusRefreshJob регистрирует пересчёт статусов турниров.
func RegisterStatusRefreshJob(s *Scheduler, refresher StatusRefresher, cronExpr string) (gocron.Job, error) {
	jobLogger := s.logger.With(slog.String("component", "status_refresh_job"))

	job, err := s.AddJob(StatusRefreshJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		updated, err := refresher.RefreshStatuses(ctx)
		if err != nil {
			jobLogger.Error("failed to refresh tournament statuses", slog.Any("error", err))
			return
		}
		if updated > 0 {
			jobLogger.Info("tournament statuses refreshed", slog.Int("updated", updated))
		}
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return nil, fmt.Errorf("add status refresh job: %w", err)
	}
	return job, nil
}
