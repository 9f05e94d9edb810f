// Package jobs запускает фоновые задачи по cron-расписанию.
package jobs

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var (
	ErrEmptyJobName  = errors.New("job name is required")
	ErrEmptyCronExpr = errors.New("cron expression is required")
)

// Scheduler оборачивает gocron-планировщик приложения.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	stopOnce  sync.Once
	stopErr   error
}

func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithLogger(logger),
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("scheduler job panicked",
						slog.String("job_id", jobID.String()),
						slog.String("job_name", jobName),
						slog.Any("panic", recoverData),
					)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Scheduler{scheduler: sched, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("scheduler starting", slog.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop дожидается завершения запущенных задач. Повторные вызовы безопасны.
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() {
		s.logger.Info("scheduler stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

// AddJob регистрирует cron-задачу. Выражение в пятипольном формате, без секунд.
func (s *Scheduler) AddJob(name, cronExpr string, task func(), opts ...gocron.JobOption) (gocron.Job, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyJobName
	}
	if strings.TrimSpace(cronExpr) == "" {
		return nil, ErrEmptyCronExpr
	}
	jobLogger := s.logger.With(slog.String("job_name", name), slog.String("cron", cronExpr))

	wrappedTask := func() {
		jobLogger.Debug("scheduler job started")
		task()
		jobLogger.Debug("scheduler job completed")
	}

	opts = append([]gocron.JobOption{gocron.WithName(name)}, opts...)
	job, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(wrappedTask),
		opts...,
	)
	if err != nil {
		jobLogger.Error("failed to register scheduler job", slog.Any("error", err))
		return nil, err
	}
	jobLogger.Info("scheduler job registered")
	return job, nil
}
