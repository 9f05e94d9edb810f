package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/sportshive/repositories"
)

// CleanupService вызывает хранимую процедуру очистки устаревших строк.
type CleanupService interface {
	Run(ctx context.Context) (int64, error)
}

type cleanupService struct {
	maintenanceRepo repositories.MaintenanceRepository
	logger          *slog.Logger
}

func NewCleanupService(maintenanceRepo repositories.MaintenanceRepository, logger *slog.Logger) CleanupService {
	return &cleanupService{
		maintenanceRepo: maintenanceRepo,
		logger:          logger,
	}
}

func (s *cleanupService) Run(ctx context.Context) (int64, error) {
	start := time.Now()

	deleted, err := s.maintenanceRepo.CleanupStaleRows(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "cleanup procedure failed", slog.Any("error", err))
		return 0, fmt.Errorf("%w: %v", ErrCleanupFailed, err)
	}

	s.logger.InfoContext(ctx, "cleanup procedure finished",
		slog.Int64("deleted_count", deleted),
		slog.Duration("took", time.Since(start)),
	)
	return deleted, nil
}
