package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// MaintenanceRepository вызывает серверные процедуры обслуживания БД.
type MaintenanceRepository interface {
	CleanupStaleRows(ctx context.Context) (int64, error)
}

type postgresMaintenanceRepository struct {
	db *sql.DB
}

func NewPostgresMaintenanceRepository(db *sql.DB) MaintenanceRepository {
	return &postgresMaintenanceRepository{db: db}
}

func (r *postgresMaintenanceRepository) CleanupStaleRows(ctx context.Context) (int64, error) {
	var deleted int64
	if err := r.db.QueryRowContext(ctx, `SELECT cleanup_stale_rows()`).Scan(&deleted); err != nil {
		return 0, fmt.Errorf("cleanup_stale_rows failed: %w", err)
	}
	return deleted, nil
}
