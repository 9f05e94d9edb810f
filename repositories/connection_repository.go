package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/sportshive/models"
)

var (
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrConnectionConflict   = errors.New("connection between users already exists")
	ErrConnectionRefInvalid = errors.New("connection user reference invalid")
)

type ConnectionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, connection *models.Connection) error
	GetByID(ctx context.Context, id int) (*models.Connection, error)
	// GetBetween ищет связь между пользователями в любом направлении.
	GetBetween(ctx context.Context, userA, userB int) (*models.Connection, error)
	UpdateStatus(ctx context.Context, id int, status models.ConnectionState) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	ListAccepted(ctx context.Context, userID int) ([]models.Connection, error)
	ListPendingIncoming(ctx context.Context, userID int) ([]models.Connection, error)
	ListPendingSent(ctx context.Context, userID int) ([]models.Connection, error)
	CountPendingIncoming(ctx context.Context, userID int) (int, error)
	CountAccepted(ctx context.Context, userID int) (int, error)
}

type postgresConnectionRepository struct {
	db *sql.DB
}

func NewPostgresConnectionRepository(db *sql.DB) ConnectionRepository {
	return &postgresConnectionRepository{db: db}
}

const connectionColumns = `c.id, c.requester_id, c.addressee_id, c.status, c.created_at, c.updated_at`

func scanConnection(row rowScanner) (*models.Connection, error) {
	c := &models.Connection{}
	if err := row.Scan(&c.ID, &c.RequesterID, &c.AddresseeID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresConnectionRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Connection) error {
	query := `
		INSERT INTO connections (requester_id, addressee_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := executorOr(exec, r.db).QueryRowContext(ctx, query, c.RequesterID, c.AddresseeID, c.Status).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if code, _, ok := pqConstraintError(err); ok {
			switch code {
			case pqUniqueViolation:
				return ErrConnectionConflict
			case pqForeignKeyViolation:
				return ErrConnectionRefInvalid
			}
		}
		return fmt.Errorf("failed to insert connection: %w", err)
	}
	return nil
}

func (r *postgresConnectionRepository) GetByID(ctx context.Context, id int) (*models.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections c WHERE c.id = $1`

	c, err := scanConnection(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresConnectionRepository) GetBetween(ctx context.Context, userA, userB int) (*models.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections c
		WHERE (c.requester_id = $1 AND c.addressee_id = $2)
		   OR (c.requester_id = $2 AND c.addressee_id = $1)`

	c, err := scanConnection(r.db.QueryRowContext(ctx, query, userA, userB))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresConnectionRepository) UpdateStatus(ctx context.Context, id int, status models.ConnectionState) error {
	query := `UPDATE connections SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrConnectionNotFound)
}

func (r *postgresConnectionRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := executorOr(exec, r.db).ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrConnectionNotFound)
}

func (r *postgresConnectionRepository) ListAccepted(ctx context.Context, userID int) ([]models.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections c
		WHERE (c.requester_id = $1 OR c.addressee_id = $1) AND c.status = 'accepted'
		ORDER BY c.updated_at DESC`
	return r.queryConnections(ctx, query, userID)
}

func (r *postgresConnectionRepository) ListPendingIncoming(ctx context.Context, userID int) ([]models.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections c
		WHERE c.addressee_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC`
	return r.queryConnections(ctx, query, userID)
}

func (r *postgresConnectionRepository) ListPendingSent(ctx context.Context, userID int) ([]models.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections c
		WHERE c.requester_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC`
	return r.queryConnections(ctx, query, userID)
}

func (r *postgresConnectionRepository) queryConnections(ctx context.Context, query string, args ...interface{}) ([]models.Connection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	connections := make([]models.Connection, 0)
	for rows.Next() {
		c, scanErr := scanConnection(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		connections = append(connections, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return connections, nil
}

func (r *postgresConnectionRepository) CountPendingIncoming(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM connections WHERE addressee_id = $1 AND status = 'pending'`, userID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresConnectionRepository) CountAccepted(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM connections WHERE (requester_id = $1 OR addressee_id = $1) AND status = 'accepted'`, userID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
