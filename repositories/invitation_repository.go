package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/sportshive/models"
)

var (
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrInvitationConflict   = errors.New("pending invitation already exists")
	ErrInvitationRefInvalid = errors.New("invitation team or user reference invalid")
	ErrInvitationNotPending = errors.New("invitation is not pending")
)

type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByID(ctx context.Context, id int) (*models.Invitation, error)
	GetPendingForPair(ctx context.Context, teamID, userID int) (*models.Invitation, error)
	// UpdateStatus меняет статус только у pending-приглашения.
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.InvitationStatus, respondedAt time.Time) error
	ListPendingInvitesForUser(ctx context.Context, userID int, now time.Time) ([]models.Invitation, error)
	ListPendingRequestsForTeam(ctx context.Context, teamID int, now time.Time) ([]models.Invitation, error)
	// ListPendingInviteeIDs возвращает пользователей с действующими приглашениями от команды.
	ListPendingInviteeIDs(ctx context.Context, teamID int, now time.Time) ([]int, error)
	CountPendingInvitesForUser(ctx context.Context, userID int, now time.Time) (int, error)
	CountPendingRequestsForCaptain(ctx context.Context, captainID int, now time.Time) (int, error)
}

type postgresInvitationRepository struct {
	db *sql.DB
}

func NewPostgresInvitationRepository(db *sql.DB) InvitationRepository {
	return &postgresInvitationRepository{db: db}
}

const invitationColumns = `i.id, i.team_id, i.user_id, i.kind, i.status, i.message, i.created_by, i.created_at, i.expires_at, i.responded_at`

func scanInvitation(row rowScanner, extra ...interface{}) (*models.Invitation, error) {
	inv := &models.Invitation{}
	dest := []interface{}{
		&inv.ID, &inv.TeamID, &inv.UserID, &inv.Kind, &inv.Status, &inv.Message,
		&inv.CreatedBy, &inv.CreatedAt, &inv.ExpiresAt, &inv.RespondedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *postgresInvitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	query := `
		INSERT INTO invitations (team_id, user_id, kind, status, message, created_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		inv.TeamID, inv.UserID, inv.Kind, inv.Status, inv.Message, inv.CreatedBy, inv.ExpiresAt,
	).Scan(&inv.ID, &inv.CreatedAt)

	if err != nil {
		if code, _, ok := pqConstraintError(err); ok {
			switch code {
			case pqUniqueViolation:
				return ErrInvitationConflict
			case pqForeignKeyViolation:
				return ErrInvitationRefInvalid
			}
		}
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

func (r *postgresInvitationRepository) GetByID(ctx context.Context, id int) (*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations i WHERE i.id = $1`

	inv, err := scanInvitation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *postgresInvitationRepository) GetPendingForPair(ctx context.Context, teamID, userID int) (*models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		WHERE i.team_id = $1 AND i.user_id = $2 AND i.status = 'pending'`

	inv, err := scanInvitation(r.db.QueryRowContext(ctx, query, teamID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *postgresInvitationRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.InvitationStatus, respondedAt time.Time) error {
	query := `
		UPDATE invitations
		SET status = $1, responded_at = $2
		WHERE id = $3 AND status = 'pending'`

	result, err := executorOr(exec, r.db).ExecContext(ctx, query, status, respondedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInvitationNotPending)
}

// ListPendingInvitesForUser возвращает приглашения от команд, адресованные пользователю.
func (r *postgresInvitationRepository) ListPendingInvitesForUser(ctx context.Context, userID int, now time.Time) ([]models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `, t.id, t.name, t.sport, t.captain_id, t.logo_key
		FROM invitations i
		JOIN teams t ON t.id = i.team_id
		WHERE i.user_id = $1 AND i.kind = 'invite' AND i.status = 'pending' AND i.expires_at > $2
		ORDER BY i.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := make([]models.Invitation, 0)
	for rows.Next() {
		var team models.Team
		inv, scanErr := scanInvitation(rows, &team.ID, &team.Name, &team.Sport, &team.CaptainID, &team.LogoKey)
		if scanErr != nil {
			return nil, scanErr
		}
		inv.Team = &team
		invitations = append(invitations, *inv)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return invitations, nil
}

// ListPendingRequestsForTeam возвращает заявки игроков на вступление в команду.
func (r *postgresInvitationRepository) ListPendingRequestsForTeam(ctx context.Context, teamID int, now time.Time) ([]models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `,
			p.user_id, p.profile_type, p.display_name, p.username, p.location, p.sport, p.avatar_key
		FROM invitations i
		LEFT JOIN profiles p ON p.user_id = i.user_id
		WHERE i.team_id = $1 AND i.kind = 'request' AND i.status = 'pending' AND i.expires_at > $2
		ORDER BY i.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := make([]models.Invitation, 0)
	for rows.Next() {
		var (
			profileUser sql.NullInt64
			profileType sql.NullString
			displayName sql.NullString
			p           models.Profile
		)
		inv, scanErr := scanInvitation(rows,
			&profileUser, &profileType, &displayName, &p.Username, &p.Location, &p.Sport, &p.AvatarKey,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		if profileUser.Valid {
			p.UserID = int(profileUser.Int64)
			p.ProfileType = models.ProfileType(profileType.String)
			p.DisplayName = displayName.String
			inv.Profile = &p
		}
		invitations = append(invitations, *inv)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *postgresInvitationRepository) ListPendingInviteeIDs(ctx context.Context, teamID int, now time.Time) ([]int, error) {
	query := `
		SELECT DISTINCT user_id
		FROM invitations
		WHERE team_id = $1 AND kind = 'invite' AND status = 'pending' AND expires_at > $2
		ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query, teamID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postgresInvitationRepository) CountPendingInvitesForUser(ctx context.Context, userID int, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM invitations
		WHERE user_id = $1 AND kind = 'invite' AND status = 'pending' AND expires_at > $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresInvitationRepository) CountPendingRequestsForCaptain(ctx context.Context, captainID int, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM invitations i
		JOIN teams t ON t.id = i.team_id
		WHERE t.captain_id = $1 AND i.kind = 'request' AND i.status = 'pending' AND i.expires_at > $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, captainID, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
