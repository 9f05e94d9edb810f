package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/sportshive/models"
)

var (
	ErrTeamNotFound         = errors.New("team not found")
	ErrTeamNameConflict     = errors.New("team name conflict")
	ErrTeamCaptainInvalid   = errors.New("team captain reference invalid")
	ErrTeamMemberNotFound   = errors.New("team member not found")
	ErrTeamMemberConflict   = errors.New("user is already a team member")
	ErrTeamMemberRefInvalid = errors.New("team member reference invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, filter models.TeamFilter) ([]models.Team, error)
	ListByUser(ctx context.Context, userID int) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
	UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error

	AddMember(ctx context.Context, exec SQLExecutor, member *models.TeamMember) error
	GetMember(ctx context.Context, teamID, userID int) (*models.TeamMember, error)
	ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `t.id, t.name, t.sport, t.description, t.location, t.captain_id, t.logo_key, t.created_at`

func scanTeam(row rowScanner, extra ...interface{}) (*models.Team, error) {
	t := &models.Team{}
	dest := []interface{}{&t.ID, &t.Name, &t.Sport, &t.Description, &t.Location, &t.CaptainID, &t.LogoKey, &t.CreatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (name, sport, description, location, captain_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executorOr(exec, r.db).QueryRowContext(ctx, query,
		team.Name, team.Sport, team.Description, team.Location, team.CaptainID,
	).Scan(&team.ID, &team.CreatedAt)

	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `,
			(SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id)
		FROM teams t
		WHERE t.id = $1`

	var memberCount int
	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id), &memberCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	team.MemberCount = memberCount
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, filter models.TeamFilter) ([]models.Team, error) {
	query := `
		SELECT ` + teamColumns + `,
			(SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id)
		FROM teams t
		WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if q := strings.TrimSpace(filter.Query); q != "" {
		query += fmt.Sprintf(" AND t.name ILIKE $%d", argID)
		args = append(args, likePattern(q))
		argID++
	}
	if s := strings.TrimSpace(filter.Sport); s != "" {
		query += fmt.Sprintf(" AND LOWER(t.sport) = LOWER($%d)", argID)
		args = append(args, s)
		argID++
	}

	query += fmt.Sprintf(" ORDER BY t.name ASC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, normalizeLimit(filter.Limit), max(filter.Offset, 0))

	return r.queryTeams(ctx, query, args...)
}

func (r *postgresTeamRepository) ListByUser(ctx context.Context, userID int) ([]models.Team, error) {
	query := `
		SELECT ` + teamColumns + `,
			(SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id)
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY tm.joined_at DESC`

	return r.queryTeams(ctx, query, userID)
}

func (r *postgresTeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var memberCount int
		team, scanErr := scanTeam(rows, &memberCount)
		if scanErr != nil {
			return nil, scanErr
		}
		team.MemberCount = memberCount
		teams = append(teams, *team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			sport = $2,
			description = $3,
			location = $4,
			captain_id = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		team.Name, team.Sport, team.Description, team.Location, team.CaptainID, team.ID,
	)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, exec SQLExecutor, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at`

	err := executorOr(exec, r.db).QueryRowContext(ctx, query, member.TeamID, member.UserID, member.Role).
		Scan(&member.JoinedAt)
	if err != nil {
		if code, _, ok := pqConstraintError(err); ok {
			switch code {
			case pqUniqueViolation:
				return ErrTeamMemberConflict
			case pqForeignKeyViolation:
				return ErrTeamMemberRefInvalid
			}
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetMember(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
	query := `
		SELECT team_id, user_id, role, joined_at
		FROM team_members
		WHERE team_id = $1 AND user_id = $2`

	m := &models.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(&m.TeamID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListMembers возвращает участников вместе с профилями (LEFT JOIN: профиль может отсутствовать).
func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	query := `
		SELECT m.team_id, m.user_id, m.role, m.joined_at,
			p.user_id, p.profile_type, p.display_name, p.username, p.location, p.sport, p.avatar_key
		FROM team_members m
		LEFT JOIN profiles p ON p.user_id = m.user_id
		WHERE m.team_id = $1
		ORDER BY (m.role = 'captain') DESC, m.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var (
			m           models.TeamMember
			profileUser sql.NullInt64
			profileType sql.NullString
			displayName sql.NullString
			p           models.Profile
		)
		if scanErr := rows.Scan(
			&m.TeamID, &m.UserID, &m.Role, &m.JoinedAt,
			&profileUser, &profileType, &displayName, &p.Username, &p.Location, &p.Sport, &p.AvatarKey,
		); scanErr != nil {
			return nil, scanErr
		}
		if profileUser.Valid {
			p.UserID = int(profileUser.Int64)
			p.ProfileType = models.ProfileType(profileType.String)
			p.DisplayName = displayName.String
			m.Profile = &p
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *postgresTeamRepository) RemoveMember(ctx context.Context, teamID, userID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamMemberNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqConstraintError(err); ok {
		switch {
		case code == pqUniqueViolation && constraint == "teams_name_key":
			return ErrTeamNameConflict
		case code == pqForeignKeyViolation:
			return ErrTeamCaptainInvalid
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTeamNotFound
	}
	return err
}
