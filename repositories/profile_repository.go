package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/sportshive/models"
	"github.com/lib/pq"
)

var (
	ErrProfileNotFound         = errors.New("profile not found")
	ErrProfileUsernameConflict = errors.New("profile username conflict")
	ErrProfileUserInvalid      = errors.New("profile user reference invalid")
)

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID int) (*models.Profile, error)
	ListByUserIDs(ctx context.Context, userIDs []int) ([]models.Profile, error)
	Search(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, error)
	UpdateAvatarKey(ctx context.Context, userID int, avatarKey *string) error
}

const profileColumns = `
	p.user_id, p.profile_type, p.display_name, p.username, p.bio, p.location, p.sport,
	p.position, p.skill_level, p.organization, p.website, p.avatar_key, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner, extra ...interface{}) (*models.Profile, error) {
	p := &models.Profile{}
	dest := []interface{}{
		&p.UserID, &p.ProfileType, &p.DisplayName, &p.Username, &p.Bio, &p.Location, &p.Sport,
		&p.Position, &p.SkillLevel, &p.Organization, &p.Website, &p.AvatarKey, &p.CreatedAt, &p.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return p, nil
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (
			user_id, profile_type, display_name, username, bio, location, sport,
			position, skill_level, organization, website
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			profile_type = EXCLUDED.profile_type,
			display_name = EXCLUDED.display_name,
			username = EXCLUDED.username,
			bio = EXCLUDED.bio,
			location = EXCLUDED.location,
			sport = EXCLUDED.sport,
			position = EXCLUDED.position,
			skill_level = EXCLUDED.skill_level,
			organization = EXCLUDED.organization,
			website = EXCLUDED.website,
			updated_at = NOW()
		RETURNING avatar_key, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.ProfileType, p.DisplayName, p.Username, p.Bio, p.Location, p.Sport,
		p.Position, p.SkillLevel, p.Organization, p.Website,
	).Scan(&p.AvatarKey, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if code, constraint, ok := pqConstraintError(err); ok {
			switch {
			case code == pqUniqueViolation && constraint == "profiles_username_key":
				return ErrProfileUsernameConflict
			case code == pqForeignKeyViolation:
				return ErrProfileUserInvalid
			}
		}
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *postgresProfileRepository) GetByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.user_id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresProfileRepository) ListByUserIDs(ctx context.Context, userIDs []int) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	ids := make([]int64, len(userIDs))
	for i, id := range userIDs {
		ids[i] = int64(id)
	}

	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.user_id = ANY($1) ORDER BY p.display_name`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, scanErr := scanProfile(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		profiles = append(profiles, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *postgresProfileRepository) Search(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if q := strings.TrimSpace(filter.Query); q != "" {
		query += fmt.Sprintf(" AND (p.display_name ILIKE $%d OR p.username ILIKE $%d)", argID, argID)
		args = append(args, likePattern(q))
		argID++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND p.profile_type = $%d", argID)
		args = append(args, *filter.Type)
		argID++
	}
	if s := strings.TrimSpace(filter.Sport); s != "" {
		query += fmt.Sprintf(" AND LOWER(p.sport) = LOWER($%d)", argID)
		args = append(args, s)
		argID++
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		query += fmt.Sprintf(" AND p.location ILIKE $%d", argID)
		args = append(args, likePattern(l))
		argID++
	}
	if filter.ExcludeUser > 0 {
		query += fmt.Sprintf(" AND p.user_id <> $%d", argID)
		args = append(args, filter.ExcludeUser)
		argID++
	}

	query += fmt.Sprintf(" ORDER BY p.display_name ASC, p.user_id ASC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, normalizeLimit(filter.Limit), max(filter.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		p, scanErr := scanProfile(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		profiles = append(profiles, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *postgresProfileRepository) UpdateAvatarKey(ctx context.Context, userID int, avatarKey *string) error {
	query := `UPDATE profiles SET avatar_key = $1, updated_at = NOW() WHERE user_id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}
