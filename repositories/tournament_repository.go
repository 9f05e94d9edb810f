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
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrTournamentOrgInvalid     = errors.New("invalid organizer reference")
	ErrTournamentCheckViolation = errors.New("tournament violates schema checks")
	ErrRegistrationConflict     = errors.New("team is already registered for this tournament")
	ErrRegistrationRefInvalid   = errors.New("invalid tournament or team reference")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter models.TournamentFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	Delete(ctx context.Context, id int) error
	UpdateLogoKey(ctx context.Context, tournamentID int, logoKey *string) error
	ListNonFinal(ctx context.Context) ([]models.Tournament, error)

	// LockForRegistration блокирует строку турнира до конца транзакции exec.
	LockForRegistration(ctx context.Context, exec SQLExecutor, tournamentID int) error
	CreateRegistration(ctx context.Context, exec SQLExecutor, registration *models.Registration) error
	CountRegistrations(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	ListRegistrations(ctx context.Context, tournamentID int) ([]models.Registration, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `
	t.id, t.name, t.description, t.sport, t.location, t.format, t.start_date, t.end_date,
	t.registration_deadline, t.max_teams, t.entry_fee, t.prize_pool, t.status, t.organizer_id,
	t.created_at, t.logo_key`

func scanTournament(row rowScanner, extra ...interface{}) (*models.Tournament, error) {
	t := &models.Tournament{}
	dest := []interface{}{
		&t.ID, &t.Name, &t.Description, &t.Sport, &t.Location, &t.Format, &t.StartDate, &t.EndDate,
		&t.RegistrationDeadline, &t.MaxTeams, &t.EntryFee, &t.PrizePool, &t.Status, &t.OrganizerID,
		&t.CreatedAt, &t.LogoKey,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, description, sport, location, format, start_date, end_date,
			registration_deadline, max_teams, entry_fee, prize_pool, status, organizer_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.Sport, t.Location, t.Format, t.StartDate, t.EndDate,
		t.RegistrationDeadline, t.MaxTeams, t.EntryFee, t.PrizePool, t.Status, t.OrganizerID,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `,
			(SELECT COUNT(*) FROM registrations reg WHERE reg.tournament_id = t.id AND reg.status <> 'rejected')
		FROM tournaments t
		WHERE t.id = $1`

	var registrations int
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id), &registrations)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	t.RegistrationCount = registrations
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter models.TournamentFilter) ([]models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `,
			(SELECT COUNT(*) FROM registrations reg WHERE reg.tournament_id = t.id AND reg.status <> 'rejected')
		FROM tournaments t
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if s := strings.TrimSpace(filter.Sport); s != "" {
		query += fmt.Sprintf(" AND LOWER(t.sport) = LOWER($%d)", argID)
		args = append(args, s)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		query += fmt.Sprintf(" AND t.location ILIKE $%d", argID)
		args = append(args, likePattern(l))
		argID++
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query += fmt.Sprintf(" AND (t.name ILIKE $%d OR t.description ILIKE $%d)", argID, argID)
		args = append(args, likePattern(q))
		argID++
	}

	query += fmt.Sprintf(" ORDER BY t.start_date ASC, t.id ASC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, normalizeLimit(filter.Limit), max(filter.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var registrations int
		t, scanErr := scanTournament(rows, &registrations)
		if scanErr != nil {
			return nil, scanErr
		}
		t.RegistrationCount = registrations
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			description = $2,
			sport = $3,
			location = $4,
			format = $5,
			start_date = $6,
			end_date = $7,
			registration_deadline = $8,
			max_teams = $9,
			entry_fee = $10,
			prize_pool = $11,
			status = $12
		WHERE id = $13`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.Sport, t.Location, t.Format, t.StartDate, t.EndDate,
		t.RegistrationDeadline, t.MaxTeams, t.EntryFee, t.PrizePool, t.Status,
		t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	result, err := executorOr(exec, r.db).ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, tournamentID int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET logo_key = $1 WHERE id = $2`, logoKey, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// ListNonFinal возвращает турниры, статус которых ещё может меняться по датам.
func (r *postgresTournamentRepository) ListNonFinal(ctx context.Context) ([]models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments t
		WHERE t.status NOT IN ('completed', 'cancelled')
		ORDER BY t.start_date ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) LockForRegistration(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	var id int
	err := executorOr(exec, r.db).QueryRowContext(ctx, `SELECT id FROM tournaments WHERE id = $1 FOR UPDATE`, tournamentID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to lock tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresTournamentRepository) CreateRegistration(ctx context.Context, exec SQLExecutor, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (tournament_id, team_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executorOr(exec, r.db).QueryRowContext(ctx, query, reg.TournamentID, reg.TeamID, reg.Status).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		if code, _, ok := pqConstraintError(err); ok {
			switch code {
			case pqUniqueViolation:
				return ErrRegistrationConflict
			case pqForeignKeyViolation:
				return ErrRegistrationRefInvalid
			}
		}
		return fmt.Errorf("failed to insert registration: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) CountRegistrations(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE tournament_id = $1 AND status <> 'rejected'`

	var count int
	if err := executorOr(exec, r.db).QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresTournamentRepository) ListRegistrations(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	query := `
		SELECT reg.id, reg.tournament_id, reg.team_id, reg.status, reg.created_at,
			t.id, t.name, t.sport, t.captain_id, t.logo_key
		FROM registrations reg
		JOIN teams t ON t.id = reg.team_id
		WHERE reg.tournament_id = $1
		ORDER BY reg.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var (
			reg  models.Registration
			team models.Team
		)
		if scanErr := rows.Scan(
			&reg.ID, &reg.TournamentID, &reg.TeamID, &reg.Status, &reg.CreatedAt,
			&team.ID, &team.Name, &team.Sport, &team.CaptainID, &team.LogoKey,
		); scanErr != nil {
			return nil, scanErr
		}
		reg.Team = &team
		registrations = append(registrations, reg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if code, _, ok := pqConstraintError(err); ok {
		switch code {
		case pqForeignKeyViolation:
			return ErrTournamentOrgInvalid
		case pqCheckViolation:
			return ErrTournamentCheckViolation
		}
	}
	return err
}
