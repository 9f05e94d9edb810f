package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/sportshive/brackets"
	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
	"github.com/Dosada05/sportshive/storage"
)

type TournamentService interface {
	ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	UpdateTournament(ctx context.Context, id, currentUserID int, input UpdateTournamentInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id, currentUserID int) error
	UploadLogo(ctx context.Context, id, currentUserID int, file ImageUpload) (*models.Tournament, error)
	RegisterTeam(ctx context.Context, tournamentID, currentUserID int, input RegisterTeamInput) (*models.Registration, error)
	ListRegistrations(ctx context.Context, tournamentID int) ([]models.Registration, error)
	PreviewBracket(ctx context.Context, tournamentID int) (*models.BracketPreview, error)
	RefreshStatuses(ctx context.Context) (int, error)
}

type ListTournamentsInput struct {
	Sport    string
	Status   string
	Location string
	Query    string
	Limit    int
	Offset   int
}

type CreateTournamentInput struct {
	Name                 string                  `json:"name"`
	Description          *string                 `json:"description"`
	Sport                string                  `json:"sport"`
	Location             *string                 `json:"location"`
	Format               models.TournamentFormat `json:"format"`
	StartDate            time.Time               `json:"start_date"`
	EndDate              time.Time               `json:"end_date"`
	RegistrationDeadline *time.Time              `json:"registration_deadline"`
	MaxTeams             int                     `json:"max_teams"`
	EntryFee             float64                 `json:"entry_fee"`
	PrizePool            float64                 `json:"prize_pool"`
}

type UpdateTournamentInput struct {
	Name                 *string                  `json:"name"`
	Description          *string                  `json:"description"`
	Sport                *string                  `json:"sport"`
	Location             *string                  `json:"location"`
	Format               *models.TournamentFormat `json:"format"`
	StartDate            *time.Time               `json:"start_date"`
	EndDate              *time.Time               `json:"end_date"`
	RegistrationDeadline *time.Time               `json:"registration_deadline"`
	MaxTeams             *int                     `json:"max_teams"`
	EntryFee             *float64                 `json:"entry_fee"`
	PrizePool            *float64                 `json:"prize_pool"`
	Status               *models.TournamentStatus `json:"status"`
}

type RegisterTeamInput struct {
	TeamID int `json:"team_id"`
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	transactor     repositories.Transactor
	uploader       storage.FileUploader
	logger         *slog.Logger
	now            func() time.Time
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	transactor repositories.Transactor,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		transactor:     transactor,
		uploader:       uploader,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *tournamentService) ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error) {
	filter := models.TournamentFilter{
		Sport:    strings.TrimSpace(input.Sport),
		Location: strings.TrimSpace(input.Location),
		Query:    strings.TrimSpace(input.Query),
	}
	filter.Limit, filter.Offset = normalizePage(input.Limit, input.Offset)

	if st := strings.TrimSpace(input.Status); st != "" {
		status := models.TournamentStatus(strings.ToLower(st))
		if !status.Valid() {
			return nil, ErrTournamentInvalidStatus
		}
		filter.Status = &status
	}

	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		populateTournamentDetails(&tournaments[i], s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	populateTournamentDetails(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	format := input.Format
	if format == "" {
		format = models.FormatSingleElimination
	}

	tournament := &models.Tournament{
		Name:                 strings.TrimSpace(input.Name),
		Description:          trimmedPtr(input.Description),
		Sport:                strings.TrimSpace(input.Sport),
		Location:             trimmedPtr(input.Location),
		Format:               format,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		RegistrationDeadline: input.RegistrationDeadline,
		MaxTeams:             input.MaxTeams,
		EntryFee:             input.EntryFee,
		PrizePool:            input.PrizePool,
		OrganizerID:          organizerID,
	}
	if err := validateTournament(tournament); err != nil {
		return nil, err
	}
	tournament.Status = statusFromDates(tournament, s.now())

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, s.mapTournamentError(err)
	}

	populateTournamentDetails(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id, currentUserID int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.getOwnedTournament(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		tournament.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		tournament.Description = trimmedPtr(input.Description)
	}
	if input.Sport != nil {
		tournament.Sport = strings.TrimSpace(*input.Sport)
	}
	if input.Location != nil {
		tournament.Location = trimmedPtr(input.Location)
	}
	if input.Format != nil {
		tournament.Format = *input.Format
	}
	if input.StartDate != nil {
		tournament.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		tournament.EndDate = *input.EndDate
	}
	if input.RegistrationDeadline != nil {
		tournament.RegistrationDeadline = input.RegistrationDeadline
	}
	if input.MaxTeams != nil {
		tournament.MaxTeams = *input.MaxTeams
	}
	if input.EntryFee != nil {
		tournament.EntryFee = *input.EntryFee
	}
	if input.PrizePool != nil {
		tournament.PrizePool = *input.PrizePool
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrTournamentInvalidStatus
		}
		if !isValidStatusTransition(tournament.Status, *input.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrTournamentStatusChange, tournament.Status, *input.Status)
		}
		tournament.Status = *input.Status
	}

	if err := validateTournament(tournament); err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, s.mapTournamentError(err)
	}

	populateTournamentDetails(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id, currentUserID int) error {
	tournament, err := s.getOwnedTournament(ctx, id, currentUserID)
	if err != nil {
		return err
	}
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return s.mapTournamentError(err)
	}
	deleteObjectQuietly(ctx, s.logger, s.uploader, tournament.LogoKey)
	return nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, id, currentUserID int, file ImageUpload) (*models.Tournament, error) {
	tournament, err := s.getOwnedTournament(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	key, err := uploadImage(ctx, s.uploader, storage.FolderTournaments, id, file)
	if err != nil {
		return nil, err
	}
	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		deleteObjectQuietly(ctx, s.logger, s.uploader, &key)
		return nil, s.mapTournamentError(err)
	}
	deleteObjectQuietly(ctx, s.logger, s.uploader, tournament.LogoKey)

	tournament.LogoKey = &key
	populateTournamentDetails(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) RegisterTeam(ctx context.Context, tournamentID, currentUserID int, input RegisterTeamInput) (*models.Registration, error) {
	if input.TeamID <= 0 {
		return nil, fmt.Errorf("%w: team_id is required", ErrValidationFailed)
	}

	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", input.TeamID, err)
	}
	if team.CaptainID != currentUserID {
		return nil, ErrCaptainActionForbidden
	}

	if !registrationOpen(tournament, s.now()) {
		return nil, ErrRegistrationNotOpen
	}

	registration := &models.Registration{
		TournamentID: tournamentID,
		TeamID:       team.ID,
		Status:       models.RegistrationPending,
	}
	// Строка турнира блокируется, чтобы параллельные заявки не превысили max_teams.
	err = s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.tournamentRepo.LockForRegistration(ctx, exec, tournamentID); err != nil {
			return err
		}
		count, err := s.tournamentRepo.CountRegistrations(ctx, exec, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if count >= tournament.MaxTeams {
			return ErrTournamentFull
		}
		return s.tournamentRepo.CreateRegistration(ctx, exec, registration)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTournamentFull):
			return nil, ErrTournamentFull
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrRegistrationConflict):
			return nil, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrRegistrationRefInvalid):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	populateTeamDetails(team, s.uploader)
	registration.Team = team
	return registration, nil
}

func (s *tournamentService) ListRegistrations(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	registrations, err := s.tournamentRepo.ListRegistrations(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	for i := range registrations {
		populateTeamDetails(registrations[i].Team, s.uploader)
	}
	return registrations, nil
}

// PreviewBracket строит сетку по заявкам, которые не были отклонены.
// Порядок подачи заявок задаёт посев.
func (s *tournamentService) PreviewBracket(ctx context.Context, tournamentID int) (*models.BracketPreview, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	generator, err := brackets.ForFormat(tournament.Format)
	if err != nil {
		return nil, ErrBracketUnsupportedFormat
	}

	registrations, err := s.tournamentRepo.ListRegistrations(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	teamIDs := make([]int, 0, len(registrations))
	teams := make([]models.Team, 0, len(registrations))
	for _, reg := range registrations {
		if reg.Status == models.RegistrationRejected {
			continue
		}
		teamIDs = append(teamIDs, reg.TeamID)
		if reg.Team != nil {
			populateTeamDetails(reg.Team, s.uploader)
			teams = append(teams, *reg.Team)
		}
	}

	fixtures, err := generator.Generate(teamIDs)
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughTeams) {
			return nil, ErrBracketNotEnoughTeams
		}
		return nil, fmt.Errorf("failed to generate %s bracket: %w", generator.Name(), err)
	}

	return &models.BracketPreview{
		TournamentID: tournament.ID,
		Format:       tournament.Format,
		Generator:    generator.Name(),
		Rounds:       brackets.RoundCount(fixtures),
		Teams:        teams,
		Fixtures:     fixtures,
	}, nil
}

// RefreshStatuses двигает статусы незавершённых турниров вперёд по датам.
func (s *tournamentService) RefreshStatuses(ctx context.Context) (int, error) {
	tournaments, err := s.tournamentRepo.ListNonFinal(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active tournaments: %w", err)
	}

	now := s.now()
	updated := 0
	for i := range tournaments {
		t := &tournaments[i]
		next := statusFromDates(t, now)
		if statusRank(next) <= statusRank(t.Status) {
			continue
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, next); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				continue
			}
			return updated, fmt.Errorf("failed to update status of tournament %d: %w", t.ID, err)
		}
		s.logger.DebugContext(ctx, "tournament status refreshed",
			slog.Int("tournament_id", t.ID),
			slog.String("from", string(t.Status)),
			slog.String("to", string(next)),
		)
		updated++
	}
	return updated, nil
}

func (s *tournamentService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) getOwnedTournament(ctx context.Context, id, currentUserID int) (*models.Tournament, error) {
	tournament, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.OrganizerID != currentUserID {
		return nil, ErrOrganizerOnly
	}
	return tournament, nil
}

func (s *tournamentService) mapTournamentError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentOrgInvalid):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrTournamentCheckViolation):
		return ErrValidationFailed
	default:
		return fmt.Errorf("tournament operation failed: %w", err)
	}
}

func validateTournament(t *models.Tournament) error {
	if t.Name == "" {
		return ErrTournamentNameRequired
	}
	if t.Sport == "" {
		return ErrTournamentSportRequired
	}
	if !t.Format.Valid() {
		return ErrTournamentInvalidFormat
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return ErrTournamentDatesRequired
	}
	if !t.StartDate.Before(t.EndDate) {
		return fmt.Errorf("%w: start date (%s) must be before end date (%s)", ErrTournamentInvalidDates, t.StartDate.Format(time.RFC3339), t.EndDate.Format(time.RFC3339))
	}
	if t.RegistrationDeadline != nil && t.RegistrationDeadline.After(t.StartDate) {
		return fmt.Errorf("%w: registration deadline (%s) is after start date (%s)", ErrTournamentInvalidRegDate, t.RegistrationDeadline.Format(time.RFC3339), t.StartDate.Format(time.RFC3339))
	}
	if t.MaxTeams <= 0 {
		return ErrTournamentInvalidTeams
	}
	if t.EntryFee < 0 || t.PrizePool < 0 {
		return ErrTournamentInvalidMoney
	}
	return nil
}

// statusFromDates: до старта идёт регистрация (или upcoming, если дедлайн прошёл), потом ongoing и completed.
func statusFromDates(t *models.Tournament, now time.Time) models.TournamentStatus {
	switch {
	case !now.Before(t.EndDate):
		return models.TournamentCompleted
	case !now.Before(t.StartDate):
		return models.TournamentOngoing
	case t.RegistrationDeadline != nil && !now.Before(*t.RegistrationDeadline):
		return models.TournamentUpcoming
	default:
		return models.TournamentRegistration
	}
}

func statusRank(s models.TournamentStatus) int {
	switch s {
	case models.TournamentUpcoming:
		return 0
	case models.TournamentRegistration:
		return 1
	case models.TournamentOngoing:
		return 2
	case models.TournamentCompleted:
		return 3
	default:
		return 4
	}
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.TournamentUpcoming:     {models.TournamentRegistration, models.TournamentCancelled},
		models.TournamentRegistration: {models.TournamentOngoing, models.TournamentCancelled},
		models.TournamentOngoing:      {models.TournamentCompleted, models.TournamentCancelled},
		models.TournamentCompleted:    {},
		models.TournamentCancelled:    {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func registrationOpen(t *models.Tournament, now time.Time) bool {
	if t.Status != models.TournamentUpcoming && t.Status != models.TournamentRegistration {
		return false
	}
	if t.RegistrationDeadline != nil && !now.Before(*t.RegistrationDeadline) {
		return false
	}
	return now.Before(t.StartDate)
}
