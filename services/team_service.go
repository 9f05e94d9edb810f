package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
	"github.com/Dosada05/sportshive/storage"
)

type TeamService interface {
	CreateTeam(ctx context.Context, creatorID int, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, teamID int) (*models.Team, error)
	ListTeams(ctx context.Context, input ListTeamsInput) ([]models.Team, error)
	ListUserTeams(ctx context.Context, userID int) ([]models.Team, error)
	UpdateTeam(ctx context.Context, teamID, currentUserID int, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, teamID, currentUserID int) error
	UploadLogo(ctx context.Context, teamID, currentUserID int, file ImageUpload) (*models.Team, error)
	RemoveMember(ctx context.Context, teamID, memberUserID, currentUserID int) error
}

type CreateTeamInput struct {
	Name        string  `json:"name"`
	Sport       string  `json:"sport"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

type UpdateTeamInput struct {
	Name        *string `json:"name"`
	Sport       *string `json:"sport"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

type ListTeamsInput struct {
	Query  string
	Sport  string
	Limit  int
	Offset int
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	invitationRepo repositories.InvitationRepository
	transactor     repositories.Transactor
	notifier       Notifier
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	invitationRepo repositories.InvitationRepository,
	transactor repositories.Transactor,
	notifier Notifier,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		invitationRepo: invitationRepo,
		transactor:     transactor,
		notifier:       notifier,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, creatorID int, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:        name,
		Sport:       strings.TrimSpace(input.Sport),
		Description: trimmedPtr(input.Description),
		Location:    trimmedPtr(input.Location),
		CaptainID:   creatorID,
	}

	// Команда и капитан создаются вместе или не создаются вовсе.
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return err
		}
		captain := &models.TeamMember{
			TeamID: team.ID,
			UserID: creatorID,
			Role:   models.TeamRoleCaptain,
		}
		if err := s.teamRepo.AddMember(ctx, exec, captain); err != nil {
			return err
		}
		team.Members = []models.TeamMember{*captain}
		return nil
	})
	if err != nil {
		return nil, s.mapTeamError(err)
	}

	team.MemberCount = 1
	populateTeamDetails(team, s.uploader)
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, s.mapTeamError(err)
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", teamID, err)
	}
	team.Members = members
	team.MemberCount = len(members)

	populateTeamDetails(team, s.uploader)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, input ListTeamsInput) ([]models.Team, error) {
	filter := models.TeamFilter{
		Query: strings.TrimSpace(input.Query),
		Sport: strings.TrimSpace(input.Sport),
	}
	filter.Limit, filter.Offset = normalizePage(input.Limit, input.Offset)

	teams, err := s.teamRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		populateTeamDetails(&teams[i], s.uploader)
	}
	return teams, nil
}

func (s *teamService) ListUserTeams(ctx context.Context, userID int) ([]models.Team, error) {
	teams, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of user %d: %w", userID, err)
	}
	for i := range teams {
		populateTeamDetails(&teams[i], s.uploader)
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, teamID, currentUserID int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.getTeamAsCaptain(ctx, teamID, currentUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = name
	}
	if input.Sport != nil {
		team.Sport = strings.TrimSpace(*input.Sport)
	}
	if input.Description != nil {
		team.Description = trimmedPtr(input.Description)
	}
	if input.Location != nil {
		team.Location = trimmedPtr(input.Location)
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, s.mapTeamError(err)
	}

	populateTeamDetails(team, s.uploader)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, teamID, currentUserID int) error {
	team, err := s.getTeamAsCaptain(ctx, teamID, currentUserID)
	if err != nil {
		return err
	}

	// Приглашения и заявки удаляются каскадом, поэтому адресатов собираем заранее.
	affected := []int{team.CaptainID}
	invitees, err := s.invitationRepo.ListPendingInviteeIDs(ctx, teamID, time.Now())
	if err != nil {
		s.logger.WarnContext(ctx, "failed to list pending invitees before team delete", slog.Int("team_id", teamID), slog.Any("error", err))
	}
	affected = append(affected, invitees...)

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return s.mapTeamError(err)
	}

	deleteObjectQuietly(ctx, s.logger, s.uploader, team.LogoKey)
	if s.notifier != nil {
		s.notifier.NotifyCountsChanged(ctx, affected...)
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID, currentUserID int, file ImageUpload) (*models.Team, error) {
	team, err := s.getTeamAsCaptain(ctx, teamID, currentUserID)
	if err != nil {
		return nil, err
	}

	key, err := uploadImage(ctx, s.uploader, storage.FolderTeams, teamID, file)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &key); err != nil {
		deleteObjectQuietly(ctx, s.logger, s.uploader, &key)
		return nil, s.mapTeamError(err)
	}

	deleteObjectQuietly(ctx, s.logger, s.uploader, team.LogoKey)

	team.LogoKey = &key
	populateTeamDetails(team, s.uploader)
	return team, nil
}

// RemoveMember: капитан исключает участника, либо участник выходит сам.
func (s *teamService) RemoveMember(ctx context.Context, teamID, memberUserID, currentUserID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return s.mapTeamError(err)
	}

	if memberUserID == team.CaptainID {
		return ErrCannotRemoveCaptain
	}
	if currentUserID != team.CaptainID && currentUserID != memberUserID {
		return ErrCaptainActionForbidden
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, memberUserID); err != nil {
		return s.mapTeamError(err)
	}
	return nil
}

func (s *teamService) getTeamAsCaptain(ctx context.Context, teamID, currentUserID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, s.mapTeamError(err)
	}
	if team.CaptainID != currentUserID {
		return nil, ErrCaptainActionForbidden
	}
	return team, nil
}

func (s *teamService) mapTeamError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamCaptainInvalid), errors.Is(err, repositories.ErrTeamMemberRefInvalid):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrTeamMemberNotFound):
		return ErrTeamMemberNotFound
	case errors.Is(err, repositories.ErrTeamMemberConflict):
		return ErrAlreadyTeamMember
	default:
		return fmt.Errorf("team operation failed: %w", err)
	}
}
