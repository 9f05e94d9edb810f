package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
	"github.com/Dosada05/sportshive/storage"
)

// InvitationTTL: срок жизни приглашения или заявки.
const InvitationTTL = 7 * 24 * time.Hour

type InvitationService interface {
	InviteUser(ctx context.Context, teamID, captainID int, input InviteInput) (*models.Invitation, error)
	RequestToJoin(ctx context.Context, teamID, userID int, input JoinRequestInput) (*models.Invitation, error)
	ListUserInvitations(ctx context.Context, userID int) ([]models.Invitation, error)
	ListJoinRequests(ctx context.Context, teamID, captainID int) ([]models.Invitation, error)
	AcceptInvitation(ctx context.Context, invitationID, currentUserID int) (*models.Invitation, error)
	DeclineInvitation(ctx context.Context, invitationID, currentUserID int) (*models.Invitation, error)
	CancelInvitation(ctx context.Context, invitationID, currentUserID int) error
}

type InviteInput struct {
	UserID  int     `json:"user_id"`
	Message *string `json:"message"`
}

type JoinRequestInput struct {
	Message *string `json:"message"`
}

type invitationService struct {
	invitationRepo repositories.InvitationRepository
	teamRepo       repositories.TeamRepository
	profileRepo    repositories.ProfileRepository
	transactor     repositories.Transactor
	notifier       Notifier
	uploader       storage.FileUploader
	now            func() time.Time
}

func NewInvitationService(
	invitationRepo repositories.InvitationRepository,
	teamRepo repositories.TeamRepository,
	profileRepo repositories.ProfileRepository,
	transactor repositories.Transactor,
	notifier Notifier,
	uploader storage.FileUploader,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		teamRepo:       teamRepo,
		profileRepo:    profileRepo,
		transactor:     transactor,
		notifier:       notifier,
		uploader:       uploader,
		now:            time.Now,
	}
}

func (s *invitationService) InviteUser(ctx context.Context, teamID, captainID int, input InviteInput) (*models.Invitation, error) {
	if input.UserID <= 0 {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidationFailed)
	}

	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.CaptainID != captainID {
		return nil, ErrCaptainActionForbidden
	}

	if _, err := s.profileRepo.GetByUserID(ctx, input.UserID); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get invitee profile: %w", err)
	}

	inv, err := s.create(ctx, team, input.UserID, captainID, models.InvitationInvite, input.Message)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, input.UserID)
	return inv, nil
}

func (s *invitationService) RequestToJoin(ctx context.Context, teamID, userID int, input JoinRequestInput) (*models.Invitation, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if _, err := s.profileRepo.GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get requester profile: %w", err)
	}

	inv, err := s.create(ctx, team, userID, userID, models.InvitationRequest, input.Message)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, team.CaptainID)
	return inv, nil
}

// create проверяет членство и дубликаты; просроченная ожидающая запись для пары отменяется.
func (s *invitationService) create(ctx context.Context, team *models.Team, userID, createdBy int, kind models.InvitationKind, message *string) (*models.Invitation, error) {
	_, err := s.teamRepo.GetMember(ctx, team.ID, userID)
	if err == nil {
		return nil, ErrAlreadyTeamMember
	}
	if !errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return nil, fmt.Errorf("failed to check team membership: %w", err)
	}

	now := s.now()

	existing, err := s.invitationRepo.GetPendingForPair(ctx, team.ID, userID)
	switch {
	case err == nil:
		if !existing.Expired(now) {
			return nil, ErrInvitationConflict
		}
		err = s.invitationRepo.UpdateStatus(ctx, nil, existing.ID, models.InvitationCancelled, now)
		if err != nil && !errors.Is(err, repositories.ErrInvitationNotPending) {
			return nil, fmt.Errorf("failed to cancel expired invitation %d: %w", existing.ID, err)
		}
	case !errors.Is(err, repositories.ErrInvitationNotFound):
		return nil, fmt.Errorf("failed to check pending invitations: %w", err)
	}

	inv := &models.Invitation{
		TeamID:    team.ID,
		UserID:    userID,
		Kind:      kind,
		Status:    models.InvitationPending,
		Message:   trimmedPtr(message),
		CreatedBy: createdBy,
		ExpiresAt: now.Add(InvitationTTL),
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		switch {
		case errors.Is(err, repositories.ErrInvitationConflict):
			return nil, ErrInvitationConflict
		case errors.Is(err, repositories.ErrInvitationRefInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	populateTeamDetails(team, s.uploader)
	inv.Team = team
	return inv, nil
}

func (s *invitationService) ListUserInvitations(ctx context.Context, userID int) ([]models.Invitation, error) {
	invitations, err := s.invitationRepo.ListPendingInvitesForUser(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations for user %d: %w", userID, err)
	}
	for i := range invitations {
		populateTeamDetails(invitations[i].Team, s.uploader)
	}
	return invitations, nil
}

func (s *invitationService) ListJoinRequests(ctx context.Context, teamID, captainID int) ([]models.Invitation, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.CaptainID != captainID {
		return nil, ErrCaptainActionForbidden
	}

	requests, err := s.invitationRepo.ListPendingRequestsForTeam(ctx, teamID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests for team %d: %w", teamID, err)
	}
	for i := range requests {
		populateProfileDetails(requests[i].Profile, s.uploader)
	}
	return requests, nil
}

func (s *invitationService) AcceptInvitation(ctx context.Context, invitationID, currentUserID int) (*models.Invitation, error) {
	inv, team, err := s.loadForResponse(ctx, invitationID, currentUserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.invitationRepo.UpdateStatus(ctx, exec, inv.ID, models.InvitationAccepted, now); err != nil {
			return err
		}
		return s.teamRepo.AddMember(ctx, exec, &models.TeamMember{
			TeamID: inv.TeamID,
			UserID: inv.UserID,
			Role:   models.TeamRoleMember,
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrInvitationNotPending):
			return nil, ErrInvitationNotPending
		case errors.Is(err, repositories.ErrTeamMemberConflict):
			return nil, ErrAlreadyTeamMember
		case errors.Is(err, repositories.ErrTeamMemberRefInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to accept invitation %d: %w", inv.ID, err)
	}

	inv.Status = models.InvitationAccepted
	inv.RespondedAt = &now
	inv.Team = team

	s.notify(ctx, inv.UserID, team.CaptainID)
	return inv, nil
}

func (s *invitationService) DeclineInvitation(ctx context.Context, invitationID, currentUserID int) (*models.Invitation, error) {
	inv, team, err := s.loadForResponse(ctx, invitationID, currentUserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.invitationRepo.UpdateStatus(ctx, nil, inv.ID, models.InvitationDeclined, now); err != nil {
		if errors.Is(err, repositories.ErrInvitationNotPending) {
			return nil, ErrInvitationNotPending
		}
		return nil, fmt.Errorf("failed to decline invitation %d: %w", inv.ID, err)
	}

	inv.Status = models.InvitationDeclined
	inv.RespondedAt = &now
	inv.Team = team

	s.notify(ctx, inv.UserID, team.CaptainID)
	return inv, nil
}

func (s *invitationService) CancelInvitation(ctx context.Context, invitationID, currentUserID int) error {
	inv, err := s.getInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.CreatedBy != currentUserID {
		return ErrForbiddenOperation
	}
	if inv.Status != models.InvitationPending {
		return ErrInvitationNotPending
	}

	if err := s.invitationRepo.UpdateStatus(ctx, nil, inv.ID, models.InvitationCancelled, s.now()); err != nil {
		if errors.Is(err, repositories.ErrInvitationNotPending) {
			return ErrInvitationNotPending
		}
		return fmt.Errorf("failed to cancel invitation %d: %w", inv.ID, err)
	}

	if inv.Kind == models.InvitationInvite {
		s.notify(ctx, inv.UserID)
	} else if team, err := s.teamRepo.GetByID(ctx, inv.TeamID); err == nil {
		s.notify(ctx, team.CaptainID)
	}
	return nil
}

// loadForResponse: приглашение принимает приглашённый, заявку принимает капитан команды.
func (s *invitationService) loadForResponse(ctx context.Context, invitationID, currentUserID int) (*models.Invitation, *models.Team, error) {
	inv, err := s.getInvitation(ctx, invitationID)
	if err != nil {
		return nil, nil, err
	}
	team, err := s.getTeam(ctx, inv.TeamID)
	if err != nil {
		return nil, nil, err
	}

	switch inv.Kind {
	case models.InvitationInvite:
		if inv.UserID != currentUserID {
			return nil, nil, ErrForbiddenOperation
		}
	case models.InvitationRequest:
		if team.CaptainID != currentUserID {
			return nil, nil, ErrCaptainActionForbidden
		}
	default:
		return nil, nil, fmt.Errorf("unknown invitation kind %q", inv.Kind)
	}

	if inv.Status != models.InvitationPending {
		return nil, nil, ErrInvitationNotPending
	}
	if inv.Expired(s.now()) {
		return nil, nil, ErrInvitationExpired
	}

	populateTeamDetails(team, s.uploader)
	return inv, team, nil
}

func (s *invitationService) getInvitation(ctx context.Context, id int) (*models.Invitation, error) {
	inv, err := s.invitationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrInvitationNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get invitation %d: %w", id, err)
	}
	return inv, nil
}

func (s *invitationService) getTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *invitationService) notify(ctx context.Context, userIDs ...int) {
	if s.notifier != nil {
		s.notifier.NotifyCountsChanged(ctx, userIDs...)
	}
}
