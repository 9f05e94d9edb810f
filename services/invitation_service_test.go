package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
	"github.com/Dosada05/sportshive/repositories/mocks"
)

var fixedNow = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

type invitationDeps struct {
	invitations *mocks.InvitationRepository
	teams       *mocks.TeamRepository
	profiles    *mocks.ProfileRepository
	tx          *mocks.Transactor
	notifier    *notifierMock
}

func newInvitationDeps() invitationDeps {
	return invitationDeps{
		invitations: new(mocks.InvitationRepository),
		teams:       new(mocks.TeamRepository),
		profiles:    new(mocks.ProfileRepository),
		tx:          new(mocks.Transactor),
		notifier:    new(notifierMock),
	}
}

func (d invitationDeps) service() *invitationService {
	svc := NewInvitationService(d.invitations, d.teams, d.profiles, d.tx, d.notifier, nil).(*invitationService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestInvitationService_InviteUser(t *testing.T) {
	team := &models.Team{ID: 5, Name: "Hawks", CaptainID: 1}

	tests := []struct {
		name       string
		captainID  int
		input      InviteInput
		setupMocks func(d invitationDeps)
		wantErr    error
	}{
		{
			name:      "Success",
			captainID: 1,
			input:     InviteInput{UserID: 2, Message: stringPtr(" join us ")},
			setupMocks: func(d invitationDeps) {
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
				d.profiles.On("GetByUserID", mock.Anything, 2).Return(&models.Profile{UserID: 2}, nil)
				d.teams.On("GetMember", mock.Anything, 5, 2).Return(nil, repositories.ErrTeamMemberNotFound)
				d.invitations.On("GetPendingForPair", mock.Anything, 5, 2).Return(nil, repositories.ErrInvitationNotFound)
				d.invitations.On("Create", mock.Anything, mock.MatchedBy(func(inv *models.Invitation) bool {
					return inv.Kind == models.InvitationInvite &&
						inv.CreatedBy == 1 &&
						*inv.Message == "join us" &&
						inv.ExpiresAt.Equal(fixedNow.Add(InvitationTTL))
				})).Return(nil)
				d.notifier.On("NotifyCountsChanged", []int{2}).Return()
			},
		},
		{
			name:      "Error: not captain",
			captainID: 3,
			input:     InviteInput{UserID: 2},
			setupMocks: func(d invitationDeps) {
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
			},
			wantErr: ErrCaptainActionForbidden,
		},
		{
			name:      "Error: invitee without profile",
			captainID: 1,
			input:     InviteInput{UserID: 2},
			setupMocks: func(d invitationDeps) {
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
				d.profiles.On("GetByUserID", mock.Anything, 2).Return(nil, repositories.ErrProfileNotFound)
			},
			wantErr: ErrProfileNotFound,
		},
		{
			name:      "Error: already a member",
			captainID: 1,
			input:     InviteInput{UserID: 2},
			setupMocks: func(d invitationDeps) {
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
				d.profiles.On("GetByUserID", mock.Anything, 2).Return(&models.Profile{UserID: 2}, nil)
				d.teams.On("GetMember", mock.Anything, 5, 2).Return(&models.TeamMember{TeamID: 5, UserID: 2}, nil)
			},
			wantErr: ErrAlreadyTeamMember,
		},
		{
			name:      "Error: pending invitation exists",
			captainID: 1,
			input:     InviteInput{UserID: 2},
			setupMocks: func(d invitationDeps) {
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
				d.profiles.On("GetByUserID", mock.Anything, 2).Return(&models.Profile{UserID: 2}, nil)
				d.teams.On("GetMember", mock.Anything, 5, 2).Return(nil, repositories.ErrTeamMemberNotFound)
				d.invitations.On("GetPendingForPair", mock.Anything, 5, 2).Return(&models.Invitation{
					ID: 9, Status: models.InvitationPending, ExpiresAt: fixedNow.Add(time.Hour),
				}, nil)
			},
			wantErr: ErrInvitationConflict,
		},
		{
			name:      "Success: expired pending invitation is cancelled first",
			captainID: 1,
			input:     InviteInput{UserID: 2},
			setupMocks: func(d invitationDeps) {
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
				d.profiles.On("GetByUserID", mock.Anything, 2).Return(&models.Profile{UserID: 2}, nil)
				d.teams.On("GetMember", mock.Anything, 5, 2).Return(nil, repositories.ErrTeamMemberNotFound)
				d.invitations.On("GetPendingForPair", mock.Anything, 5, 2).Return(&models.Invitation{
					ID: 9, Status: models.InvitationPending, ExpiresAt: fixedNow.Add(-time.Hour),
				}, nil)
				d.invitations.On("UpdateStatus", mock.Anything, 9, models.InvitationCancelled).Return(nil)
				d.invitations.On("Create", mock.Anything, mock.Anything).Return(nil)
				d.notifier.On("NotifyCountsChanged", []int{2}).Return()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newInvitationDeps()
			tt.setupMocks(d)

			inv, err := d.service().InviteUser(context.Background(), 5, tt.captainID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				d.invitations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.InvitationPending, inv.Status)
			d.invitations.AssertExpectations(t)
			d.notifier.AssertExpectations(t)
		})
	}
}

func TestInvitationService_RequestToJoin_NotifiesCaptain(t *testing.T) {
	d := newInvitationDeps()
	d.teams.On("GetByID", mock.Anything, 5).Return(&models.Team{ID: 5, CaptainID: 1}, nil)
	d.profiles.On("GetByUserID", mock.Anything, 3).Return(&models.Profile{UserID: 3}, nil)
	d.teams.On("GetMember", mock.Anything, 5, 3).Return(nil, repositories.ErrTeamMemberNotFound)
	d.invitations.On("GetPendingForPair", mock.Anything, 5, 3).Return(nil, repositories.ErrInvitationNotFound)
	d.invitations.On("Create", mock.Anything, mock.MatchedBy(func(inv *models.Invitation) bool {
		return inv.Kind == models.InvitationRequest && inv.UserID == 3 && inv.CreatedBy == 3
	})).Return(nil)
	d.notifier.On("NotifyCountsChanged", []int{1}).Return()

	_, err := d.service().RequestToJoin(context.Background(), 5, 3, JoinRequestInput{})
	require.NoError(t, err)
	d.notifier.AssertExpectations(t)
}

func TestInvitationService_AcceptInvitation(t *testing.T) {
	team := &models.Team{ID: 5, CaptainID: 1}
	invite := func() *models.Invitation {
		return &models.Invitation{
			ID: 9, TeamID: 5, UserID: 2, Kind: models.InvitationInvite,
			Status: models.InvitationPending, CreatedBy: 1, ExpiresAt: fixedNow.Add(time.Hour),
		}
	}

	tests := []struct {
		name          string
		currentUserID int
		setupMocks    func(d invitationDeps)
		wantErr       error
	}{
		{
			name:          "Success: invitee accepts",
			currentUserID: 2,
			setupMocks: func(d invitationDeps) {
				d.invitations.On("GetByID", mock.Anything, 9).Return(invite(), nil)
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
				d.tx.On("WithinTx", mock.Anything).Return()
				d.invitations.On("UpdateStatus", mock.Anything, 9, models.InvitationAccepted).Return(nil)
				d.teams.On("AddMember", mock.Anything, &models.TeamMember{TeamID: 5, UserID: 2, Role: models.TeamRoleMember}).Return(nil)
				d.notifier.On("NotifyCountsChanged", []int{2, 1}).Return()
			},
		},
		{
			name:          "Error: someone else answers an invite",
			currentUserID: 1,
			setupMocks: func(d invitationDeps) {
				d.invitations.On("GetByID", mock.Anything, 9).Return(invite(), nil)
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
			},
			wantErr: ErrForbiddenOperation,
		},
		{
			name:          "Error: already answered",
			currentUserID: 2,
			setupMocks: func(d invitationDeps) {
				inv := invite()
				inv.Status = models.InvitationDeclined
				d.invitations.On("GetByID", mock.Anything, 9).Return(inv, nil)
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
			},
			wantErr: ErrInvitationNotPending,
		},
		{
			name:          "Error: expired",
			currentUserID: 2,
			setupMocks: func(d invitationDeps) {
				inv := invite()
				inv.ExpiresAt = fixedNow
				d.invitations.On("GetByID", mock.Anything, 9).Return(inv, nil)
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
			},
			wantErr: ErrInvitationExpired,
		},
		{
			name:          "Error: concurrent answer",
			currentUserID: 2,
			setupMocks: func(d invitationDeps) {
				d.invitations.On("GetByID", mock.Anything, 9).Return(invite(), nil)
				d.teams.On("GetByID", mock.Anything, 5).Return(team, nil)
				d.tx.On("WithinTx", mock.Anything).Return()
				d.invitations.On("UpdateStatus", mock.Anything, 9, models.InvitationAccepted).Return(repositories.ErrInvitationNotPending)
			},
			wantErr: ErrInvitationNotPending,
		},
		{
			name:          "Error: not found",
			currentUserID: 2,
			setupMocks: func(d invitationDeps) {
				d.invitations.On("GetByID", mock.Anything, 9).Return(nil, repositories.ErrInvitationNotFound)
			},
			wantErr: ErrInvitationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newInvitationDeps()
			tt.setupMocks(d)

			inv, err := d.service().AcceptInvitation(context.Background(), 9, tt.currentUserID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				d.teams.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.InvitationAccepted, inv.Status)
			require.NotNil(t, inv.RespondedAt)
			d.teams.AssertExpectations(t)
			d.notifier.AssertExpectations(t)
		})
	}
}

func TestInvitationService_DeclineJoinRequest_ByCaptain(t *testing.T) {
	d := newInvitationDeps()
	d.invitations.On("GetByID", mock.Anything, 9).Return(&models.Invitation{
		ID: 9, TeamID: 5, UserID: 3, Kind: models.InvitationRequest,
		Status: models.InvitationPending, CreatedBy: 3, ExpiresAt: fixedNow.Add(time.Hour),
	}, nil)
	d.teams.On("GetByID", mock.Anything, 5).Return(&models.Team{ID: 5, CaptainID: 1}, nil)
	d.invitations.On("UpdateStatus", mock.Anything, 9, models.InvitationDeclined).Return(nil)
	d.notifier.On("NotifyCountsChanged", []int{3, 1}).Return()

	inv, err := d.service().DeclineInvitation(context.Background(), 9, 1)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationDeclined, inv.Status)

	_, err = d.service().DeclineInvitation(context.Background(), 9, 3)
	assert.ErrorIs(t, err, ErrCaptainActionForbidden)
}

func TestInvitationService_CancelInvitation(t *testing.T) {
	pending := &models.Invitation{
		ID: 9, TeamID: 5, UserID: 2, Kind: models.InvitationInvite,
		Status: models.InvitationPending, CreatedBy: 1, ExpiresAt: fixedNow.Add(time.Hour),
	}

	t.Run("Creator cancels", func(t *testing.T) {
		d := newInvitationDeps()
		d.invitations.On("GetByID", mock.Anything, 9).Return(pending, nil)
		d.invitations.On("UpdateStatus", mock.Anything, 9, models.InvitationCancelled).Return(nil)
		d.notifier.On("NotifyCountsChanged", []int{2}).Return()

		require.NoError(t, d.service().CancelInvitation(context.Background(), 9, 1))
		d.notifier.AssertExpectations(t)
	})

	t.Run("Others cannot cancel", func(t *testing.T) {
		d := newInvitationDeps()
		d.invitations.On("GetByID", mock.Anything, 9).Return(pending, nil)

		assert.ErrorIs(t, d.service().CancelInvitation(context.Background(), 9, 2), ErrForbiddenOperation)
	})
}
