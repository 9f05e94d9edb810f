package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/services"
)

type authServiceMock struct{ mock.Mock }

func (m *authServiceMock) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, input)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *authServiceMock) Login(ctx context.Context, input services.LoginInput) (*models.User, error) {
	args := m.Called(ctx, input)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *authServiceMock) GetUser(ctx context.Context, userID int) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type profileServiceMock struct{ mock.Mock }

func (m *profileServiceMock) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *profileServiceMock) UpsertProfile(ctx context.Context, userID int, input services.ProfileInput) (*models.Profile, error) {
	args := m.Called(ctx, userID, input)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *profileServiceMock) SearchProfiles(ctx context.Context, currentUserID int, input services.ProfileSearchInput) ([]models.Profile, error) {
	args := m.Called(ctx, currentUserID, input)
	p, _ := args.Get(0).([]models.Profile)
	return p, args.Error(1)
}

func (m *profileServiceMock) GetOverview(ctx context.Context, currentUserID, userID int) (*models.ProfileOverview, error) {
	args := m.Called(ctx, currentUserID, userID)
	o, _ := args.Get(0).(*models.ProfileOverview)
	return o, args.Error(1)
}

func (m *profileServiceMock) GetSessionStatus(ctx context.Context, userID int) (*models.SessionStatus, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*models.SessionStatus)
	return s, args.Error(1)
}

func (m *profileServiceMock) UploadAvatar(ctx context.Context, userID int, file services.ImageUpload) (*models.Profile, error) {
	args := m.Called(ctx, userID, file.ContentType, file.Size)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

type teamServiceMock struct{ mock.Mock }

func (m *teamServiceMock) CreateTeam(ctx context.Context, creatorID int, input services.CreateTeamInput) (*models.Team, error) {
	args := m.Called(ctx, creatorID, input)
	t, _ := args.Get(0).(*models.Team)
	return t, args.Error(1)
}

func (m *teamServiceMock) GetTeam(ctx context.Context, teamID int) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	t, _ := args.Get(0).(*models.Team)
	return t, args.Error(1)
}

func (m *teamServiceMock) ListTeams(ctx context.Context, input services.ListTeamsInput) ([]models.Team, error) {
	args := m.Called(ctx, input)
	t, _ := args.Get(0).([]models.Team)
	return t, args.Error(1)
}

func (m *teamServiceMock) ListUserTeams(ctx context.Context, userID int) ([]models.Team, error) {
	args := m.Called(ctx, userID)
	t, _ := args.Get(0).([]models.Team)
	return t, args.Error(1)
}

func (m *teamServiceMock) UpdateTeam(ctx context.Context, teamID, currentUserID int, input services.UpdateTeamInput) (*models.Team, error) {
	args := m.Called(ctx, teamID, currentUserID, input)
	t, _ := args.Get(0).(*models.Team)
	return t, args.Error(1)
}

func (m *teamServiceMock) DeleteTeam(ctx context.Context, teamID, currentUserID int) error {
	return m.Called(ctx, teamID, currentUserID).Error(0)
}

func (m *teamServiceMock) UploadLogo(ctx context.Context, teamID, currentUserID int, file services.ImageUpload) (*models.Team, error) {
	args := m.Called(ctx, teamID, currentUserID, file.ContentType)
	t, _ := args.Get(0).(*models.Team)
	return t, args.Error(1)
}

func (m *teamServiceMock) RemoveMember(ctx context.Context, teamID, memberUserID, currentUserID int) error {
	return m.Called(ctx, teamID, memberUserID, currentUserID).Error(0)
}

type invitationServiceMock struct{ mock.Mock }

func (m *invitationServiceMock) InviteUser(ctx context.Context, teamID, captainID int, input services.InviteInput) (*models.Invitation, error) {
	args := m.Called(ctx, teamID, captainID, input)
	i, _ := args.Get(0).(*models.Invitation)
	return i, args.Error(1)
}

func (m *invitationServiceMock) RequestToJoin(ctx context.Context, teamID, userID int, input services.JoinRequestInput) (*models.Invitation, error) {
	args := m.Called(ctx, teamID, userID, input)
	i, _ := args.Get(0).(*models.Invitation)
	return i, args.Error(1)
}

func (m *invitationServiceMock) ListUserInvitations(ctx context.Context, userID int) ([]models.Invitation, error) {
	args := m.Called(ctx, userID)
	i, _ := args.Get(0).([]models.Invitation)
	return i, args.Error(1)
}

func (m *invitationServiceMock) ListJoinRequests(ctx context.Context, teamID, captainID int) ([]models.Invitation, error) {
	args := m.Called(ctx, teamID, captainID)
	i, _ := args.Get(0).([]models.Invitation)
	return i, args.Error(1)
}

func (m *invitationServiceMock) AcceptInvitation(ctx context.Context, invitationID, currentUserID int) (*models.Invitation, error) {
	args := m.Called(ctx, invitationID, currentUserID)
	i, _ := args.Get(0).(*models.Invitation)
	return i, args.Error(1)
}

func (m *invitationServiceMock) DeclineInvitation(ctx context.Context, invitationID, currentUserID int) (*models.Invitation, error) {
	args := m.Called(ctx, invitationID, currentUserID)
	i, _ := args.Get(0).(*models.Invitation)
	return i, args.Error(1)
}

func (m *invitationServiceMock) CancelInvitation(ctx context.Context, invitationID, currentUserID int) error {
	return m.Called(ctx, invitationID, currentUserID).Error(0)
}

type tournamentServiceMock struct{ mock.Mock }

func (m *tournamentServiceMock) ListTournaments(ctx context.Context, input services.ListTournamentsInput) ([]models.Tournament, error) {
	args := m.Called(ctx, input)
	t, _ := args.Get(0).([]models.Tournament)
	return t, args.Error(1)
}

func (m *tournamentServiceMock) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *tournamentServiceMock) CreateTournament(ctx context.Context, organizerID int, input services.CreateTournamentInput) (*models.Tournament, error) {
	args := m.Called(ctx, organizerID, input)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *tournamentServiceMock) UpdateTournament(ctx context.Context, id, currentUserID int, input services.UpdateTournamentInput) (*models.Tournament, error) {
	args := m.Called(ctx, id, currentUserID, input)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *tournamentServiceMock) DeleteTournament(ctx context.Context, id, currentUserID int) error {
	return m.Called(ctx, id, currentUserID).Error(0)
}

func (m *tournamentServiceMock) UploadLogo(ctx context.Context, id, currentUserID int, file services.ImageUpload) (*models.Tournament, error) {
	args := m.Called(ctx, id, currentUserID, file.ContentType)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *tournamentServiceMock) RegisterTeam(ctx context.Context, tournamentID, currentUserID int, input services.RegisterTeamInput) (*models.Registration, error) {
	args := m.Called(ctx, tournamentID, currentUserID, input)
	r, _ := args.Get(0).(*models.Registration)
	return r, args.Error(1)
}

func (m *tournamentServiceMock) ListRegistrations(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	args := m.Called(ctx, tournamentID)
	r, _ := args.Get(0).([]models.Registration)
	return r, args.Error(1)
}

func (m *tournamentServiceMock) PreviewBracket(ctx context.Context, tournamentID int) (*models.BracketPreview, error) {
	args := m.Called(ctx, tournamentID)
	b, _ := args.Get(0).(*models.BracketPreview)
	return b, args.Error(1)
}

func (m *tournamentServiceMock) RefreshStatuses(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type connectionServiceMock struct{ mock.Mock }

func (m *connectionServiceMock) SendRequest(ctx context.Context, requesterID, addresseeID int) (*models.Connection, error) {
	args := m.Called(ctx, requesterID, addresseeID)
	c, _ := args.Get(0).(*models.Connection)
	return c, args.Error(1)
}

func (m *connectionServiceMock) AcceptRequest(ctx context.Context, connectionID, currentUserID int) (*models.Connection, error) {
	args := m.Called(ctx, connectionID, currentUserID)
	c, _ := args.Get(0).(*models.Connection)
	return c, args.Error(1)
}

func (m *connectionServiceMock) DeclineRequest(ctx context.Context, connectionID, currentUserID int) (*models.Connection, error) {
	args := m.Called(ctx, connectionID, currentUserID)
	c, _ := args.Get(0).(*models.Connection)
	return c, args.Error(1)
}

func (m *connectionServiceMock) RemoveConnection(ctx context.Context, connectionID, currentUserID int) error {
	return m.Called(ctx, connectionID, currentUserID).Error(0)
}

func (m *connectionServiceMock) ListConnections(ctx context.Context, userID int) ([]models.Connection, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).([]models.Connection)
	return c, args.Error(1)
}

func (m *connectionServiceMock) ListPendingRequests(ctx context.Context, userID int) ([]models.Connection, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).([]models.Connection)
	return c, args.Error(1)
}

func (m *connectionServiceMock) ListSentRequests(ctx context.Context, userID int) ([]models.Connection, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).([]models.Connection)
	return c, args.Error(1)
}

func (m *connectionServiceMock) GetStatus(ctx context.Context, currentUserID, otherUserID int) (models.ConnectionStatus, error) {
	args := m.Called(ctx, currentUserID, otherUserID)
	return args.Get(0).(models.ConnectionStatus), args.Error(1)
}

type notificationServiceMock struct{ mock.Mock }

func (m *notificationServiceMock) NotifyCountsChanged(ctx context.Context, userIDs ...int) {
	m.Called(userIDs)
}

func (m *notificationServiceMock) GetCounts(ctx context.Context, userID int) (*models.NotificationCounts, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*models.NotificationCounts)
	return c, args.Error(1)
}

type chatServiceMock struct{ mock.Mock }

func (m *chatServiceMock) Reply(ctx context.Context, input services.ChatInput) (*models.ChatReply, error) {
	args := m.Called(ctx, input)
	r, _ := args.Get(0).(*models.ChatReply)
	return r, args.Error(1)
}

type cleanupServiceMock struct{ mock.Mock }

func (m *cleanupServiceMock) Run(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}
