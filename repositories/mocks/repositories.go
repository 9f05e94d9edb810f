// Package mocks содержит testify-моки интерфейсов репозиториев.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
)

// Transactor выполняет fn без реальной транзакции.
type Transactor struct {
	mock.Mock
}

func (m *Transactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	m.Called(ctx)
	return fn(nil)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *ProfileRepository) GetByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepository) ListByUserIDs(ctx context.Context, userIDs []int) ([]models.Profile, error) {
	args := m.Called(ctx, userIDs)
	profiles, _ := args.Get(0).([]models.Profile)
	return profiles, args.Error(1)
}

func (m *ProfileRepository) Search(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, error) {
	args := m.Called(ctx, filter)
	profiles, _ := args.Get(0).([]models.Profile)
	return profiles, args.Error(1)
}

func (m *ProfileRepository) UpdateAvatarKey(ctx context.Context, userID int, avatarKey *string) error {
	return m.Called(ctx, userID, avatarKey).Error(0)
}

type TeamRepository struct {
	mock.Mock
}

func (m *TeamRepository) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	args := m.Called(ctx, id)
	team, _ := args.Get(0).(*models.Team)
	return team, args.Error(1)
}

func (m *TeamRepository) List(ctx context.Context, filter models.TeamFilter) ([]models.Team, error) {
	args := m.Called(ctx, filter)
	teams, _ := args.Get(0).([]models.Team)
	return teams, args.Error(1)
}

func (m *TeamRepository) ListByUser(ctx context.Context, userID int) ([]models.Team, error) {
	args := m.Called(ctx, userID)
	teams, _ := args.Get(0).([]models.Team)
	return teams, args.Error(1)
}

func (m *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *TeamRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TeamRepository) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	return m.Called(ctx, teamID, logoKey).Error(0)
}

func (m *TeamRepository) AddMember(ctx context.Context, exec repositories.SQLExecutor, member *models.TeamMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *TeamRepository) GetMember(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
	args := m.Called(ctx, teamID, userID)
	member, _ := args.Get(0).(*models.TeamMember)
	return member, args.Error(1)
}

func (m *TeamRepository) ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	members, _ := args.Get(0).([]models.TeamMember)
	return members, args.Error(1)
}

func (m *TeamRepository) RemoveMember(ctx context.Context, teamID, userID int) error {
	return m.Called(ctx, teamID, userID).Error(0)
}

type InvitationRepository struct {
	mock.Mock
}

func (m *InvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	return m.Called(ctx, invitation).Error(0)
}

func (m *InvitationRepository) GetByID(ctx context.Context, id int) (*models.Invitation, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*models.Invitation)
	return inv, args.Error(1)
}

func (m *InvitationRepository) GetPendingForPair(ctx context.Context, teamID, userID int) (*models.Invitation, error) {
	args := m.Called(ctx, teamID, userID)
	inv, _ := args.Get(0).(*models.Invitation)
	return inv, args.Error(1)
}

func (m *InvitationRepository) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.InvitationStatus, respondedAt time.Time) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *InvitationRepository) ListPendingInvitesForUser(ctx context.Context, userID int, now time.Time) ([]models.Invitation, error) {
	args := m.Called(ctx, userID)
	invs, _ := args.Get(0).([]models.Invitation)
	return invs, args.Error(1)
}

func (m *InvitationRepository) ListPendingRequestsForTeam(ctx context.Context, teamID int, now time.Time) ([]models.Invitation, error) {
	args := m.Called(ctx, teamID)
	invs, _ := args.Get(0).([]models.Invitation)
	return invs, args.Error(1)
}

func (m *InvitationRepository) ListPendingInviteeIDs(ctx context.Context, teamID int, now time.Time) ([]int, error) {
	args := m.Called(ctx, teamID)
	ids, _ := args.Get(0).([]int)
	return ids, args.Error(1)
}

func (m *InvitationRepository) CountPendingInvitesForUser(ctx context.Context, userID int, now time.Time) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *InvitationRepository) CountPendingRequestsForCaptain(ctx context.Context, captainID int, now time.Time) (int, error) {
	args := m.Called(ctx, captainID)
	return args.Int(0), args.Error(1)
}

type TournamentRepository struct {
	mock.Mock
}

func (m *TournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	return m.Called(ctx, tournament).Error(0)
}

func (m *TournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *TournamentRepository) List(ctx context.Context, filter models.TournamentFilter) ([]models.Tournament, error) {
	args := m.Called(ctx, filter)
	ts, _ := args.Get(0).([]models.Tournament)
	return ts, args.Error(1)
}

func (m *TournamentRepository) Update(ctx context.Context, tournament *models.Tournament) error {
	return m.Called(ctx, tournament).Error(0)
}

func (m *TournamentRepository) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *TournamentRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TournamentRepository) UpdateLogoKey(ctx context.Context, tournamentID int, logoKey *string) error {
	return m.Called(ctx, tournamentID, logoKey).Error(0)
}

func (m *TournamentRepository) ListNonFinal(ctx context.Context) ([]models.Tournament, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).([]models.Tournament)
	return ts, args.Error(1)
}

func (m *TournamentRepository) LockForRegistration(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	return m.Called(ctx, tournamentID).Error(0)
}

func (m *TournamentRepository) CreateRegistration(ctx context.Context, exec repositories.SQLExecutor, registration *models.Registration) error {
	return m.Called(ctx, registration).Error(0)
}

func (m *TournamentRepository) CountRegistrations(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	args := m.Called(ctx, tournamentID)
	return args.Int(0), args.Error(1)
}

func (m *TournamentRepository) ListRegistrations(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	args := m.Called(ctx, tournamentID)
	regs, _ := args.Get(0).([]models.Registration)
	return regs, args.Error(1)
}

type ConnectionRepository struct {
	mock.Mock
}

func (m *ConnectionRepository) Create(ctx context.Context, exec repositories.SQLExecutor, connection *models.Connection) error {
	return m.Called(ctx, connection).Error(0)
}

func (m *ConnectionRepository) GetByID(ctx context.Context, id int) (*models.Connection, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Connection)
	return c, args.Error(1)
}

func (m *ConnectionRepository) GetBetween(ctx context.Context, userA, userB int) (*models.Connection, error) {
	args := m.Called(ctx, userA, userB)
	c, _ := args.Get(0).(*models.Connection)
	return c, args.Error(1)
}

func (m *ConnectionRepository) UpdateStatus(ctx context.Context, id int, status models.ConnectionState) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *ConnectionRepository) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ConnectionRepository) ListAccepted(ctx context.Context, userID int) ([]models.Connection, error) {
	args := m.Called(ctx, userID)
	cs, _ := args.Get(0).([]models.Connection)
	return cs, args.Error(1)
}

func (m *ConnectionRepository) ListPendingIncoming(ctx context.Context, userID int) ([]models.Connection, error) {
	args := m.Called(ctx, userID)
	cs, _ := args.Get(0).([]models.Connection)
	return cs, args.Error(1)
}

func (m *ConnectionRepository) ListPendingSent(ctx context.Context, userID int) ([]models.Connection, error) {
	args := m.Called(ctx, userID)
	cs, _ := args.Get(0).([]models.Connection)
	return cs, args.Error(1)
}

func (m *ConnectionRepository) CountPendingIncoming(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *ConnectionRepository) CountAccepted(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MaintenanceRepository struct {
	mock.Mock
}

func (m *MaintenanceRepository) CleanupStaleRows(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}
