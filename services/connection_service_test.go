package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
	"github.com/Dosada05/sportshive/repositories/mocks"
)

type connectionDeps struct {
	connections *mocks.ConnectionRepository
	users       *mocks.UserRepository
	profiles    *mocks.ProfileRepository
	tx          *mocks.Transactor
	notifier    *notifierMock
}

func newConnectionDeps() connectionDeps {
	return connectionDeps{
		connections: new(mocks.ConnectionRepository),
		users:       new(mocks.UserRepository),
		profiles:    new(mocks.ProfileRepository),
		tx:          new(mocks.Transactor),
		notifier:    new(notifierMock),
	}
}

func (d connectionDeps) service() ConnectionService {
	return NewConnectionService(d.connections, d.users, d.profiles, d.tx, d.notifier, nil)
}

func TestConnectionService_SendRequest(t *testing.T) {
	tests := []struct {
		name        string
		addresseeID int
		setupMocks  func(d connectionDeps)
		wantErr     error
	}{
		{
			name:        "Success",
			addresseeID: 2,
			setupMocks: func(d connectionDeps) {
				d.users.On("GetByID", mock.Anything, 2).Return(&models.User{ID: 2}, nil)
				d.connections.On("GetBetween", mock.Anything, 1, 2).Return(nil, repositories.ErrConnectionNotFound)
				d.tx.On("WithinTx", mock.Anything).Return()
				d.connections.On("Create", mock.Anything, &models.Connection{
					RequesterID: 1, AddresseeID: 2, Status: models.ConnectionPending,
				}).Return(nil)
				d.notifier.On("NotifyCountsChanged", []int{2}).Return()
			},
		},
		{
			name:        "Error: self",
			addresseeID: 1,
			setupMocks:  func(d connectionDeps) {},
			wantErr:     ErrSelfConnection,
		},
		{
			name:        "Error: unknown addressee",
			addresseeID: 2,
			setupMocks: func(d connectionDeps) {
				d.users.On("GetByID", mock.Anything, 2).Return(nil, repositories.ErrUserNotFound)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:        "Error: pending in reverse direction",
			addresseeID: 2,
			setupMocks: func(d connectionDeps) {
				d.users.On("GetByID", mock.Anything, 2).Return(&models.User{ID: 2}, nil)
				d.connections.On("GetBetween", mock.Anything, 1, 2).
					Return(&models.Connection{ID: 4, RequesterID: 2, AddresseeID: 1, Status: models.ConnectionPending}, nil)
			},
			wantErr: ErrConnectionExists,
		},
		{
			name:        "Error: already connected",
			addresseeID: 2,
			setupMocks: func(d connectionDeps) {
				d.users.On("GetByID", mock.Anything, 2).Return(&models.User{ID: 2}, nil)
				d.connections.On("GetBetween", mock.Anything, 1, 2).
					Return(&models.Connection{ID: 4, RequesterID: 1, AddresseeID: 2, Status: models.ConnectionAccepted}, nil)
			},
			wantErr: ErrConnectionExists,
		},
		{
			name:        "Success: declined pair is replaced",
			addresseeID: 2,
			setupMocks: func(d connectionDeps) {
				d.users.On("GetByID", mock.Anything, 2).Return(&models.User{ID: 2}, nil)
				d.connections.On("GetBetween", mock.Anything, 1, 2).
					Return(&models.Connection{ID: 4, RequesterID: 2, AddresseeID: 1, Status: models.ConnectionDeclined}, nil)
				d.tx.On("WithinTx", mock.Anything).Return()
				d.connections.On("Delete", mock.Anything, 4).Return(nil)
				d.connections.On("Create", mock.Anything, mock.Anything).Return(nil)
				d.notifier.On("NotifyCountsChanged", []int{2}).Return()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newConnectionDeps()
			tt.setupMocks(d)

			conn, err := d.service().SendRequest(context.Background(), 1, tt.addresseeID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				d.connections.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.ConnectionPending, conn.Status)
			d.connections.AssertExpectations(t)
			d.notifier.AssertExpectations(t)
		})
	}
}

func TestConnectionService_SendRequest_ReplacementRunsInTransaction(t *testing.T) {
	d := newConnectionDeps()
	inTx := false
	d.users.On("GetByID", mock.Anything, 2).Return(&models.User{ID: 2}, nil)
	d.connections.On("GetBetween", mock.Anything, 1, 2).
		Return(&models.Connection{ID: 4, RequesterID: 2, AddresseeID: 1, Status: models.ConnectionDeclined}, nil)
	d.tx.On("WithinTx", mock.Anything).Run(func(mock.Arguments) { inTx = true }).Return().Once()
	d.connections.On("Delete", mock.Anything, 4).Run(func(mock.Arguments) {
		assert.True(t, inTx, "declined row must be deleted inside the transaction")
	}).Return(nil).Once()
	d.connections.On("Create", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		assert.True(t, inTx, "replacement must be inserted inside the transaction")
	}).Return(errors.New("insert failed")).Once()

	_, err := d.service().SendRequest(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
	d.tx.AssertExpectations(t)
	d.connections.AssertExpectations(t)
	d.notifier.AssertNotCalled(t, "NotifyCountsChanged", mock.Anything)
}

func TestConnectionService_Respond(t *testing.T) {
	pending := func() *models.Connection {
		return &models.Connection{ID: 4, RequesterID: 1, AddresseeID: 2, Status: models.ConnectionPending}
	}

	t.Run("Addressee accepts", func(t *testing.T) {
		d := newConnectionDeps()
		d.connections.On("GetByID", mock.Anything, 4).Return(pending(), nil)
		d.connections.On("UpdateStatus", mock.Anything, 4, models.ConnectionAccepted).Return(nil)
		d.notifier.On("NotifyCountsChanged", []int{2, 1}).Return()

		conn, err := d.service().AcceptRequest(context.Background(), 4, 2)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionAccepted, conn.Status)
	})

	t.Run("Requester cannot accept", func(t *testing.T) {
		d := newConnectionDeps()
		d.connections.On("GetByID", mock.Anything, 4).Return(pending(), nil)

		_, err := d.service().AcceptRequest(context.Background(), 4, 1)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("Already answered", func(t *testing.T) {
		d := newConnectionDeps()
		conn := pending()
		conn.Status = models.ConnectionAccepted
		d.connections.On("GetByID", mock.Anything, 4).Return(conn, nil)

		_, err := d.service().DeclineRequest(context.Background(), 4, 2)
		assert.ErrorIs(t, err, ErrConnectionNotPending)
	})
}

func TestConnectionService_RemoveConnection(t *testing.T) {
	d := newConnectionDeps()
	d.connections.On("GetByID", mock.Anything, 4).
		Return(&models.Connection{ID: 4, RequesterID: 1, AddresseeID: 2, Status: models.ConnectionAccepted}, nil)
	d.connections.On("Delete", mock.Anything, 4).Return(nil)

	assert.ErrorIs(t, d.service().RemoveConnection(context.Background(), 4, 3), ErrForbiddenOperation)
	assert.NoError(t, d.service().RemoveConnection(context.Background(), 4, 2))
	d.notifier.AssertNotCalled(t, "NotifyCountsChanged", mock.Anything)
}

func TestConnectionService_ListConnections_AttachesOtherParty(t *testing.T) {
	d := newConnectionDeps()
	d.connections.On("ListAccepted", mock.Anything, 1).Return([]models.Connection{
		{ID: 1, RequesterID: 1, AddresseeID: 2, Status: models.ConnectionAccepted},
		{ID: 2, RequesterID: 3, AddresseeID: 1, Status: models.ConnectionAccepted},
	}, nil)
	d.profiles.On("ListByUserIDs", mock.Anything, []int{2, 3}).Return([]models.Profile{
		{UserID: 2, DisplayName: "Two"},
		{UserID: 3, DisplayName: "Three"},
	}, nil)

	conns, err := d.service().ListConnections(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, "Two", conns[0].Profile.DisplayName)
	assert.Equal(t, "Three", conns[1].Profile.DisplayName)
}

func TestConnectionService_GetStatus(t *testing.T) {
	tests := []struct {
		name string
		conn *models.Connection
		err  error
		want models.ConnectionStatus
	}{
		{name: "none", err: repositories.ErrConnectionNotFound, want: models.ConnectionStatusNone},
		{name: "sent", conn: &models.Connection{RequesterID: 1, AddresseeID: 2, Status: models.ConnectionPending}, want: models.ConnectionStatusPendingSent},
		{name: "received", conn: &models.Connection{RequesterID: 2, AddresseeID: 1, Status: models.ConnectionPending}, want: models.ConnectionStatusPendingReceived},
		{name: "connected", conn: &models.Connection{RequesterID: 2, AddresseeID: 1, Status: models.ConnectionAccepted}, want: models.ConnectionStatusConnected},
		{name: "declined reads as none", conn: &models.Connection{RequesterID: 2, AddresseeID: 1, Status: models.ConnectionDeclined}, want: models.ConnectionStatusNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newConnectionDeps()
			d.connections.On("GetBetween", mock.Anything, 1, 2).Return(tt.conn, tt.err)

			status, err := d.service().GetStatus(context.Background(), 1, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}
