package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories/mocks"
)

func TestNotificationService_GetCounts(t *testing.T) {
	conns := new(mocks.ConnectionRepository)
	invs := new(mocks.InvitationRepository)
	conns.On("CountPendingIncoming", mock.Anything, 1).Return(2, nil)
	invs.On("CountPendingInvitesForUser", mock.Anything, 1).Return(1, nil)
	invs.On("CountPendingRequestsForCaptain", mock.Anything, 1).Return(3, nil)

	counts, err := NewNotificationService(conns, invs, nil, discardLogger()).GetCounts(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &models.NotificationCounts{
		ConnectionRequests: 2,
		TeamInvitations:    1,
		JoinRequests:       3,
		Total:              6,
	}, counts)
}

func TestNotificationService_GetCounts_Error(t *testing.T) {
	conns := new(mocks.ConnectionRepository)
	invs := new(mocks.InvitationRepository)
	conns.On("CountPendingIncoming", mock.Anything, 1).Return(0, errors.New("db down"))
	invs.On("CountPendingInvitesForUser", mock.Anything, 1).Return(0, nil).Maybe()
	invs.On("CountPendingRequestsForCaptain", mock.Anything, 1).Return(0, nil).Maybe()

	_, err := NewNotificationService(conns, invs, nil, discardLogger()).GetCounts(context.Background(), 1)
	assert.Error(t, err)
}

func TestNotificationService_NotifyCountsChanged(t *testing.T) {
	conns := new(mocks.ConnectionRepository)
	invs := new(mocks.InvitationRepository)
	hub := new(broadcasterMock)

	hub.On("HasUser", 1).Return(true)
	hub.On("HasUser", 2).Return(false)
	conns.On("CountPendingIncoming", mock.Anything, 1).Return(1, nil)
	invs.On("CountPendingInvitesForUser", mock.Anything, 1).Return(0, nil)
	invs.On("CountPendingRequestsForCaptain", mock.Anything, 1).Return(0, nil)
	hub.On("SendToUser", 1, MessageTypeNotificationCounts, &models.NotificationCounts{ConnectionRequests: 1, Total: 1}).Return()

	svc := NewNotificationService(conns, invs, hub, discardLogger())
	svc.NotifyCountsChanged(context.Background(), 1, 2, 1, 0)

	hub.AssertExpectations(t)
	hub.AssertNumberOfCalls(t, "SendToUser", 1)
	conns.AssertNotCalled(t, "CountPendingIncoming", mock.Anything, 2)
}
