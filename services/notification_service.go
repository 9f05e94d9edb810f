package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
)

// MessageTypeNotificationCounts: тип websocket-сообщения со счётчиками.
const MessageTypeNotificationCounts = "NOTIFICATION_COUNTS"

// Notifier сообщает, что у пользователей изменились счётчики уведомлений.
type Notifier interface {
	NotifyCountsChanged(ctx context.Context, userIDs ...int)
}

// UserBroadcaster доставляет сообщения в персональные комнаты пользователей.
type UserBroadcaster interface {
	HasUser(userID int) bool
	SendToUser(userID int, messageType string, payload interface{})
}

type NotificationService interface {
	Notifier
	GetCounts(ctx context.Context, userID int) (*models.NotificationCounts, error)
}

type notificationService struct {
	connectionRepo repositories.ConnectionRepository
	invitationRepo repositories.InvitationRepository
	broadcaster    UserBroadcaster
	logger         *slog.Logger
	now            func() time.Time
}

func NewNotificationService(
	connectionRepo repositories.ConnectionRepository,
	invitationRepo repositories.InvitationRepository,
	broadcaster UserBroadcaster,
	logger *slog.Logger,
) NotificationService {
	return &notificationService{
		connectionRepo: connectionRepo,
		invitationRepo: invitationRepo,
		broadcaster:    broadcaster,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *notificationService) GetCounts(ctx context.Context, userID int) (*models.NotificationCounts, error) {
	counts := &models.NotificationCounts{}
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.connectionRepo.CountPendingIncoming(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to count connection requests: %w", err)
		}
		counts.ConnectionRequests = n
		return nil
	})
	g.Go(func() error {
		n, err := s.invitationRepo.CountPendingInvitesForUser(gctx, userID, now)
		if err != nil {
			return fmt.Errorf("failed to count team invitations: %w", err)
		}
		counts.TeamInvitations = n
		return nil
	})
	g.Go(func() error {
		n, err := s.invitationRepo.CountPendingRequestsForCaptain(gctx, userID, now)
		if err != nil {
			return fmt.Errorf("failed to count join requests: %w", err)
		}
		counts.JoinRequests = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts.Total = counts.ConnectionRequests + counts.TeamInvitations + counts.JoinRequests
	return counts, nil
}

// NotifyCountsChanged пересчитывает счётчики только для пользователей, подключённых к хабу.
func (s *notificationService) NotifyCountsChanged(ctx context.Context, userIDs ...int) {
	if s.broadcaster == nil {
		return
	}
	seen := make(map[int]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := seen[userID]; ok || userID <= 0 {
			continue
		}
		seen[userID] = struct{}{}

		if !s.broadcaster.HasUser(userID) {
			continue
		}
		counts, err := s.GetCounts(ctx, userID)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to compute notification counts", slog.Int("user_id", userID), slog.Any("error", err))
			continue
		}
		s.broadcaster.SendToUser(userID, MessageTypeNotificationCounts, counts)
	}
}
