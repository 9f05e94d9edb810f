package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
	"github.com/Dosada05/sportshive/storage"
)

type ConnectionService interface {
	SendRequest(ctx context.Context, requesterID, addresseeID int) (*models.Connection, error)
	AcceptRequest(ctx context.Context, connectionID, currentUserID int) (*models.Connection, error)
	DeclineRequest(ctx context.Context, connectionID, currentUserID int) (*models.Connection, error)
	RemoveConnection(ctx context.Context, connectionID, currentUserID int) error
	ListConnections(ctx context.Context, userID int) ([]models.Connection, error)
	ListPendingRequests(ctx context.Context, userID int) ([]models.Connection, error)
	ListSentRequests(ctx context.Context, userID int) ([]models.Connection, error)
	GetStatus(ctx context.Context, currentUserID, otherUserID int) (models.ConnectionStatus, error)
}

type SendConnectionInput struct {
	UserID int `json:"user_id"`
}

type connectionService struct {
	connectionRepo repositories.ConnectionRepository
	userRepo       repositories.UserRepository
	profileRepo    repositories.ProfileRepository
	transactor     repositories.Transactor
	notifier       Notifier
	uploader       storage.FileUploader
}

func NewConnectionService(
	connectionRepo repositories.ConnectionRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	transactor repositories.Transactor,
	notifier Notifier,
	uploader storage.FileUploader,
) ConnectionService {
	return &connectionService{
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		transactor:     transactor,
		notifier:       notifier,
		uploader:       uploader,
	}
}

func (s *connectionService) SendRequest(ctx context.Context, requesterID, addresseeID int) (*models.Connection, error) {
	if addresseeID <= 0 {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidationFailed)
	}
	if requesterID == addresseeID {
		return nil, ErrSelfConnection
	}

	if _, err := s.userRepo.GetByID(ctx, addresseeID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", addresseeID, err)
	}

	var declined *models.Connection
	existing, err := s.connectionRepo.GetBetween(ctx, requesterID, addresseeID)
	switch {
	case err == nil:
		if existing.Status != models.ConnectionDeclined {
			return nil, ErrConnectionExists
		}
		declined = existing
	case !errors.Is(err, repositories.ErrConnectionNotFound):
		return nil, fmt.Errorf("failed to check existing connection: %w", err)
	}

	conn := &models.Connection{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.ConnectionPending,
	}
	// Отклонённую пару можно запросить заново: старая запись заменяется в той же транзакции.
	err = s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if declined != nil {
			if err := s.connectionRepo.Delete(ctx, exec, declined.ID); err != nil && !errors.Is(err, repositories.ErrConnectionNotFound) {
				return fmt.Errorf("failed to replace declined connection %d: %w", declined.ID, err)
			}
		}
		return s.connectionRepo.Create(ctx, exec, conn)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrConnectionConflict):
			return nil, ErrConnectionExists
		case errors.Is(err, repositories.ErrConnectionRefInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	s.notify(ctx, addresseeID)
	return conn, nil
}

func (s *connectionService) AcceptRequest(ctx context.Context, connectionID, currentUserID int) (*models.Connection, error) {
	return s.respond(ctx, connectionID, currentUserID, models.ConnectionAccepted)
}

func (s *connectionService) DeclineRequest(ctx context.Context, connectionID, currentUserID int) (*models.Connection, error) {
	return s.respond(ctx, connectionID, currentUserID, models.ConnectionDeclined)
}

func (s *connectionService) respond(ctx context.Context, connectionID, currentUserID int, status models.ConnectionState) (*models.Connection, error) {
	conn, err := s.getConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.AddresseeID != currentUserID {
		return nil, ErrForbiddenOperation
	}
	if conn.Status != models.ConnectionPending {
		return nil, ErrConnectionNotPending
	}

	if err := s.connectionRepo.UpdateStatus(ctx, conn.ID, status); err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to update connection %d: %w", conn.ID, err)
	}
	conn.Status = status

	s.notify(ctx, conn.AddresseeID, conn.RequesterID)
	return conn, nil
}

func (s *connectionService) RemoveConnection(ctx context.Context, connectionID, currentUserID int) error {
	conn, err := s.getConnection(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn.RequesterID != currentUserID && conn.AddresseeID != currentUserID {
		return ErrForbiddenOperation
	}

	if err := s.connectionRepo.Delete(ctx, nil, conn.ID); err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			return ErrConnectionNotFound
		}
		return fmt.Errorf("failed to delete connection %d: %w", conn.ID, err)
	}

	if conn.Status == models.ConnectionPending {
		s.notify(ctx, conn.AddresseeID)
	}
	return nil
}

func (s *connectionService) ListConnections(ctx context.Context, userID int) ([]models.Connection, error) {
	conns, err := s.connectionRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return s.attachProfiles(ctx, userID, conns)
}

func (s *connectionService) ListPendingRequests(ctx context.Context, userID int) ([]models.Connection, error) {
	conns, err := s.connectionRepo.ListPendingIncoming(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending connection requests: %w", err)
	}
	return s.attachProfiles(ctx, userID, conns)
}

func (s *connectionService) ListSentRequests(ctx context.Context, userID int) ([]models.Connection, error) {
	conns, err := s.connectionRepo.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent connection requests: %w", err)
	}
	return s.attachProfiles(ctx, userID, conns)
}

func (s *connectionService) GetStatus(ctx context.Context, currentUserID, otherUserID int) (models.ConnectionStatus, error) {
	if currentUserID == otherUserID {
		return models.ConnectionStatusNone, nil
	}
	conn, err := s.connectionRepo.GetBetween(ctx, currentUserID, otherUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			return models.ConnectionStatusNone, nil
		}
		return "", fmt.Errorf("failed to get connection status: %w", err)
	}
	return connectionStatusFor(conn, currentUserID), nil
}

// attachProfiles подставляет профиль второй стороны одним запросом.
func (s *connectionService) attachProfiles(ctx context.Context, userID int, conns []models.Connection) ([]models.Connection, error) {
	if len(conns) == 0 {
		return []models.Connection{}, nil
	}

	ids := make([]int, 0, len(conns))
	for i := range conns {
		ids = append(ids, conns[i].OtherParty(userID))
	}

	profiles, err := s.profileRepo.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load connection profiles: %w", err)
	}
	byUser := make(map[int]*models.Profile, len(profiles))
	for i := range profiles {
		populateProfileDetails(&profiles[i], s.uploader)
		byUser[profiles[i].UserID] = &profiles[i]
	}

	for i := range conns {
		conns[i].Profile = byUser[conns[i].OtherParty(userID)]
	}
	return conns, nil
}

func (s *connectionService) getConnection(ctx context.Context, id int) (*models.Connection, error) {
	conn, err := s.connectionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to get connection %d: %w", id, err)
	}
	return conn, nil
}

func (s *connectionService) notify(ctx context.Context, userIDs ...int) {
	if s.notifier != nil {
		s.notifier.NotifyCountsChanged(ctx, userIDs...)
	}
}
