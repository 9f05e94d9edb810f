package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/sportshive/chat"
	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
)

const chatAssistantPrompt = "You are Sportshive Assistant, a helpful assistant for a sports social platform. " +
	"You help players, teams, sponsors and organizers with tournaments, training, team building and event logistics. " +
	"Keep answers concise and practical."

// ChatCompleter: upstream-модель, отвечающая на список сообщений.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (*models.ChatReply, error)
}

type ChatService interface {
	Reply(ctx context.Context, input ChatInput) (*models.ChatReply, error)
}

type ChatInput struct {
	Messages          []models.ChatMessage      `json:"messages"`
	TournamentContext *models.TournamentContext `json:"tournament_context,omitempty"`
	TournamentID      *int                      `json:"tournament_id,omitempty"`
}

type chatService struct {
	completer      ChatCompleter
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewChatService(completer ChatCompleter, tournamentRepo repositories.TournamentRepository, logger *slog.Logger) ChatService {
	return &chatService{
		completer:      completer,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

func (s *chatService) Reply(ctx context.Context, input ChatInput) (*models.ChatReply, error) {
	if len(input.Messages) == 0 {
		return nil, ErrChatMessagesRequired
	}
	for _, m := range input.Messages {
		if !validChatRole(m.Role) || strings.TrimSpace(m.Content) == "" {
			return nil, ErrChatInvalidMessage
		}
	}

	tc := input.TournamentContext
	if tc == nil && input.TournamentID != nil {
		loaded, err := s.loadTournamentContext(ctx, *input.TournamentID)
		if err != nil {
			return nil, err
		}
		tc = loaded
	}

	messages := make([]models.ChatMessage, 0, len(input.Messages)+1)
	messages = append(messages, models.ChatMessage{Role: "system", Content: buildSystemPrompt(tc)})
	messages = append(messages, input.Messages...)

	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			return nil, ErrChatNotConfigured
		}
		s.logger.ErrorContext(ctx, "chat completion failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrChatUpstream, err)
	}

	s.logger.InfoContext(ctx, "chat completion served",
		slog.String("model", reply.Model),
		slog.Int("total_tokens", reply.Usage.TotalTokens),
	)
	return reply, nil
}

func (s *chatService) loadTournamentContext(ctx context.Context, tournamentID int) (*models.TournamentContext, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d for chat: %w", tournamentID, err)
	}
	start, end := t.StartDate, t.EndDate
	return &models.TournamentContext{
		Name:        t.Name,
		Sport:       t.Sport,
		Location:    derefString(locationOrUnknown(t.Location)),
		Format:      string(t.Format),
		Description: derefString(t.Description),
		StartDate:   &start,
		EndDate:     &end,
	}, nil
}

func validChatRole(role string) bool {
	switch role {
	case "user", "assistant", "system":
		return true
	}
	return false
}

func buildSystemPrompt(tc *models.TournamentContext) string {
	if tc == nil {
		return chatAssistantPrompt
	}

	var b strings.Builder
	b.WriteString(chatAssistantPrompt)
	b.WriteString("\n\nThe user is asking about this tournament:")
	fmt.Fprintf(&b, "\n- Name: %s", tc.Name)
	if tc.Sport != "" {
		fmt.Fprintf(&b, "\n- Sport: %s", tc.Sport)
	}
	if tc.Location != "" {
		fmt.Fprintf(&b, "\n- Location: %s", tc.Location)
	}
	if tc.Format != "" {
		fmt.Fprintf(&b, "\n- Format: %s", tc.Format)
	}
	if tc.StartDate != nil {
		fmt.Fprintf(&b, "\n- Starts: %s", tc.StartDate.Format("2006-01-02"))
	}
	if tc.EndDate != nil {
		fmt.Fprintf(&b, "\n- Ends: %s", tc.EndDate.Format("2006-01-02"))
	}
	if tc.Description != "" {
		fmt.Fprintf(&b, "\n- Description: %s", tc.Description)
	}
	return b.String()
}
