package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/sportshive/chat"
	"github.com/Dosada05/sportshive/models"
	"github.com/Dosada05/sportshive/repositories"
	"github.com/Dosada05/sportshive/repositories/mocks"
)

func TestChatService_Reply(t *testing.T) {
	reply := &models.ChatReply{Reply: "Good luck!", Model: "m", Usage: models.ChatUsage{TotalTokens: 9}}
	userMsg := []models.ChatMessage{{Role: "user", Content: "Any tips?"}}
	tournamentID := 11

	tests := []struct {
		name       string
		input      ChatInput
		setupMocks func(c *completerMock, tr *mocks.TournamentRepository)
		wantErr    error
	}{
		{
			name:  "Success: explicit context goes into system prompt",
			input: ChatInput{Messages: userMsg, TournamentContext: &models.TournamentContext{Name: "Spring Cup", Sport: "tennis"}},
			setupMocks: func(c *completerMock, tr *mocks.TournamentRepository) {
				c.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []models.ChatMessage) bool {
					return len(msgs) == 2 &&
						msgs[0].Role == "system" &&
						strings.Contains(msgs[0].Content, "Spring Cup") &&
						strings.Contains(msgs[0].Content, "tennis") &&
						msgs[1] == userMsg[0]
				})).Return(reply, nil)
			},
		},
		{
			name:  "Success: context loaded by tournament id",
			input: ChatInput{Messages: userMsg, TournamentID: &tournamentID},
			setupMocks: func(c *completerMock, tr *mocks.TournamentRepository) {
				tr.On("GetByID", mock.Anything, 11).Return(&models.Tournament{
					ID: 11, Name: "Autumn Open", Sport: "padel", Format: models.FormatLeague,
					StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC),
				}, nil)
				c.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []models.ChatMessage) bool {
					return strings.Contains(msgs[0].Content, "Autumn Open") &&
						strings.Contains(msgs[0].Content, "Location: Unknown") &&
						strings.Contains(msgs[0].Content, "2025-09-01")
				})).Return(reply, nil)
			},
		},
		{
			name:       "Error: no messages",
			input:      ChatInput{},
			setupMocks: func(c *completerMock, tr *mocks.TournamentRepository) {},
			wantErr:    ErrChatMessagesRequired,
		},
		{
			name:       "Error: bad role",
			input:      ChatInput{Messages: []models.ChatMessage{{Role: "tool", Content: "x"}}},
			setupMocks: func(c *completerMock, tr *mocks.TournamentRepository) {},
			wantErr:    ErrChatInvalidMessage,
		},
		{
			name:       "Error: empty content",
			input:      ChatInput{Messages: []models.ChatMessage{{Role: "user", Content: "  "}}},
			setupMocks: func(c *completerMock, tr *mocks.TournamentRepository) {},
			wantErr:    ErrChatInvalidMessage,
		},
		{
			name:  "Error: unknown tournament",
			input: ChatInput{Messages: userMsg, TournamentID: &tournamentID},
			setupMocks: func(c *completerMock, tr *mocks.TournamentRepository) {
				tr.On("GetByID", mock.Anything, 11).Return(nil, repositories.ErrTournamentNotFound)
			},
			wantErr: ErrTournamentNotFound,
		},
		{
			name:  "Error: missing key",
			input: ChatInput{Messages: userMsg},
			setupMocks: func(c *completerMock, tr *mocks.TournamentRepository) {
				c.On("Complete", mock.Anything, mock.Anything).Return(nil, chat.ErrNotConfigured)
			},
			wantErr: ErrChatNotConfigured,
		},
		{
			name:  "Error: upstream failure",
			input: ChatInput{Messages: userMsg},
			setupMocks: func(c *completerMock, tr *mocks.TournamentRepository) {
				c.On("Complete", mock.Anything, mock.Anything).Return(nil, &chat.APIError{StatusCode: 502, Body: "bad gateway"})
			},
			wantErr: ErrChatUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(completerMock)
			tr := new(mocks.TournamentRepository)
			tt.setupMocks(c, tr)

			got, err := NewChatService(c, tr, discardLogger()).Reply(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, reply, got)
			c.AssertExpectations(t)
		})
	}
}

func TestBuildSystemPrompt_WithoutContext(t *testing.T) {
	assert.Equal(t, chatAssistantPrompt, buildSystemPrompt(nil))
}
