// Package chat реализует клиент OpenAI-совместимого API chat completions.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dosada05/sportshive/models"
)

const DefaultTimeout = 30 * time.Second

// Сколько байт тела ответа об ошибке попадает в текст ошибки.
const maxErrorBody = 2048

var (
	ErrNotConfigured = errors.New("chat api key is not configured")
	ErrEmptyChoices  = errors.New("chat api returned no choices")
)

// APIError описывает ответ upstream с не-2xx статусом.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api responded with status %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message models.ChatMessage `json:"message"`
	} `json:"choices"`
	Usage models.ChatUsage `json:"usage"`
}

// Complete отправляет сообщения в upstream и возвращает первый вариант ответа.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage) (*models.ChatReply, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(completionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, ErrEmptyChoices
	}

	model := decoded.Model
	if model == "" {
		model = c.model
	}
	return &models.ChatReply{
		Reply: decoded.Choices[0].Message.Content,
		Model: model,
		Usage: decoded.Usage,
	}, nil
}
