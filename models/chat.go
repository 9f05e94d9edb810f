package models

import "time"

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TournamentContext: сведения о турнире, которые подмешиваются в системный промпт чата.
type TournamentContext struct {
	Name        string     `json:"name"`
	Sport       string     `json:"sport,omitempty"`
	Location    string     `json:"location,omitempty"`
	Format      string     `json:"format,omitempty"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatReply struct {
	Reply string    `json:"reply"`
	Model string    `json:"model"`
	Usage ChatUsage `json:"usage"`
}
