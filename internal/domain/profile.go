package domain

import (
	"time"

	"github.com/google/uuid"
)

// contextPreviewLen bounds how much of the context data is echoed back in
// summaries.
const contextPreviewLen = 51

// AssistantProfile holds the per-user prompt configuration for the AI
// assistant. InitialPrompt sets the assistant's role; ContextData is
// optional free text (e.g. an uploaded document) folded into prompts.
type AssistantProfile struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	InitialPrompt string    `json:"initial_prompt"`
	ContextData   string    `json:"context_data,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ContextPreview returns a truncated view of the context data for display.
func (p *AssistantProfile) ContextPreview() string {
	if len(p.ContextData) <= contextPreviewLen {
		return p.ContextData
	}
	return p.ContextData[:contextPreviewLen] + "..."
}

// GenerateRequest carries a user message for the assistant.
type GenerateRequest struct {
	Input string `json:"input" validate:"required"`
}

// GenerateResponse carries the assistant's reply.
type GenerateResponse struct {
	Output string `json:"output"`
}
