package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/utafrali/AssistantGo/internal/domain"
	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
	"github.com/utafrali/AssistantGo/pkg/httputil"
)

// AssistantService is the generation surface the assistant handler drives.
type AssistantService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*domain.AssistantProfile, error)
	Generate(ctx context.Context, userID uuid.UUID, req domain.GenerateRequest) (*domain.GenerateResponse, error)
}

// AssistantHandler serves the AI generation endpoints.
type AssistantHandler struct {
	assistant AssistantService
	logger    *slog.Logger
}

// NewAssistantHandler creates the assistant handler.
func NewAssistantHandler(assistant AssistantService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, logger: logger}
}

// Generate handles POST /api/v1/assistant/generate.
func (h *AssistantHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("missing access token"), h.logger)
		return
	}

	var req domain.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp, err := h.assistant.Generate(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

type profileResponse struct {
	InitialPrompt  string `json:"initial_prompt"`
	ContextPreview string `json:"context_preview,omitempty"`
}

// Profile handles GET /api/v1/assistant/profile. Context data is returned
// as a short preview, not in full.
func (h *AssistantHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("missing access token"), h.logger)
		return
	}

	profile, err := h.assistant.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: profileResponse{
			InitialPrompt:  profile.InitialPrompt,
			ContextPreview: profile.ContextPreview(),
		},
	})
}
