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

// UserService is the account management surface the user handler drives.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserHandler serves the authenticated account endpoints.
type UserHandler struct {
	users   UserService
	cookies cookieWriter
	logger  *slog.Logger
}

// NewUserHandler creates the user handler.
func NewUserHandler(users UserService, cookieSecure bool, cookieDomain string, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:   users,
		cookies: cookieWriter{secure: cookieSecure, domain: cookieDomain},
		logger:  logger,
	}
}

// Get handles GET /api/v1/users/me.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("missing access token"), h.logger)
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// Update handles PATCH /api/v1/users/me.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("missing access token"), h.logger)
		return
	}

	var req domain.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	user, err := h.users.Update(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data:    user,
		Message: "user updated",
	})
}

// Delete handles DELETE /api/v1/users/me. The account, its assistant
// profile and its session are all removed; cookies are cleared.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("missing access token"), h.logger)
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	h.cookies.clearAuthCookies(w)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Message: "user deleted"})
}
