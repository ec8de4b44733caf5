// Package http exposes the service over a chi HTTP router.
package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/utafrali/AssistantGo/internal/domain"
	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
	"github.com/utafrali/AssistantGo/pkg/httputil"
)

// AuthService is the session lifecycle surface the auth handler drives.
type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

// AuthHandler serves registration, login, token refresh and logout.
type AuthHandler struct {
	auth    AuthService
	cookies cookieWriter
	logger  *slog.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth AuthService, cookieSecure bool, cookieDomain string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		cookies: cookieWriter{secure: cookieSecure, domain: cookieDomain},
		logger:  logger,
	}
}

// maxContextFileSize caps the uploaded context file at 1 MiB.
const maxContextFileSize = 1 << 20

// decodeRegisterRequest accepts either a JSON body or a multipart form. The
// multipart form may carry an optional text/plain "txtFile" part whose
// contents seed the assistant's context data.
func decodeRegisterRequest(w http.ResponseWriter, r *http.Request, req *domain.RegisterRequest) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return decodeJSON(w, r, req)
	}

	if err := r.ParseMultipartForm(maxContextFileSize); err != nil {
		return apperrors.InvalidInput("invalid multipart form")
	}

	req.Handle = r.FormValue("handle")
	req.Email = r.FormValue("email")
	req.Password = r.FormValue("password")
	req.InitialPrompt = r.FormValue("initial_prompt")

	file, header, err := r.FormFile("txtFile")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil
		}
		return apperrors.InvalidInput("invalid context file")
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "text/plain") {
		return apperrors.InvalidInput("context file must be text/plain")
	}

	data, err := io.ReadAll(io.LimitReader(file, maxContextFileSize))
	if err != nil {
		return apperrors.InvalidInput("failed to read context file")
	}
	req.ContextData = string(data)
	return nil
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeRegisterRequest(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data:    user,
		Message: "user registered",
	})
}

// Login handles POST /api/v1/auth/login. On success the token pair is
// returned in the body and set as cookies.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	h.cookies.setAuthCookies(w, resp.Tokens)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshTokenFromRequest extracts the refresh token from the cookie, then
// falls back to the request body.
func (h *AuthHandler) refreshTokenFromRequest(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(refreshTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.RefreshToken)
}

// Refresh handles POST /api/v1/auth/refresh. It rotates the session: the
// presented refresh token is retired and a fresh pair is issued.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFromRequest(w, r)
	if token == "" {
		writeError(w, r, apperrors.Unauthorized("refresh token is required"), h.logger)
		return
	}

	resp, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	h.cookies.setAuthCookies(w, resp.Tokens)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// Logout handles POST /api/v1/auth/logout. Requires authentication; clears
// the stored session and both cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Unauthorized("missing access token"), h.logger)
		return
	}

	if err := h.auth.Logout(r.Context(), userID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	h.cookies.clearAuthCookies(w)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Message: "logged out"})
}
