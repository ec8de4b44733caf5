package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/utafrali/AssistantGo/internal/auth"
	"github.com/utafrali/AssistantGo/internal/domain"
	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
	"github.com/utafrali/AssistantGo/pkg/httputil"
	"github.com/utafrali/AssistantGo/pkg/logger"
)

type contextKey string

const identityContextKey contextKey = "auth_identity"

// UserFinder resolves a verified token subject to a live account.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Authenticator is the access-token gate for protected routes.
type Authenticator struct {
	tokens *auth.TokenManager
	users  UserFinder
	logger *slog.Logger
}

// NewAuthenticator creates the auth middleware.
func NewAuthenticator(tokens *auth.TokenManager, users UserFinder, logger *slog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, logger: logger}
}

// accessTokenFromRequest extracts the access token, preferring the cookie
// over the Authorization header.
func accessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}

	return ""
}

// Middleware rejects requests without a valid access token, confirms the
// token's subject still exists, and stores the resolved identity in the
// request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := accessTokenFromRequest(r)
		if token == "" {
			httputil.WriteError(w, r, apperrors.Unauthorized("missing access token"), a.logger)
			return
		}

		claims, err := a.tokens.VerifyAccess(token)
		if err != nil {
			var msg string
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				msg = "access token expired"
			case errors.Is(err, auth.ErrTokenMalformed):
				msg = "access token malformed"
			default:
				msg = "access token invalid"
			}
			httputil.WriteError(w, r, apperrors.Unauthorized(msg), a.logger)
			return
		}

		subject, err := uuid.Parse(claims.Subject)
		if err != nil {
			httputil.WriteError(w, r, apperrors.Unauthorized("access token invalid"), a.logger)
			return
		}

		// The account may have been deleted since the token was issued.
		user, err := a.users.GetByID(r.Context(), subject)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				httputil.WriteError(w, r, apperrors.Unauthorized("account no longer exists"), a.logger)
				return
			}
			httputil.WriteError(w, r, apperrors.Internal(err), a.logger)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, user)
		ctx = logger.WithUserID(ctx, user.ID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFromContext returns the authenticated account stored by Middleware.
func identityFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(identityContextKey).(*domain.User)
	return user, ok
}

// userIDFromContext returns the authenticated user's ID.
func userIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	user, ok := identityFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}
