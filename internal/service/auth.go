// Package service implements the business logic of the assistant service.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/utafrali/AssistantGo/internal/auth"
	"github.com/utafrali/AssistantGo/internal/domain"
	"github.com/utafrali/AssistantGo/internal/event"
	"github.com/utafrali/AssistantGo/internal/repository"
	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
	"github.com/utafrali/AssistantGo/pkg/validator"
)

// AuthService implements registration, login, token refresh and logout.
type AuthService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	tokens   *auth.TokenManager
	hasher   *auth.PasswordHasher
	events   event.Publisher
	logger   *slog.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	tokens *auth.TokenManager,
	hasher *auth.PasswordHasher,
	events event.Publisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		hasher:   hasher,
		events:   events,
		logger:   logger,
	}
}

// Register creates a new account with its assistant profile. Handles and
// emails must be unique across all users.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	// Handles and emails are case-normalized so uniqueness and login
	// matching are case-insensitive.
	req.Handle = strings.ToLower(strings.TrimSpace(req.Handle))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.InitialPrompt = strings.TrimSpace(req.InitialPrompt)
	req.ContextData = strings.TrimSpace(req.ContextData)

	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByHandleOrEmail(ctx, req.Handle, req.Email); err == nil {
		if existing.Email == req.Email {
			return nil, apperrors.AlreadyExists("user", "email", req.Email)
		}
		return nil, apperrors.AlreadyExists("user", "handle", req.Handle)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Handle:       req.Handle,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}

	profile := &domain.AssistantProfile{
		ID:            uuid.New(),
		UserID:        user.ID,
		InitialPrompt: req.InitialPrompt,
		ContextData:   req.ContextData,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create assistant profile: %w", err))
	}

	s.events.UserRegistered(ctx, user)

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("handle", user.Handle),
	)

	return user, nil
}

// Login verifies credentials and starts a fresh session, replacing any
// session that was active before. Either identifier field may carry the
// handle or the email.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	req.Handle = strings.ToLower(strings.TrimSpace(req.Handle))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Handle == "" && req.Email == "" {
		return nil, apperrors.InvalidInput("handle or email is required")
	}
	if req.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.users.GetByHandleOrEmail(ctx, req.Handle, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("no account matches the given handle or email")
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, apperrors.Internal(err)
	}

	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID.String()))

	user.PasswordHash = ""
	return &domain.AuthResponse{User: user, Tokens: pair}, nil
}

// Refresh rotates the session: it validates the presented refresh token
// against the stored one, verifies its signature and expiry, and issues a
// new pair. The stored token is the source of truth; a logged-out or
// superseded token is rejected regardless of its signature.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.Unauthorized("refresh token is required")
	}

	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("refresh token not recognized")
		}
		return nil, apperrors.Internal(err)
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, apperrors.Unauthorized("refresh token expired")
		default:
			return nil, apperrors.Unauthorized("refresh token invalid")
		}
	}

	// A stored token whose subject is not the row it lives on has been
	// tampered with.
	if claims.Subject != user.ID.String() {
		s.logger.WarnContext(ctx, "refresh token subject mismatch",
			slog.String("user_id", user.ID.String()),
		)
		return nil, apperrors.Unauthorized("refresh token tampered")
	}

	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.users.ReplaceRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Lost a race with a concurrent login or refresh.
			return nil, apperrors.Unauthorized("refresh token superseded")
		}
		return nil, apperrors.Internal(err)
	}

	return &domain.AuthResponse{Tokens: pair}, nil
}

// Logout ends the user's session. Logging out without an active session
// succeeds.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "user logged out", slog.String("user_id", userID.String()))
	return nil
}
