package service

import (
	"context"
	"errors"
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

// ProfileCache is the cache-aside store for assistant profiles. A nil error
// from Get means a hit; misses are reported via cache.ErrCacheMiss.
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.AssistantProfile, error)
	Set(ctx context.Context, profile *domain.AssistantProfile) error
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// UserService implements account management.
type UserService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	cache    ProfileCache
	hasher   *auth.PasswordHasher
	events   event.Publisher
	logger   *slog.Logger
}

// NewUserService creates the user service.
func NewUserService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	cache ProfileCache,
	hasher *auth.PasswordHasher,
	events event.Publisher,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		profiles: profiles,
		cache:    cache,
		hasher:   hasher,
		events:   events,
		logger:   logger,
	}
}

// Get returns the account for the given ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id.String())
		}
		return nil, apperrors.Internal(err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Update applies a partial account update. At least one field must be set;
// changing the password requires the current one.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req domain.UpdateUserRequest) (*domain.User, error) {
	if req.IsEmpty() {
		return nil, apperrors.InvalidInput("at least one field must be provided")
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id.String())
		}
		return nil, apperrors.Internal(err)
	}

	accountChanged := false

	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		accountChanged = true
	}

	if req.NewPassword != nil {
		if req.OldPassword == nil || *req.OldPassword == "" {
			return nil, apperrors.InvalidInput("old password is required to set a new one")
		}
		if err := s.hasher.Compare(user.PasswordHash, *req.OldPassword); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return nil, apperrors.Unauthorized("old password does not match")
			}
			return nil, apperrors.Internal(err)
		}

		hash, err := s.hasher.Hash(*req.NewPassword)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		user.PasswordHash = hash
		accountChanged = true
	}

	if accountChanged {
		if err := s.users.Update(ctx, user); err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				return nil, err
			}
			return nil, apperrors.Internal(err)
		}
	}

	if req.InitialPrompt != nil || req.ContextData != nil {
		if err := s.updateProfile(ctx, id, req.InitialPrompt, req.ContextData); err != nil {
			return nil, err
		}
	}

	s.events.UserUpdated(ctx, user)

	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) updateProfile(ctx context.Context, userID uuid.UUID, initialPrompt, contextData *string) error {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("assistant profile", userID.String())
		}
		return apperrors.Internal(err)
	}

	if initialPrompt != nil {
		profile.InitialPrompt = strings.TrimSpace(*initialPrompt)
	}
	if contextData != nil {
		profile.ContextData = *contextData
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return apperrors.Internal(err)
	}

	s.cache.Invalidate(ctx, userID)
	return nil
}

// Delete removes the account, its assistant profile and any active session.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user", id.String())
		}
		return apperrors.Internal(err)
	}

	s.cache.Invalidate(ctx, id)
	s.events.UserDeleted(ctx, id.String())

	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id.String()))
	return nil
}
