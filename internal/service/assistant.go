package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/utafrali/AssistantGo/internal/cache"
	"github.com/utafrali/AssistantGo/internal/domain"
	"github.com/utafrali/AssistantGo/internal/llm"
	"github.com/utafrali/AssistantGo/internal/repository"
	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
)

const defaultRole = "You are a helpful AI assistant."

// AssistantService assembles prompts from the user's profile and generates
// replies via the language model.
type AssistantService struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	cache     ProfileCache
	generator llm.Generator
	logger    *slog.Logger
}

// NewAssistantService creates the assistant service.
func NewAssistantService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	profileCache ProfileCache,
	generator llm.Generator,
	logger *slog.Logger,
) *AssistantService {
	return &AssistantService{
		users:     users,
		profiles:  profiles,
		cache:     profileCache,
		generator: generator,
		logger:    logger,
	}
}

// Profile returns the user's assistant profile, reading through the cache.
func (s *AssistantService) Profile(ctx context.Context, userID uuid.UUID) (*domain.AssistantProfile, error) {
	if cached, err := s.cache.Get(ctx, userID); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "profile cache read failed", slog.String("error", err.Error()))
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("assistant profile", userID.String())
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.cache.Set(ctx, profile); err != nil {
		s.logger.WarnContext(ctx, "profile cache write failed", slog.String("error", err.Error()))
	}

	return profile, nil
}

// Generate produces an assistant reply for the user's input. The prompt is
// built from the user's profile; a missing profile falls back to the
// default role.
func (s *AssistantService) Generate(ctx context.Context, userID uuid.UUID, req domain.GenerateRequest) (*domain.GenerateResponse, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, apperrors.InvalidInput("input is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", userID.String())
		}
		return nil, apperrors.Internal(err)
	}

	var profile *domain.AssistantProfile
	if p, err := s.Profile(ctx, userID); err == nil {
		profile = p
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	prompt := buildPrompt(user, profile, input)

	output, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "generation failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Internal(err)
	}

	return &domain.GenerateResponse{Output: output}, nil
}

// buildPrompt assembles the model prompt: the assistant's role, who the
// user is, any stored context, and the user's message.
func buildPrompt(user *domain.User, profile *domain.AssistantProfile, input string) string {
	role := defaultRole
	if profile != nil && strings.TrimSpace(profile.InitialPrompt) != "" {
		role = strings.TrimSpace(profile.InitialPrompt)
	}

	var sb strings.Builder
	sb.WriteString(role)
	sb.WriteString("\n\n")
	sb.WriteString("The user's name is ")
	sb.WriteString(user.Handle)
	sb.WriteString(" and their email is ")
	sb.WriteString(user.Email)
	sb.WriteString(".\n\n")

	if profile != nil && strings.TrimSpace(profile.ContextData) != "" {
		sb.WriteString("Use the following information about the user as context when answering:\n")
		sb.WriteString(profile.ContextData)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Try not to add any special symbols in your response.\n\n")
	sb.WriteString(input)

	return sb.String()
}
