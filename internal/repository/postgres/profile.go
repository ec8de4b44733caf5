package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/AssistantGo/internal/domain"
	"github.com/utafrali/AssistantGo/internal/repository"
	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
)

// ProfileRepository is the PostgreSQL implementation of
// repository.ProfileRepository.
type ProfileRepository struct {
	db repository.DB
}

// NewProfileRepository creates a new assistant profile repository.
func NewProfileRepository(db repository.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.AssistantProfile) error {
	query := `
		INSERT INTO assistant_profiles (id, user_id, initial_prompt, context_data)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		profile.ID, profile.UserID, profile.InitialPrompt, profile.ContextData).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.AlreadyExists("assistant profile", "user_id", profile.UserID.String())
		}
		return fmt.Errorf("insert assistant profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AssistantProfile, error) {
	query := `
		SELECT id, user_id, initial_prompt, context_data, created_at, updated_at
		FROM assistant_profiles
		WHERE user_id = $1`

	var p domain.AssistantProfile
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.InitialPrompt, &p.ContextData, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("select assistant profile: %w", err)
	}

	return &p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.AssistantProfile) error {
	query := `
		UPDATE assistant_profiles
		SET initial_prompt = $2, context_data = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		profile.UserID, profile.InitialPrompt, profile.ContextData).
		Scan(&profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("update assistant profile: %w", err)
	}

	return nil
}
