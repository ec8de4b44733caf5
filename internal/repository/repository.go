// Package repository defines the persistence interfaces for the assistant
// service.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/AssistantGo/internal/domain"
)

// DB is the subset of pgxpool.Pool used by the repositories. It is satisfied
// by *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository persists user accounts and their session state.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByHandleOrEmail matches a user whose handle or email equals either
	// of the two given values. Login callers may pass the same identifier in
	// both slots.
	GetByHandleOrEmail(ctx context.Context, handle, email string) (*domain.User, error)

	GetByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetRefreshToken unconditionally stores the user's active refresh
	// token, replacing any existing one.
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error

	// ReplaceRefreshToken swaps the stored token for a new one only if the
	// stored value still equals current. Returns ErrNotFound when the stored
	// token no longer matches.
	ReplaceRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error

	// ClearRefreshToken removes the user's active session. Clearing an
	// already-empty slot is not an error.
	ClearRefreshToken(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository persists per-user assistant prompt configuration.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.AssistantProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AssistantProfile, error)
	Update(ctx context.Context, profile *domain.AssistantProfile) error
}
