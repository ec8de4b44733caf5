// Package postgres implements the repository interfaces on PostgreSQL.
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

const uniqueViolationCode = "23505"

// UserRepository is the PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	db repository.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db repository.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, handle, email, password_hash, refresh_token, created_at, updated_at"

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Handle, &u.Email, &u.PasswordHash, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// Create inserts a new user. Duplicate handles or emails map to an
// AlreadyExists error naming the conflicting field.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, handle, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, user.ID, user.Handle, user.Email, user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			switch pgErr.ConstraintName {
			case "uq_users_email":
				return apperrors.AlreadyExists("user", "email", user.Email)
			default:
				return apperrors.AlreadyExists("user", "handle", user.Handle)
			}
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByHandleOrEmail matches a user where either given value equals the
// handle or the email, so swapped login inputs still resolve.
func (r *UserRepository) GetByHandleOrEmail(ctx context.Context, handle, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE handle IN ($1, $2) OR email IN ($1, $2)
		LIMIT 1`
	return scanUser(r.db.QueryRow(ctx, query, handle, email))
}

func (r *UserRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	return scanUser(r.db.QueryRow(ctx, query, token))
}

// Update persists mutable account fields (email and password hash).
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.AlreadyExists("user", "email", user.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetRefreshToken unconditionally overwrites the stored refresh token. The
// most recent login wins.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1`, id, token)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceRefreshToken is a compare-and-swap: the stored token must still
// equal current for the rotation to take effect.
func (r *UserRepository) ReplaceRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token = $3, updated_at = NOW() WHERE id = $1 AND refresh_token = $2`,
		id, current, next)
	if err != nil {
		return fmt.Errorf("replace refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ClearRefreshToken ends the user's session. It is idempotent: clearing an
// already-cleared slot succeeds.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}
