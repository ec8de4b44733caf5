package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/AssistantGo/internal/domain"
	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
)

func newProfileRepoMock(t *testing.T) (pgxmock.PgxPoolIface, *ProfileRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewProfileRepository(mock)
}

func TestProfileRepositoryCreate(t *testing.T) {
	mock, repo := newProfileRepoMock(t)

	profile := &domain.AssistantProfile{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		InitialPrompt: "You are a travel planner.",
	}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO assistant_profiles").
		WithArgs(profile.ID, profile.UserID, profile.InitialPrompt, profile.ContextData).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), profile))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryGetByUserIDNotFound(t *testing.T) {
	mock, repo := newProfileRepoMock(t)
	userID := uuid.New()

	mock.ExpectQuery("(?s)SELECT .+ FROM assistant_profiles").
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByUserID(context.Background(), userID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryUpdate(t *testing.T) {
	mock, repo := newProfileRepoMock(t)

	profile := &domain.AssistantProfile{
		UserID:        uuid.New(),
		InitialPrompt: "You are a pirate.",
		ContextData:   "ship manifest",
	}

	mock.ExpectQuery("UPDATE assistant_profiles").
		WithArgs(profile.UserID, profile.InitialPrompt, profile.ContextData).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	require.NoError(t, repo.Update(context.Background(), profile))
	assert.NoError(t, mock.ExpectationsWereMet())
}
