package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/AssistantGo/internal/auth"
	"github.com/utafrali/AssistantGo/internal/domain"
	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
)

type userFixture struct {
	users    *mockUserRepo
	profiles *mockProfileRepo
	cache    *mockProfileCache
	events   *mockPublisher
	svc      *UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		users:    &mockUserRepo{},
		profiles: &mockProfileRepo{},
		cache:    &mockProfileCache{},
		events:   &mockPublisher{},
	}
	f.svc = NewUserService(f.users, f.profiles, f.cache, auth.NewPasswordHasher(bcrypt.MinCost), f.events, discardLogger())
	return f
}

func strPtr(s string) *string { return &s }

func TestUserGet(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.users.On("GetByID", ctx, id).Return(&domain.User{
		ID: id, Handle: "alice", Email: "alice@example.com", PasswordHash: "hash",
	}, nil)

	user, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Handle)
	assert.Empty(t, user.PasswordHash)
}

func TestUserGetNotFound(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.users.On("GetByID", ctx, id).Return(nil, apperrors.ErrNotFound)

	_, err := f.svc.Get(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserUpdateRejectsEmptyRequest(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.Update(context.Background(), uuid.New(), domain.UpdateUserRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUserUpdateEmail(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.users.On("GetByID", ctx, id).Return(&domain.User{
		ID: id, Handle: "alice", Email: "old@example.com", PasswordHash: "hash",
	}, nil)
	f.users.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	f.events.On("UserUpdated", ctx, mock.AnythingOfType("*domain.User")).Return()

	user, err := f.svc.Update(ctx, id, domain.UpdateUserRequest{Email: strPtr("new@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	f.users.AssertExpectations(t)
}

func TestUserUpdatePasswordRequiresOldPassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.users.On("GetByID", ctx, id).Return(&domain.User{
		ID: id, PasswordHash: hashPassword(t, "old-password"),
	}, nil)

	_, err := f.svc.Update(ctx, id, domain.UpdateUserRequest{NewPassword: strPtr("new-password")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.svc.Update(ctx, id, domain.UpdateUserRequest{
		NewPassword: strPtr("new-password"),
		OldPassword: strPtr("wrong-old"),
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserUpdatePassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	id := uuid.New()

	oldHash := hashPassword(t, "old-password")
	f.users.On("GetByID", ctx, id).Return(&domain.User{ID: id, PasswordHash: oldHash}, nil)
	f.users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.PasswordHash != oldHash
	})).Return(nil)
	f.events.On("UserUpdated", ctx, mock.AnythingOfType("*domain.User")).Return()

	_, err := f.svc.Update(ctx, id, domain.UpdateUserRequest{
		NewPassword: strPtr("new-password"),
		OldPassword: strPtr("old-password"),
	})
	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestUserUpdateProfileInvalidatesCache(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.users.On("GetByID", ctx, id).Return(&domain.User{ID: id}, nil)
	f.profiles.On("GetByUserID", ctx, id).Return(&domain.AssistantProfile{
		UserID: id, InitialPrompt: "old prompt",
	}, nil)
	f.profiles.On("Update", ctx, mock.MatchedBy(func(p *domain.AssistantProfile) bool {
		return p.InitialPrompt == "new prompt"
	})).Return(nil)
	f.cache.On("Invalidate", ctx, id).Return()
	f.events.On("UserUpdated", ctx, mock.AnythingOfType("*domain.User")).Return()

	_, err := f.svc.Update(ctx, id, domain.UpdateUserRequest{InitialPrompt: strPtr("new prompt")})
	require.NoError(t, err)

	f.profiles.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestUserDelete(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.users.On("Delete", ctx, id).Return(nil)
	f.cache.On("Invalidate", ctx, id).Return()
	f.events.On("UserDeleted", ctx, id.String()).Return()

	require.NoError(t, f.svc.Delete(ctx, id))
	f.users.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestUserDeleteNotFound(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.users.On("Delete", ctx, id).Return(apperrors.ErrNotFound)

	err := f.svc.Delete(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.events.AssertNotCalled(t, "UserDeleted", mock.Anything, mock.Anything)
}
