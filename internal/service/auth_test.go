package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/AssistantGo/internal/auth"
	"github.com/utafrali/AssistantGo/internal/domain"
	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour, "test")
	require.NoError(t, err)
	return tm
}

type authFixture struct {
	users    *mockUserRepo
	profiles *mockProfileRepo
	events   *mockPublisher
	tokens   *auth.TokenManager
	svc      *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    &mockUserRepo{},
		profiles: &mockProfileRepo{},
		events:   &mockPublisher{},
		tokens:   newTestTokens(t),
	}
	f.svc = NewAuthService(f.users, f.profiles, f.tokens, auth.NewPasswordHasher(bcrypt.MinCost), f.events, discardLogger())
	return f
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.NewPasswordHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	return hash
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.On("GetByHandleOrEmail", ctx, "alice", "alice@example.com").
		Return(nil, apperrors.ErrNotFound)
	f.users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	f.profiles.On("Create", ctx, mock.AnythingOfType("*domain.AssistantProfile")).Return(nil)
	f.events.On("UserRegistered", ctx, mock.AnythingOfType("*domain.User")).Return()

	user, err := f.svc.Register(ctx, domain.RegisterRequest{
		Handle:        "  alice  ",
		Email:         "alice@example.com",
		Password:      "s3cure-pass",
		InitialPrompt: "You are a travel planner.",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Handle)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cure-pass", user.PasswordHash)

	f.users.AssertExpectations(t)
	f.profiles.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestRegisterRejectsBlankFields(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), domain.RegisterRequest{
		Handle:        "alice",
		Email:         "alice@example.com",
		Password:      "s3cure-pass",
		InitialPrompt: "   ",
	})
	assert.Error(t, err)

	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterConflict(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	existing := &domain.User{ID: uuid.New(), Handle: "bob", Email: "alice@example.com"}
	f.users.On("GetByHandleOrEmail", ctx, "alice", "alice@example.com").Return(existing, nil)

	_, err := f.svc.Register(ctx, domain.RegisterRequest{
		Handle:        "alice",
		Email:         "alice@example.com",
		Password:      "s3cure-pass",
		InitialPrompt: "prompt",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Handle:       "alice",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "s3cure-pass"),
	}

	f.users.On("GetByHandleOrEmail", ctx, "alice", "").Return(user, nil)
	f.users.On("SetRefreshToken", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)

	resp, err := f.svc.Login(ctx, domain.LoginRequest{Handle: "alice", Password: "s3cure-pass"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Empty(t, resp.User.PasswordHash)

	claims, err := f.tokens.VerifyAccess(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)

	f.users.AssertExpectations(t)
}

func TestLoginEmailInHandleSlot(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Handle:       "alice",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "s3cure-pass"),
	}

	// The client put the email where the handle goes; the lookup still
	// resolves the account.
	f.users.On("GetByHandleOrEmail", ctx, "alice@example.com", "").Return(user, nil)
	f.users.On("SetRefreshToken", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)

	resp, err := f.svc.Login(ctx, domain.LoginRequest{Handle: "alice@example.com", Password: "s3cure-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestLoginCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Handle:       "alice",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "s3cure-pass"),
	}

	// "ALICE" is normalized before the lookup.
	f.users.On("GetByHandleOrEmail", ctx, "alice", "").Return(user, nil)
	f.users.On("SetRefreshToken", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)

	resp, err := f.svc.Login(ctx, domain.LoginRequest{Handle: "ALICE", Password: "s3cure-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	f.users.AssertExpectations(t)
}

func TestLoginUnknownUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.On("GetByHandleOrEmail", ctx, "ghost", "").Return(nil, apperrors.ErrNotFound)

	_, err := f.svc.Login(ctx, domain.LoginRequest{Handle: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Handle:       "alice",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "s3cure-pass"),
	}
	f.users.On("GetByHandleOrEmail", ctx, "alice", "").Return(user, nil)

	_, err := f.svc.Login(ctx, domain.LoginRequest{Handle: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	f.users.AssertNotCalled(t, "SetRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginMissingIdentifiers(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), domain.LoginRequest{Password: "pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestLoginReplacesExistingSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	previous := "previous-session-token"
	user := &domain.User{
		ID:           uuid.New(),
		Handle:       "alice",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "s3cure-pass"),
		RefreshToken: &previous,
	}

	f.users.On("GetByHandleOrEmail", ctx, "alice", "").Return(user, nil)
	f.users.On("SetRefreshToken", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)

	resp, err := f.svc.Login(ctx, domain.LoginRequest{Handle: "alice", Password: "s3cure-pass"})
	require.NoError(t, err)
	assert.NotEqual(t, previous, resp.Tokens.RefreshToken)

	// The overwrite is unconditional; no compare-and-swap on login.
	f.users.AssertCalled(t, "SetRefreshToken", ctx, user.ID, resp.Tokens.RefreshToken)
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Handle: "alice", Email: "alice@example.com"}
	pair, err := f.tokens.GeneratePair(user)
	require.NoError(t, err)
	user.RefreshToken = &pair.RefreshToken

	f.users.On("GetByRefreshToken", ctx, pair.RefreshToken).Return(user, nil)
	f.users.On("ReplaceRefreshToken", ctx, user.ID, pair.RefreshToken, mock.AnythingOfType("string")).Return(nil)

	resp, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.NotEqual(t, pair.RefreshToken, resp.Tokens.RefreshToken)
	f.users.AssertExpectations(t)
}

func TestRefreshMissingToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh(context.Background(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	// Signature-valid token that no row holds (e.g. after logout).
	user := &domain.User{ID: uuid.New(), Handle: "alice", Email: "a@example.com"}
	pair, err := f.tokens.GeneratePair(user)
	require.NoError(t, err)

	f.users.On("GetByRefreshToken", ctx, pair.RefreshToken).Return(nil, apperrors.ErrNotFound)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshTamperedSubject(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tokenOwner := &domain.User{ID: uuid.New(), Handle: "mallory", Email: "m@example.com"}
	pair, err := f.tokens.GeneratePair(tokenOwner)
	require.NoError(t, err)

	// The stored row belongs to a different user than the token's subject.
	otherUser := &domain.User{ID: uuid.New(), Handle: "alice", Email: "a@example.com"}
	f.users.On("GetByRefreshToken", ctx, pair.RefreshToken).Return(otherUser, nil)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	f.users.AssertNotCalled(t, "ReplaceRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshSupersededByConcurrentLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Handle: "alice", Email: "a@example.com"}
	pair, err := f.tokens.GeneratePair(user)
	require.NoError(t, err)

	f.users.On("GetByRefreshToken", ctx, pair.RefreshToken).Return(user, nil)
	f.users.On("ReplaceRefreshToken", ctx, user.ID, pair.RefreshToken, mock.AnythingOfType("string")).
		Return(apperrors.ErrNotFound)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	id := uuid.New()

	f.users.On("ClearRefreshToken", ctx, id).Return(nil)

	assert.NoError(t, f.svc.Logout(ctx, id))
	f.users.AssertExpectations(t)
}
