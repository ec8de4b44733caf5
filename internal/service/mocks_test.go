package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/utafrali/AssistantGo/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByHandleOrEmail(ctx context.Context, handle, email string) (*domain.User, error) {
	args := m.Called(ctx, handle, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	return m.Called(ctx, id, token).Error(0)
}

func (m *mockUserRepo) ReplaceRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	return m.Called(ctx, id, current, next).Error(0)
}

func (m *mockUserRepo) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *domain.AssistantProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AssistantProfile, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*domain.AssistantProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *domain.AssistantProfile) error {
	return m.Called(ctx, profile).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) UserRegistered(ctx context.Context, user *domain.User) {
	m.Called(ctx, user)
}

func (m *mockPublisher) UserUpdated(ctx context.Context, user *domain.User) {
	m.Called(ctx, user)
}

func (m *mockPublisher) UserDeleted(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

type mockProfileCache struct {
	mock.Mock
}

func (m *mockProfileCache) Get(ctx context.Context, userID uuid.UUID) (*domain.AssistantProfile, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*domain.AssistantProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileCache) Set(ctx context.Context, profile *domain.AssistantProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	m.Called(ctx, userID)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
