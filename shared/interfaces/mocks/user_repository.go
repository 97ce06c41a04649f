package mocks

import (
	"context"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var _ interfaces.UserRepository = (*UserRepository)(nil)

// UserRepository is a mock type for the UserRepository type
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetSummaries(ctx context.Context, ids []uuid.UUID) ([]models.UserSummary, error) {
	args := m.Called(ctx, ids)
	if s := args.Get(0); s != nil {
		return s.([]models.UserSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, id, update)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *UserRepository) AwardPoints(ctx context.Context, id uuid.UUID, points float64, badges []string) error {
	args := m.Called(ctx, id, points, badges)
	return args.Error(0)
}

func (m *UserRepository) SearchByEmail(ctx context.Context, fragment string, limit int) ([]models.User, error) {
	args := m.Called(ctx, fragment, limit)
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}
