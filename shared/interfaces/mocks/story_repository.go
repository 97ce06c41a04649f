package mocks

import (
	"context"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var _ interfaces.StoryRepository = (*StoryRepository)(nil)

// StoryRepository is a mock type for the StoryRepository type
type StoryRepository struct {
	mock.Mock
}

func (m *StoryRepository) Create(ctx context.Context, story *models.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}

func (m *StoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*models.Story), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoryRepository) Update(ctx context.Context, story *models.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}

func (m *StoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *StoryRepository) ListVisible(ctx context.Context, caller uuid.UUID) ([]models.StoryListItem, error) {
	args := m.Called(ctx, caller)
	if s := args.Get(0); s != nil {
		return s.([]models.StoryListItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Story, error) {
	args := m.Called(ctx, ownerID)
	if s := args.Get(0); s != nil {
		return s.([]models.Story), args.Error(1)
	}
	return nil, args.Error(1)
}
