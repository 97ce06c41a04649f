package mocks

import (
	"context"
	"time"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var _ interfaces.ContributionRepository = (*ContributionRepository)(nil)

// ContributionRepository is a mock type for the ContributionRepository type
type ContributionRepository struct {
	mock.Mock
}

func (m *ContributionRepository) CreateAndAttach(ctx context.Context, c *models.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ContributionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contribution, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Contribution), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContributionRepository) DeleteAndDetach(ctx context.Context, c *models.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ContributionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContributionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *ContributionRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.ContributionDetails, error) {
	args := m.Called(ctx, storyID)
	if c := args.Get(0); c != nil {
		return c.([]models.ContributionDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContributionRepository) ListByAuthor(ctx context.Context, authorID, viewerID uuid.UUID) ([]models.ContributionDetails, error) {
	args := m.Called(ctx, authorID, viewerID)
	if c := args.Get(0); c != nil {
		return c.([]models.ContributionDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContributionRepository) List(ctx context.Context, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]models.ContributionDetails, error) {
	args := m.Called(ctx, afterCreatedAt, afterID, limit)
	if c := args.Get(0); c != nil {
		return c.([]models.ContributionDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContributionRepository) Leaderboard(ctx context.Context, since *time.Time, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, since, limit)
	if e := args.Get(0); e != nil {
		return e.([]models.LeaderboardEntry), args.Error(1)
	}
	return nil, args.Error(1)
}
