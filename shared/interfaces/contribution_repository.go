package interfaces

import (
	"context"
	"time"

	"story-server/shared/models"

	"github.com/google/uuid"
)

//go:generate mockery --name ContributionRepository --output ./mocks --outpkg mocks

// ContributionRepository defines persistence of contributions and the
// story contribution list they belong to.
type ContributionRepository interface {
	// CreateAndAttach inserts the contribution and appends its id to the story
	// in one transaction. Returns models.ErrStoryNotFound if the story vanished.
	CreateAndAttach(ctx context.Context, c *models.Contribution) error

	// GetByID returns models.ErrContributionNotFound if the contribution does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contribution, error)

	// DeleteAndDetach removes the id from the story list and deletes the row in one transaction.
	DeleteAndDetach(ctx context.Context, c *models.Contribution) error

	// UpdateStatus sets the status of the contribution.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContributionStatus) error

	// ListByStory returns the story's contributions in narrative order.
	ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.ContributionDetails, error)

	// ListByAuthor returns the author's contributions, newest first, limited to stories
	// the viewer can read (uuid.Nil sees public stories only).
	ListByAuthor(ctx context.Context, authorID, viewerID uuid.UUID) ([]models.ContributionDetails, error)

	// List returns contributions newest first, starting after the (createdAt, id) keyset
	// position when afterID is not uuid.Nil.
	List(ctx context.Context, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]models.ContributionDetails, error)

	// Leaderboard aggregates evaluated contributions on public stories per author.
	// A nil since means all time.
	Leaderboard(ctx context.Context, since *time.Time, limit int) ([]models.LeaderboardEntry, error)
}
