package interfaces

import (
	"context"

	"story-server/shared/models"

	"github.com/google/uuid"
)

//go:generate mockery --name StoryRepository --output ./mocks --outpkg mocks

// StoryRepository defines persistence of stories.
type StoryRepository interface {
	// Create inserts the story and fills ID and timestamps.
	Create(ctx context.Context, story *models.Story) error

	// GetByID returns models.ErrStoryNotFound if the story does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error)

	// Update writes title, genre, prompt, visibility and contributors.
	// The contribution list is never touched here.
	Update(ctx context.Context, story *models.Story) error

	// Delete removes the story together with its contributions.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListVisible returns public stories plus stories owned by or shared with caller, newest first.
	// uuid.Nil as caller means anonymous.
	ListVisible(ctx context.Context, caller uuid.UUID) ([]models.StoryListItem, error)

	// ListByOwner returns stories owned by the user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Story, error)
}
