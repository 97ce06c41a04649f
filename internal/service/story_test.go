package service

import (
	"context"
	"testing"

	"story-server/shared/interfaces/mocks"
	"story-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type storyDeps struct {
	stories       *mocks.StoryRepository
	contributions *mocks.ContributionRepository
	users         *mocks.UserRepository
	svc           StoryService
}

func newStoryDeps() storyDeps {
	d := storyDeps{
		stories:       new(mocks.StoryRepository),
		contributions: new(mocks.ContributionRepository),
		users:         new(mocks.UserRepository),
	}
	d.svc = NewStoryService(d.stories, d.contributions, d.users, zap.NewNop())
	return d
}

func TestStoryService_Create_PrivateDedupesAndKeepsOwnerFirst(t *testing.T) {
	ctx := context.Background()
	d := newStoryDeps()
	owner, bob := uuid.New(), uuid.New()

	d.users.On("GetSummaries", ctx, []uuid.UUID{bob}).
		Return([]models.UserSummary{{ID: bob, Username: "bob"}}, nil).Once()
	d.stories.On("Create", ctx, mock.AnythingOfType("*models.Story")).Return(nil).Once()

	story, err := d.svc.Create(ctx, owner, models.CreateStoryInput{
		Title:        " Night ",
		Genre:        models.GenreMystery,
		Prompt:       "It was dark.",
		IsPrivate:    true,
		Contributors: []uuid.UUID{bob, bob, owner},
	})
	require.NoError(t, err)
	assert.Equal(t, "Night", story.Title)
	assert.Equal(t, []uuid.UUID{owner, bob}, story.ContributorIDs)
	assert.Empty(t, story.ContributionIDs)
	d.stories.AssertExpectations(t)
	d.users.AssertExpectations(t)
}

func TestStoryService_Create_PublicIgnoresContributors(t *testing.T) {
	ctx := context.Background()
	d := newStoryDeps()
	owner := uuid.New()
	d.stories.On("Create", ctx, mock.AnythingOfType("*models.Story")).Return(nil).Once()

	story, err := d.svc.Create(ctx, owner, models.CreateStoryInput{
		Title: "Open", Genre: models.GenreFantasy, Prompt: "Once", Contributors: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{owner}, story.ContributorIDs)
	d.users.AssertNotCalled(t, "GetSummaries", mock.Anything, mock.Anything)
}

func TestStoryService_Create_Validation(t *testing.T) {
	d := newStoryDeps()
	owner := uuid.New()

	_, err := d.svc.Create(context.Background(), owner, models.CreateStoryInput{Title: "T", Genre: "Poetry", Prompt: "P"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.ErrorIs(t, err, models.ErrInvalidGenre)

	_, err = d.svc.Create(context.Background(), owner, models.CreateStoryInput{Title: "  ", Genre: models.GenreOther, Prompt: "P"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestStoryService_Create_UnknownContributor(t *testing.T) {
	ctx := context.Background()
	d := newStoryDeps()
	owner, ghost := uuid.New(), uuid.New()
	d.users.On("GetSummaries", ctx, []uuid.UUID{ghost}).Return([]models.UserSummary{}, nil).Once()

	_, err := d.svc.Create(ctx, owner, models.CreateStoryInput{
		Title: "T", Genre: models.GenreOther, Prompt: "P", IsPrivate: true, Contributors: []uuid.UUID{ghost},
	})
	assert.ErrorIs(t, err, models.ErrValidation)
	d.stories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStoryService_Update_OwnerAlwaysStaysContributor(t *testing.T) {
	ctx := context.Background()
	owner, bob := uuid.New(), uuid.New()

	t.Run("contributor list without owner is corrected", func(t *testing.T) {
		d := newStoryDeps()
		story := &models.Story{ID: uuid.New(), OwnerID: owner, IsPrivate: true, ContributorIDs: []uuid.UUID{owner}}
		d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		d.users.On("GetSummaries", ctx, []uuid.UUID{bob}).Return([]models.UserSummary{{ID: bob}}, nil).Once()
		d.stories.On("Update", ctx, mock.AnythingOfType("*models.Story")).Return(nil).Once()

		updated, err := d.svc.Update(ctx, story.ID, owner, models.UpdateStoryInput{Contributors: []uuid.UUID{bob}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{owner, bob}, updated.ContributorIDs)
	})

	t.Run("empty contributor list keeps owner", func(t *testing.T) {
		d := newStoryDeps()
		story := &models.Story{ID: uuid.New(), OwnerID: owner, IsPrivate: true, ContributorIDs: []uuid.UUID{owner, bob}}
		d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		d.stories.On("Update", ctx, mock.AnythingOfType("*models.Story")).Return(nil).Once()

		updated, err := d.svc.Update(ctx, story.ID, owner, models.UpdateStoryInput{Contributors: []uuid.UUID{}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{owner}, updated.ContributorIDs)
	})

	t.Run("switching to public keeps stored contributors", func(t *testing.T) {
		d := newStoryDeps()
		story := &models.Story{ID: uuid.New(), OwnerID: owner, IsPrivate: true, ContributorIDs: []uuid.UUID{owner, bob}}
		d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		d.stories.On("Update", ctx, mock.AnythingOfType("*models.Story")).Return(nil).Once()

		public := false
		title := "Renamed"
		updated, err := d.svc.Update(ctx, story.ID, owner, models.UpdateStoryInput{IsPrivate: &public, Title: &title})
		require.NoError(t, err)
		assert.False(t, updated.IsPrivate)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, []uuid.UUID{owner, bob}, updated.ContributorIDs)
	})
}

func TestStoryService_Update_Forbidden(t *testing.T) {
	ctx := context.Background()
	d := newStoryDeps()
	owner, bob := uuid.New(), uuid.New()
	story := &models.Story{ID: uuid.New(), OwnerID: owner, IsPrivate: true, ContributorIDs: []uuid.UUID{owner, bob}}
	d.stories.On("GetByID", ctx, story.ID).Return(story, nil)

	title := "Hijack"
	_, err := d.svc.Update(ctx, story.ID, bob, models.UpdateStoryInput{Title: &title})
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = d.svc.Delete(ctx, story.ID, bob)
	assert.ErrorIs(t, err, models.ErrForbidden)
	d.stories.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	d.stories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStoryService_Get_AccessFollowsMembership(t *testing.T) {
	ctx := context.Background()
	d := newStoryDeps()
	owner, carol := uuid.New(), uuid.New()
	story := &models.Story{ID: uuid.New(), Title: "Secret", OwnerID: owner, IsPrivate: true, ContributorIDs: []uuid.UUID{owner}}
	d.stories.On("GetByID", ctx, story.ID).Return(story, nil)

	_, err := d.svc.Get(ctx, story.ID, carol)
	require.ErrorIs(t, err, models.ErrForbidden)
	_, err = d.svc.Get(ctx, story.ID, uuid.Nil)
	require.ErrorIs(t, err, models.ErrForbidden)

	// Carol добавлена в участники - теперь доступ есть
	story.ContributorIDs = []uuid.UUID{owner, carol}
	d.users.On("GetSummaries", ctx, []uuid.UUID{owner, carol}).
		Return([]models.UserSummary{{ID: owner, Username: "owner"}, {ID: carol, Username: "carol"}}, nil).Once()
	d.contributions.On("ListByStory", ctx, story.ID).Return(nil, nil).Once()

	details, err := d.svc.Get(ctx, story.ID, carol)
	require.NoError(t, err)
	assert.Equal(t, "owner", details.Owner.Username)
	require.Len(t, details.Contributors, 2)
	assert.Equal(t, "carol", details.Contributors[1].Username)
	assert.NotNil(t, details.Contributions)
}

func TestStoryService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	d := newStoryDeps()
	id := uuid.New()
	d.stories.On("GetByID", ctx, id).Return(nil, models.ErrStoryNotFound).Once()

	_, err := d.svc.Get(ctx, id, uuid.Nil)
	assert.ErrorIs(t, err, models.ErrStoryNotFound)
}

func TestStoryService_Delete(t *testing.T) {
	ctx := context.Background()
	d := newStoryDeps()
	owner := uuid.New()
	story := &models.Story{ID: uuid.New(), OwnerID: owner, ContributorIDs: []uuid.UUID{owner}}
	d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
	d.stories.On("Delete", ctx, story.ID).Return(nil).Once()

	require.NoError(t, d.svc.Delete(ctx, story.ID, owner))
	d.stories.AssertExpectations(t)
}
