package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"story-server/shared/interfaces/mocks"
	"story-server/shared/models"
	"story-server/shared/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedEvaluator struct {
	eval *models.Evaluation
	err  error
}

func (f fixedEvaluator) Evaluate(context.Context, string) (*models.Evaluation, error) {
	return f.eval, f.err
}

type contributionDeps struct {
	contributions *mocks.ContributionRepository
	stories       *mocks.StoryRepository
	users         *mocks.UserRepository
	notifier      *recordingNotifier
	svc           ContributionService
}

func newContributionDeps(evaluator fixedEvaluator) contributionDeps {
	d := contributionDeps{
		contributions: new(mocks.ContributionRepository),
		stories:       new(mocks.StoryRepository),
		users:         new(mocks.UserRepository),
		notifier:      &recordingNotifier{},
	}
	d.svc = NewContributionService(d.contributions, d.stories, d.users, evaluator, d.notifier, zap.NewNop())
	return d
}

func TestContributionService_Submit_WithEvaluation(t *testing.T) {
	ctx := context.Background()
	d := newContributionDeps(fixedEvaluator{})
	owner, bob := uuid.New(), uuid.New()
	story := &models.Story{ID: uuid.New(), Title: "Night", OwnerID: owner, IsPrivate: true, ContributorIDs: []uuid.UUID{owner, bob}}
	contributionID := uuid.New()

	d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
	d.contributions.On("CreateAndAttach", ctx, mock.MatchedBy(func(c *models.Contribution) bool {
		return c.Status == models.ContributionStatusAccepted && c.AuthorID == bob && c.StoryID == story.ID
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Contribution).ID = contributionID
	}).Return(nil).Once()
	d.users.On("AwardPoints", ctx, bob, 9.0, []string{models.BadgeCreative}).Return(nil).Once()

	eval := &models.Evaluation{Relevance: 8, Grammar: 9, Creativity: 10, TotalScore: 27, Feedback: "nice"}
	c, err := d.svc.Submit(ctx, story.ID, bob, "The door creaked.", eval)
	require.NoError(t, err)
	assert.Equal(t, contributionID, c.ID)
	assert.Equal(t, models.ContributionStatusAccepted, c.Status)

	require.Len(t, d.notifier.sent, 1)
	sent := d.notifier.sent[0]
	assert.Equal(t, owner, sent.UserID)
	assert.Equal(t, models.NotificationTypeContribution, sent.Type)
	assert.Equal(t, `New contribution to your story "Night"`, sent.Message)
	assert.Equal(t, story.ID.String(), sent.Data["storyId"])
	assert.Equal(t, contributionID.String(), sent.Data["contributionId"])

	d.contributions.AssertExpectations(t)
	d.users.AssertExpectations(t)
}

func TestContributionService_Submit_ByOwnerWithoutEvaluation(t *testing.T) {
	ctx := context.Background()
	d := newContributionDeps(fixedEvaluator{})
	owner := uuid.New()
	story := &models.Story{ID: uuid.New(), OwnerID: owner, ContributorIDs: []uuid.UUID{owner}}

	d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
	d.contributions.On("CreateAndAttach", ctx, mock.MatchedBy(func(c *models.Contribution) bool {
		return c.Status == models.ContributionStatusPending && c.Evaluation == nil
	})).Return(nil).Once()

	c, err := d.svc.Submit(ctx, story.ID, owner, "Chapter one.", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ContributionStatusPending, c.Status)
	assert.Empty(t, d.notifier.sent, "owner is never notified about own contributions")
	d.users.AssertNotCalled(t, "AwardPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContributionService_Submit_SideEffectFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	d := newContributionDeps(fixedEvaluator{})
	owner, bob := uuid.New(), uuid.New()
	story := &models.Story{ID: uuid.New(), OwnerID: owner, ContributorIDs: []uuid.UUID{owner}}

	d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
	d.contributions.On("CreateAndAttach", ctx, mock.Anything).Return(nil).Once()
	d.users.On("AwardPoints", ctx, bob, mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	eval := &models.Evaluation{Relevance: 5, Grammar: 5, Creativity: 5, TotalScore: 15, Feedback: "fine"}
	_, err := d.svc.Submit(ctx, story.ID, bob, "Public text.", eval)
	require.NoError(t, err)
	assert.Len(t, d.notifier.sent, 1)
}

func TestContributionService_Submit_Rejections(t *testing.T) {
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()
	private := &models.Story{ID: uuid.New(), OwnerID: owner, IsPrivate: true, ContributorIDs: []uuid.UUID{owner}}

	t.Run("non-member on private story", func(t *testing.T) {
		d := newContributionDeps(fixedEvaluator{})
		d.stories.On("GetByID", ctx, private.ID).Return(private, nil).Once()
		_, err := d.svc.Submit(ctx, private.ID, stranger, "text", nil)
		assert.ErrorIs(t, err, models.ErrForbidden)
		d.contributions.AssertNotCalled(t, "CreateAndAttach", mock.Anything, mock.Anything)
	})

	t.Run("missing story", func(t *testing.T) {
		d := newContributionDeps(fixedEvaluator{})
		id := uuid.New()
		d.stories.On("GetByID", ctx, id).Return(nil, models.ErrStoryNotFound).Once()
		_, err := d.svc.Submit(ctx, id, owner, "text", nil)
		assert.ErrorIs(t, err, models.ErrStoryNotFound)
	})

	t.Run("total does not match sum", func(t *testing.T) {
		d := newContributionDeps(fixedEvaluator{})
		eval := &models.Evaluation{Relevance: 8, Grammar: 9, Creativity: 10, TotalScore: 30}
		_, err := d.svc.Submit(ctx, private.ID, owner, "text", eval)
		assert.ErrorIs(t, err, models.ErrValidation)
		d.stories.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("evaluation without feedback", func(t *testing.T) {
		d := newContributionDeps(fixedEvaluator{})
		_, err := d.svc.Submit(ctx, private.ID, owner, "text", &models.Evaluation{})
		assert.ErrorIs(t, err, models.ErrInvalidEvaluation)
		d.contributions.AssertNotCalled(t, "CreateAndAttach", mock.Anything, mock.Anything)
	})

	t.Run("empty content", func(t *testing.T) {
		d := newContributionDeps(fixedEvaluator{})
		_, err := d.svc.Submit(ctx, private.ID, owner, "   ", nil)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestContributionService_Analyze(t *testing.T) {
	eval := &models.Evaluation{Relevance: 6, Grammar: 7, Creativity: 5, TotalScore: 18, Feedback: "ok"}
	d := newContributionDeps(fixedEvaluator{eval: eval})

	got, err := d.svc.Analyze(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, eval, got)

	_, err = d.svc.Analyze(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestContributionService_Delete(t *testing.T) {
	ctx := context.Background()
	owner, author, stranger := uuid.New(), uuid.New(), uuid.New()
	story := &models.Story{ID: uuid.New(), OwnerID: owner, ContributorIDs: []uuid.UUID{owner}}
	contribution := &models.Contribution{ID: uuid.New(), StoryID: story.ID, AuthorID: author}

	for _, caller := range []uuid.UUID{owner, author} {
		d := newContributionDeps(fixedEvaluator{})
		d.contributions.On("GetByID", ctx, contribution.ID).Return(contribution, nil).Once()
		d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		d.contributions.On("DeleteAndDetach", ctx, contribution).Return(nil).Once()

		require.NoError(t, d.svc.Delete(ctx, contribution.ID, caller))
		d.contributions.AssertExpectations(t)
	}

	d := newContributionDeps(fixedEvaluator{})
	d.contributions.On("GetByID", ctx, contribution.ID).Return(contribution, nil).Once()
	d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
	err := d.svc.Delete(ctx, contribution.ID, stranger)
	assert.ErrorIs(t, err, models.ErrForbidden)
	d.contributions.AssertNotCalled(t, "DeleteAndDetach", mock.Anything, mock.Anything)
}

func TestContributionService_List(t *testing.T) {
	ctx := context.Background()
	d := newContributionDeps(fixedEvaluator{})

	now := time.Now().UTC()
	page := []models.ContributionDetails{
		{Contribution: models.Contribution{ID: uuid.New(), CreatedAt: now}},
		{Contribution: models.Contribution{ID: uuid.New(), CreatedAt: now.Add(-time.Minute)}},
	}
	d.contributions.On("List", ctx, time.Time{}, uuid.Nil, 2).Return(page, nil).Once()

	items, next, err := d.svc.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	require.NotEmpty(t, next)

	at, id, err := utils.DecodeCursor(next)
	require.NoError(t, err)
	assert.Equal(t, page[1].ID, id)
	assert.True(t, at.Equal(page[1].CreatedAt))

	// Неполная страница - курсора нет
	d.contributions.On("List", ctx, mock.Anything, page[1].ID, 2).Return(page[:1], nil).Once()
	_, next, err = d.svc.List(ctx, next, 2)
	require.NoError(t, err)
	assert.Empty(t, next)

	_, _, err = d.svc.List(ctx, "%%%", 2)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestContributionService_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	owner, author := uuid.New(), uuid.New()
	story := &models.Story{ID: uuid.New(), OwnerID: owner}

	t.Run("owner accepts pending", func(t *testing.T) {
		d := newContributionDeps(fixedEvaluator{})
		c := &models.Contribution{ID: uuid.New(), StoryID: story.ID, AuthorID: author, Status: models.ContributionStatusPending}
		d.contributions.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()
		d.contributions.On("UpdateStatus", ctx, c.ID, models.ContributionStatusAccepted).Return(nil).Once()

		got, err := d.svc.TransitionStatus(ctx, c.ID, owner, models.ContributionStatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, models.ContributionStatusAccepted, got.Status)
	})

	t.Run("final status cannot change", func(t *testing.T) {
		d := newContributionDeps(fixedEvaluator{})
		c := &models.Contribution{ID: uuid.New(), StoryID: story.ID, Status: models.ContributionStatusAccepted}
		d.contributions.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()

		_, err := d.svc.TransitionStatus(ctx, c.ID, owner, models.ContributionStatusRejected)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("author is not a moderator", func(t *testing.T) {
		d := newContributionDeps(fixedEvaluator{})
		c := &models.Contribution{ID: uuid.New(), StoryID: story.ID, AuthorID: author, Status: models.ContributionStatusPending}
		d.contributions.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		d.stories.On("GetByID", ctx, story.ID).Return(story, nil).Once()

		_, err := d.svc.TransitionStatus(ctx, c.ID, author, models.ContributionStatusAccepted)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}
