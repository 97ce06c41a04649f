package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"story-server/internal/access"
	"story-server/internal/evaluation"
	"story-server/shared/interfaces"
	"story-server/shared/models"
	"story-server/shared/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultContributionPageSize = 50
	MaxContributionPageSize     = 200
)

// ContributionService handles evaluation, submission and moderation of contributions.
type ContributionService interface {
	Analyze(ctx context.Context, content string) (*models.Evaluation, error)
	Submit(ctx context.Context, storyID, authorID uuid.UUID, content string, eval *models.Evaluation) (*models.Contribution, error)
	Delete(ctx context.Context, contributionID, callerID uuid.UUID) error
	// List returns one page of all contributions, newest first, and the cursor of the next page.
	List(ctx context.Context, cursor string, limit int) ([]models.ContributionDetails, string, error)
	TransitionStatus(ctx context.Context, contributionID, callerID uuid.UUID, next models.ContributionStatus) (*models.Contribution, error)
}

var _ ContributionService = (*contributionServiceImpl)(nil)

type contributionServiceImpl struct {
	contributionRepo interfaces.ContributionRepository
	storyRepo        interfaces.StoryRepository
	userRepo         interfaces.UserRepository
	evaluator        evaluation.Evaluator
	notifier         NotificationService
	logger           *zap.Logger
}

// NewContributionService creates a new ContributionService.
func NewContributionService(
	contributionRepo interfaces.ContributionRepository,
	storyRepo interfaces.StoryRepository,
	userRepo interfaces.UserRepository,
	evaluator evaluation.Evaluator,
	notifier NotificationService,
	logger *zap.Logger,
) ContributionService {
	return &contributionServiceImpl{
		contributionRepo: contributionRepo,
		storyRepo:        storyRepo,
		userRepo:         userRepo,
		evaluator:        evaluator,
		notifier:         notifier,
		logger:           logger.Named("ContributionService"),
	}
}

// Analyze scores the text without storing anything.
func (s *contributionServiceImpl) Analyze(ctx context.Context, content string) (*models.Evaluation, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", models.ErrValidation)
	}
	eval, err := s.evaluator.Evaluate(ctx, content)
	if err != nil {
		evaluationsTotal.WithLabelValues("failure").Inc()
		if !errors.Is(err, models.ErrValidation) {
			s.logger.Error("Evaluation failed", zap.Error(err))
		}
		return nil, err
	}
	evaluationsTotal.WithLabelValues("success").Inc()
	return eval, nil
}

// Submit stores a contribution and appends it to the story. When an evaluation is
// attached the author is rewarded, and the owner is notified about foreign contributions.
func (s *contributionServiceImpl) Submit(ctx context.Context, storyID, authorID uuid.UUID, content string, eval *models.Evaluation) (*models.Contribution, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", models.ErrValidation)
	}
	if eval != nil {
		if err := eval.Validate(); err != nil {
			return nil, err
		}
	}

	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !access.CanContribute(story, authorID) {
		return nil, fmt.Errorf("%w: not a contributor of this private story", models.ErrForbidden)
	}

	status := models.ContributionStatusPending
	if eval != nil {
		status = models.ContributionStatusAccepted
	}
	contribution := &models.Contribution{
		Content:    content,
		AuthorID:   authorID,
		StoryID:    storyID,
		Status:     status,
		Evaluation: eval,
	}
	if err := s.contributionRepo.CreateAndAttach(ctx, contribution); err != nil {
		if !errors.Is(err, models.ErrStoryNotFound) {
			s.logger.Error("Failed to store contribution", zap.Stringer("storyID", storyID), zap.Error(err))
		}
		return nil, err
	}
	contributionsSubmittedTotal.WithLabelValues(string(status)).Inc()

	log := s.logger.With(
		zap.Stringer("contributionID", contribution.ID),
		zap.Stringer("storyID", storyID),
		zap.Stringer("authorID", authorID),
	)
	log.Info("Contribution stored", zap.String("status", string(status)))

	// Дальше побочные эффекты: их ошибки только логируются
	if eval != nil {
		points := eval.Points()
		if err := s.userRepo.AwardPoints(ctx, authorID, points, eval.EarnedBadges()); err != nil {
			log.Error("Failed to award points", zap.Float64("points", points), zap.Error(err))
		} else {
			pointsAwardedTotal.Add(points)
		}
	}
	if authorID != story.OwnerID {
		s.notifier.Notify(ctx, story.OwnerID, models.NotificationTypeContribution,
			fmt.Sprintf("New contribution to your story %q", story.Title),
			map[string]any{
				"storyId":        storyID.String(),
				"contributionId": contribution.ID.String(),
			},
		)
	}

	return contribution, nil
}

// Delete removes a contribution. Allowed for its author and the story owner.
func (s *contributionServiceImpl) Delete(ctx context.Context, contributionID, callerID uuid.UUID) error {
	contribution, err := s.contributionRepo.GetByID(ctx, contributionID)
	if err != nil {
		return err
	}
	story, err := s.storyRepo.GetByID(ctx, contribution.StoryID)
	if err != nil {
		return err
	}
	if !access.CanDeleteContribution(story, contribution, callerID) {
		return fmt.Errorf("%w: only the author or the story owner can delete a contribution", models.ErrForbidden)
	}
	if err := s.contributionRepo.DeleteAndDetach(ctx, contribution); err != nil {
		if !errors.Is(err, models.ErrContributionNotFound) {
			s.logger.Error("Failed to delete contribution", zap.Stringer("contributionID", contributionID), zap.Error(err))
		}
		return err
	}
	s.logger.Info("Contribution deleted",
		zap.Stringer("contributionID", contributionID),
		zap.Stringer("storyID", story.ID),
		zap.Stringer("by", callerID),
	)
	return nil
}

func (s *contributionServiceImpl) List(ctx context.Context, cursor string, limit int) ([]models.ContributionDetails, string, error) {
	afterCreatedAt, afterID, err := utils.DecodeCursor(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	limit = utils.ClampLimit(limit, DefaultContributionPageSize, MaxContributionPageSize)

	items, err := s.contributionRepo.List(ctx, afterCreatedAt, afterID, limit)
	if err != nil {
		s.logger.Error("Failed to list contributions", zap.Error(err))
		return nil, "", err
	}
	if items == nil {
		items = []models.ContributionDetails{}
	}

	var next string
	if len(items) == limit {
		last := items[len(items)-1]
		next = utils.EncodeCursor(last.CreatedAt, last.ID)
	}
	return items, next, nil
}

// TransitionStatus moderates a pending contribution. Only the story owner may do it.
func (s *contributionServiceImpl) TransitionStatus(ctx context.Context, contributionID, callerID uuid.UUID, next models.ContributionStatus) (*models.Contribution, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, next)
	}
	contribution, err := s.contributionRepo.GetByID(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	story, err := s.storyRepo.GetByID(ctx, contribution.StoryID)
	if err != nil {
		return nil, err
	}
	if !access.CanMutateStory(story, callerID) {
		return nil, fmt.Errorf("%w: only the story owner can moderate contributions", models.ErrForbidden)
	}
	if !contribution.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %w: %s -> %s", models.ErrValidation, models.ErrInvalidTransition, contribution.Status, next)
	}
	if err := s.contributionRepo.UpdateStatus(ctx, contributionID, next); err != nil {
		return nil, err
	}
	contribution.Status = next
	return contribution, nil
}
