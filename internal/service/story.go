package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"story-server/internal/access"
	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoryService manages stories and their membership.
type StoryService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input models.CreateStoryInput) (*models.Story, error)
	Get(ctx context.Context, storyID, callerID uuid.UUID) (*models.StoryDetails, error)
	Update(ctx context.Context, storyID, callerID uuid.UUID, input models.UpdateStoryInput) (*models.Story, error)
	Delete(ctx context.Context, storyID, callerID uuid.UUID) error
	List(ctx context.Context, callerID uuid.UUID) ([]models.StoryListItem, error)
}

var _ StoryService = (*storyServiceImpl)(nil)

type storyServiceImpl struct {
	storyRepo        interfaces.StoryRepository
	contributionRepo interfaces.ContributionRepository
	userRepo         interfaces.UserRepository
	logger           *zap.Logger
}

// NewStoryService creates a new StoryService.
func NewStoryService(
	storyRepo interfaces.StoryRepository,
	contributionRepo interfaces.ContributionRepository,
	userRepo interfaces.UserRepository,
	logger *zap.Logger,
) StoryService {
	return &storyServiceImpl{
		storyRepo:        storyRepo,
		contributionRepo: contributionRepo,
		userRepo:         userRepo,
		logger:           logger.Named("StoryService"),
	}
}

// Create stores a new story owned by ownerID. The owner is always the first contributor.
func (s *storyServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, input models.CreateStoryInput) (*models.Story, error) {
	title := strings.TrimSpace(input.Title)
	prompt := strings.TrimSpace(input.Prompt)
	if title == "" || prompt == "" {
		return nil, fmt.Errorf("%w: title and prompt are required", models.ErrValidation)
	}
	if !input.Genre.IsValid() {
		return nil, fmt.Errorf("%w: %w: %q", models.ErrValidation, models.ErrInvalidGenre, input.Genre)
	}

	contributors := withOwner(ownerID, nil)
	if input.IsPrivate {
		if err := s.ensureUsersExist(ctx, ownerID, input.Contributors); err != nil {
			return nil, err
		}
		contributors = withOwner(ownerID, input.Contributors)
	}

	story := &models.Story{
		Title:           title,
		Genre:           input.Genre,
		Prompt:          prompt,
		IsPrivate:       input.IsPrivate,
		OwnerID:         ownerID,
		ContributorIDs:  contributors,
		ContributionIDs: []uuid.UUID{},
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		s.logger.Error("Failed to create story", zap.Stringer("ownerID", ownerID), zap.Error(err))
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	storiesCreatedTotal.Inc()
	s.logger.Info("Story created",
		zap.Stringer("storyID", story.ID),
		zap.Stringer("ownerID", ownerID),
		zap.Bool("private", story.IsPrivate),
	)
	return story, nil
}

// Get returns the story with owner, contributors and contributions resolved.
func (s *storyServiceImpl) Get(ctx context.Context, storyID, callerID uuid.UUID) (*models.StoryDetails, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessStory(story, callerID) {
		return nil, fmt.Errorf("%w: story is private", models.ErrForbidden)
	}

	members := withOwner(story.OwnerID, story.ContributorIDs)
	summaries, err := s.userRepo.GetSummaries(ctx, members)
	if err != nil {
		s.logger.Error("Failed to resolve story members", zap.Stringer("storyID", storyID), zap.Error(err))
		return nil, fmt.Errorf("failed to resolve story members: %w", err)
	}
	byID := make(map[uuid.UUID]models.UserSummary, len(summaries))
	for _, summary := range summaries {
		byID[summary.ID] = summary
	}

	contributions, err := s.contributionRepo.ListByStory(ctx, storyID)
	if err != nil {
		s.logger.Error("Failed to list story contributions", zap.Stringer("storyID", storyID), zap.Error(err))
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	if contributions == nil {
		contributions = []models.ContributionDetails{}
	}

	details := &models.StoryDetails{
		Story:         *story,
		Owner:         byID[story.OwnerID],
		Contributors:  make([]models.UserSummary, 0, len(story.ContributorIDs)),
		Contributions: contributions,
	}
	for _, id := range story.ContributorIDs {
		if summary, ok := byID[id]; ok {
			details.Contributors = append(details.Contributors, summary)
		}
	}
	return details, nil
}

// Update applies a partial update. Only the owner may update, and the owner
// stays in the contributor set whatever list the client sends.
func (s *storyServiceImpl) Update(ctx context.Context, storyID, callerID uuid.UUID, input models.UpdateStoryInput) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !access.CanMutateStory(story, callerID) {
		return nil, fmt.Errorf("%w: only the owner can update the story", models.ErrForbidden)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", models.ErrValidation)
		}
		story.Title = title
	}
	if input.Prompt != nil {
		prompt := strings.TrimSpace(*input.Prompt)
		if prompt == "" {
			return nil, fmt.Errorf("%w: prompt cannot be empty", models.ErrValidation)
		}
		story.Prompt = prompt
	}
	if input.Genre != nil {
		if !input.Genre.IsValid() {
			return nil, fmt.Errorf("%w: %w: %q", models.ErrValidation, models.ErrInvalidGenre, *input.Genre)
		}
		story.Genre = *input.Genre
	}
	if input.IsPrivate != nil {
		story.IsPrivate = *input.IsPrivate
	}

	candidates := story.ContributorIDs
	if input.Contributors != nil {
		if err := s.ensureUsersExist(ctx, story.OwnerID, input.Contributors); err != nil {
			return nil, err
		}
		candidates = input.Contributors
	}
	story.ContributorIDs = withOwner(story.OwnerID, candidates)

	if err := s.storyRepo.Update(ctx, story); err != nil {
		if !errors.Is(err, models.ErrStoryNotFound) {
			s.logger.Error("Failed to update story", zap.Stringer("storyID", storyID), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("Story updated", zap.Stringer("storyID", storyID))
	return story, nil
}

// Delete removes the story and all of its contributions.
func (s *storyServiceImpl) Delete(ctx context.Context, storyID, callerID uuid.UUID) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if !access.CanMutateStory(story, callerID) {
		return fmt.Errorf("%w: only the owner can delete the story", models.ErrForbidden)
	}
	if err := s.storyRepo.Delete(ctx, storyID); err != nil {
		if !errors.Is(err, models.ErrStoryNotFound) {
			s.logger.Error("Failed to delete story", zap.Stringer("storyID", storyID), zap.Error(err))
		}
		return err
	}
	s.logger.Info("Story deleted", zap.Stringer("storyID", storyID), zap.Int("contributions", len(story.ContributionIDs)))
	return nil
}

// List returns the stories visible to callerID.
func (s *storyServiceImpl) List(ctx context.Context, callerID uuid.UUID) ([]models.StoryListItem, error) {
	items, err := s.storyRepo.ListVisible(ctx, callerID)
	if err != nil {
		s.logger.Error("Failed to list stories", zap.Error(err))
		return nil, err
	}
	if items == nil {
		items = []models.StoryListItem{}
	}
	return items, nil
}

// ensureUsersExist проверяет, что все приглашенные (кроме владельца) зарегистрированы.
func (s *storyServiceImpl) ensureUsersExist(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	others := withoutOwner(ownerID, ids)
	if len(others) == 0 {
		return nil
	}
	summaries, err := s.userRepo.GetSummaries(ctx, others)
	if err != nil {
		return fmt.Errorf("failed to check contributors: %w", err)
	}
	if len(summaries) != len(others) {
		found := make(map[uuid.UUID]struct{}, len(summaries))
		for _, summary := range summaries {
			found[summary.ID] = struct{}{}
		}
		for _, id := range others {
			if _, ok := found[id]; !ok {
				return fmt.Errorf("%w: unknown contributor %s", models.ErrValidation, id)
			}
		}
	}
	return nil
}

// withOwner returns the owner followed by the unique non-owner ids in their original order.
func withOwner(ownerID uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	return append([]uuid.UUID{ownerID}, withoutOwner(ownerID, ids)...)
}

func withoutOwner(ownerID uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{ownerID: {}, uuid.Nil: {}}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
