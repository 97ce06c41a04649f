package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"story-server/internal/access"
	"story-server/internal/config"
	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailSearchLimit - сколько пользователей максимум отдает поиск по email.
const EmailSearchLimit = 5

// UserService serves profiles and account settings.
type UserService interface {
	Profile(ctx context.Context, callerID, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	SearchByEmail(ctx context.Context, fragment string) ([]models.User, error)
}

var _ UserService = (*userServiceImpl)(nil)

type userServiceImpl struct {
	userRepo         interfaces.UserRepository
	storyRepo        interfaces.StoryRepository
	contributionRepo interfaces.ContributionRepository
	cfg              *config.Config
	logger           *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo interfaces.UserRepository,
	storyRepo interfaces.StoryRepository,
	contributionRepo interfaces.ContributionRepository,
	cfg *config.Config,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:         userRepo,
		storyRepo:        storyRepo,
		contributionRepo: contributionRepo,
		cfg:              cfg,
		logger:           logger.Named("UserService"),
	}
}

// Profile returns the user with the stories they own and the contributions they wrote.
// Private stories and contributions to them are shown only to members of that story.
func (s *userServiceImpl) Profile(ctx context.Context, callerID, userID uuid.UUID) (*models.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned, err := s.storyRepo.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list user stories", zap.Stringer("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	stories := make([]models.Story, 0, len(owned))
	for i := range owned {
		if access.CanAccessStory(&owned[i], callerID) {
			stories = append(stories, owned[i])
		}
	}
	contributions, err := s.contributionRepo.ListByAuthor(ctx, userID, callerID)
	if err != nil {
		s.logger.Error("Failed to list user contributions", zap.Stringer("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	if contributions == nil {
		contributions = []models.ContributionDetails{}
	}
	return &models.UserProfile{User: user, Stories: stories, Contributions: contributions}, nil
}

// UpdateProfile applies the provided non-empty fields.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	update.Name = nonEmpty(update.Name)
	update.Bio = nonEmpty(update.Bio)
	update.ProfilePicture = nonEmpty(update.ProfilePicture)

	if update.Name == nil && update.Bio == nil && update.ProfilePicture == nil {
		// Нечего менять, просто отдаем текущий профиль
		return s.userRepo.GetByID(ctx, userID)
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		if !errors.Is(err, models.ErrUserNotFound) {
			s.logger.Error("Failed to update profile", zap.Stringer("userID", userID), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("Profile updated", zap.Stringer("userID", userID))
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: current and new password are required", models.ErrValidation)
	}
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, MinPasswordLength)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPasswordHash(currentPassword, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Password change with wrong current password", zap.Stringer("userID", userID))
		return fmt.Errorf("%w: %w", models.ErrValidation, models.ErrWrongPassword)
	}

	hashed, err := hashPassword(newPassword, s.cfg.PasswordPepper)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		s.logger.Error("Failed to update password", zap.Stringer("userID", userID), zap.Error(err))
		return err
	}
	s.logger.Info("Password changed", zap.Stringer("userID", userID))
	return nil
}

// SearchByEmail finds users whose email contains the fragment.
func (s *userServiceImpl) SearchByEmail(ctx context.Context, fragment string) ([]models.User, error) {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		return nil, fmt.Errorf("%w: email fragment is required", models.ErrValidation)
	}
	users, err := s.userRepo.SearchByEmail(ctx, fragment, EmailSearchLimit)
	if err != nil {
		s.logger.Error("Failed to search users by email", zap.Error(err))
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func nonEmpty(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
