package interfaces

import (
	"context"

	"story-server/shared/models"

	"github.com/google/uuid"
)

//go:generate mockery --name UserRepository --output ./mocks --outpkg mocks

// UserRepository defines persistence of users and their points/badges ledger.
type UserRepository interface {
	// Create inserts a new user and fills ID and timestamps.
	// Returns models.ErrUserAlreadyExists / models.ErrEmailAlreadyExists on duplicates.
	Create(ctx context.Context, user *models.User) error

	// GetByID returns models.ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail looks the user up by lower-cased email.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetSummaries returns public summaries for the ids that exist, in the order of ids.
	// Missing ids are skipped.
	GetSummaries(ctx context.Context, ids []uuid.UUID) ([]models.UserSummary, error)

	// UpdateProfile changes the non-nil fields and returns the updated user.
	UpdateProfile(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// AwardPoints atomically adds points and merges badges without duplicates.
	AwardPoints(ctx context.Context, id uuid.UUID, points float64, badges []string) error

	// SearchByEmail returns up to limit users whose email contains fragment (case-insensitive).
	SearchByEmail(ctx context.Context, fragment string, limit int) ([]models.User, error)
}
