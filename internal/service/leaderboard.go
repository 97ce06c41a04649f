package service

import (
	"context"
	"fmt"
	"time"

	"story-server/shared/interfaces"
	"story-server/shared/models"
	"story-server/shared/utils"

	"go.uber.org/zap"
)

// LeaderboardService ranks authors by the scores of their evaluated contributions.
type LeaderboardService interface {
	Get(ctx context.Context, period models.LeaderboardPeriod, limit int) ([]models.LeaderboardEntry, error)
}

var _ LeaderboardService = (*leaderboardServiceImpl)(nil)

type leaderboardServiceImpl struct {
	contributionRepo interfaces.ContributionRepository
	now              func() time.Time
	logger           *zap.Logger
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(contributionRepo interfaces.ContributionRepository, logger *zap.Logger) LeaderboardService {
	return &leaderboardServiceImpl{
		contributionRepo: contributionRepo,
		now:              time.Now,
		logger:           logger.Named("LeaderboardService"),
	}
}

func (s *leaderboardServiceImpl) Get(ctx context.Context, period models.LeaderboardPeriod, limit int) ([]models.LeaderboardEntry, error) {
	if period == "" {
		period = models.LeaderboardAllTime
	}
	if !period.IsValid() {
		return nil, fmt.Errorf("%w: unknown period %q", models.ErrValidation, period)
	}
	limit = utils.ClampLimit(limit, models.DefaultLeaderboardLimit, models.MaxLeaderboardLimit)

	var since *time.Time
	if period == models.LeaderboardMonthly {
		from := s.now().Add(-models.MonthlyWindow)
		since = &from
	}

	entries, err := s.contributionRepo.Leaderboard(ctx, since, limit)
	if err != nil {
		s.logger.Error("Failed to build leaderboard", zap.String("period", string(period)), zap.Error(err))
		return nil, err
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, nil
}
