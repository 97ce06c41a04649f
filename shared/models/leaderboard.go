package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardPeriod selects the time window for a leaderboard.
type LeaderboardPeriod string

const (
	LeaderboardAllTime LeaderboardPeriod = "all-time"
	LeaderboardMonthly LeaderboardPeriod = "monthly"

	// Месячный рейтинг считается за последние 30 дней.
	MonthlyWindow = 30 * 24 * time.Hour

	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

// IsValid reports whether p is a known period.
func (p LeaderboardPeriod) IsValid() bool {
	return p == LeaderboardAllTime || p == LeaderboardMonthly
}

// LeaderboardEntry aggregates evaluated contributions of one author.
type LeaderboardEntry struct {
	UserID         uuid.UUID `json:"userId" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Username       string    `json:"username" db:"username"`
	ProfilePicture string    `json:"profilePicture" db:"profile_picture"`
	Points         float64   `json:"points" db:"points"`
	Badges         []string  `json:"badges" db:"badges"`
	TotalScore     int64     `json:"totalScore" db:"total_score"`
	Contributions  int64     `json:"contributions" db:"contributions"`
	AvgScore       float64   `json:"avgScore" db:"avg_score"`
}
