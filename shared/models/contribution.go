package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContributionStatus - статус вклада в историю.
type ContributionStatus string

const (
	ContributionStatusPending  ContributionStatus = "pending"
	ContributionStatusAccepted ContributionStatus = "accepted"
	ContributionStatusRejected ContributionStatus = "rejected"
)

// IsValid reports whether s is a known status.
func (s ContributionStatus) IsValid() bool {
	switch s {
	case ContributionStatusPending, ContributionStatusAccepted, ContributionStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a contribution in status s may move to next.
// Only pending contributions can be moderated; accepted and rejected are final.
func (s ContributionStatus) CanTransitionTo(next ContributionStatus) bool {
	if s != ContributionStatusPending {
		return false
	}
	return next == ContributionStatusAccepted || next == ContributionStatusRejected
}

const (
	MinSubScore = 0
	MaxSubScore = 10
)

// Evaluation is the score record attached to a contribution.
type Evaluation struct {
	Relevance  int    `json:"relevance"`
	Grammar    int    `json:"grammar"`
	Creativity int    `json:"creativity"`
	TotalScore int    `json:"totalScore"`
	Feedback   string `json:"feedback"`
}

// Sum returns relevance + grammar + creativity.
func (e Evaluation) Sum() int {
	return e.Relevance + e.Grammar + e.Creativity
}

// Validate checks sub-score ranges, that the total matches their sum and that feedback is present.
func (e Evaluation) Validate() error {
	scores := []struct {
		name  string
		value int
	}{
		{"relevance", e.Relevance},
		{"grammar", e.Grammar},
		{"creativity", e.Creativity},
	}
	for _, s := range scores {
		if s.value < MinSubScore || s.value > MaxSubScore {
			return fmt.Errorf("%w: %w: %s must be between %d and %d, got %d",
				ErrValidation, ErrInvalidEvaluation, s.name, MinSubScore, MaxSubScore, s.value)
		}
	}
	if e.TotalScore != e.Sum() {
		return fmt.Errorf("%w: %w: totalScore %d does not equal the sum of sub-scores %d",
			ErrValidation, ErrInvalidEvaluation, e.TotalScore, e.Sum())
	}
	// Пустой объект оценки не должен сходить за проверенный вклад
	if strings.TrimSpace(e.Feedback) == "" {
		return fmt.Errorf("%w: %w: feedback is required", ErrValidation, ErrInvalidEvaluation)
	}
	return nil
}

// Points is the mean of the three sub-scores, added to the author's total.
func (e Evaluation) Points() float64 {
	return float64(e.Sum()) / 3
}

// EarnedBadges returns badges for every sub-score at the maximum.
func (e Evaluation) EarnedBadges() []string {
	var badges []string
	if e.Relevance == MaxSubScore {
		badges = append(badges, BadgeRelevant)
	}
	if e.Grammar == MaxSubScore {
		badges = append(badges, BadgeGrammarian)
	}
	if e.Creativity == MaxSubScore {
		badges = append(badges, BadgeCreative)
	}
	return badges
}

// Contribution is a piece of text added to a story.
type Contribution struct {
	ID         uuid.UUID          `json:"id"`
	Content    string             `json:"content"`
	AuthorID   uuid.UUID          `json:"authorId"`
	StoryID    uuid.UUID          `json:"storyId"`
	Status     ContributionStatus `json:"status"`
	Evaluation *Evaluation        `json:"evaluation,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// ContributionDetails adds author and story context for listings.
type ContributionDetails struct {
	Contribution
	Author     UserSummary `json:"author"`
	StoryTitle string      `json:"storyTitle,omitempty"`
}
