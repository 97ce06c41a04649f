package models

import (
	"time"

	"github.com/google/uuid"
)

// Genre - жанр истории из фиксированного списка.
type Genre string

const (
	GenreFantasy    Genre = "Fantasy"
	GenreSciFi      Genre = "Sci-Fi"
	GenreMystery    Genre = "Mystery"
	GenreRomance    Genre = "Romance"
	GenreHorror     Genre = "Horror"
	GenreThriller   Genre = "Thriller"
	GenreHistorical Genre = "Historical"
	GenreAdventure  Genre = "Adventure"
	GenreCyberpunk  Genre = "Cyberpunk"
	GenreOther      Genre = "Other"
)

// Genres lists every accepted genre in display order.
var Genres = []Genre{
	GenreFantasy, GenreSciFi, GenreMystery, GenreRomance, GenreHorror,
	GenreThriller, GenreHistorical, GenreAdventure, GenreCyberpunk, GenreOther,
}

// IsValid reports whether g is one of the known genres.
func (g Genre) IsValid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// Story is a collaboratively written narrative.
// ContributionIDs is append-only and its order is the narrative order.
type Story struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	Title           string      `json:"title" db:"title"`
	Genre           Genre       `json:"genre" db:"genre"`
	Prompt          string      `json:"prompt" db:"prompt"`
	IsPrivate       bool        `json:"isPrivate" db:"is_private"`
	OwnerID         uuid.UUID   `json:"ownerId" db:"owner_id"`
	ContributorIDs  []uuid.UUID `json:"contributorIds" db:"contributor_ids"`
	ContributionIDs []uuid.UUID `json:"contributionIds" db:"contribution_ids"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// HasContributor reports whether userID is in the stored contributor set.
func (s *Story) HasContributor(userID uuid.UUID) bool {
	for _, id := range s.ContributorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// StoryListItem - элемент списка историй с данными владельца.
type StoryListItem struct {
	Story
	Owner UserSummary `json:"owner" db:"owner"`
}

// StoryDetails is a story with owner, contributors and ordered contributions resolved.
type StoryDetails struct {
	Story
	Owner         UserSummary           `json:"owner"`
	Contributors  []UserSummary         `json:"contributors"`
	Contributions []ContributionDetails `json:"contributions"`
}

// CreateStoryInput holds the fields accepted when a story is created.
type CreateStoryInput struct {
	Title        string
	Genre        Genre
	Prompt       string
	IsPrivate    bool
	Contributors []uuid.UUID
}

// UpdateStoryInput is a partial update. Nil fields are left unchanged.
type UpdateStoryInput struct {
	Title        *string
	Genre        *Genre
	Prompt       *string
	IsPrivate    *bool
	Contributors []uuid.UUID // nil - не менять
}
