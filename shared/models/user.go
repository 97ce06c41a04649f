package models

import (
	"time"

	"github.com/google/uuid"
)

// Бейджи, которые выдаются за максимальную оценку по критерию.
const (
	BadgeGrammarian = "Grammarian"
	BadgeCreative   = "Creative"
	BadgeRelevant   = "Relevant"
)

// User represents a registered author.
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Bio            string    `json:"bio" db:"bio"`
	ProfilePicture string    `json:"profilePicture" db:"profile_picture"`
	Points         float64   `json:"points" db:"points"`
	Badges         []string  `json:"badges" db:"badges"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary - публичная часть пользователя, которая подставляется в истории и вклады.
type UserSummary struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Username       string    `json:"username" db:"username"`
	ProfilePicture string    `json:"profilePicture" db:"profile_picture"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// ProfileUpdate holds optional profile fields. Nil or empty values are left untouched.
type ProfileUpdate struct {
	Name           *string
	Bio            *string
	ProfilePicture *string
}

// UserProfile is a user together with the stories they own and the contributions they wrote.
type UserProfile struct {
	User          *User                 `json:"user"`
	Stories       []Story               `json:"stories"`
	Contributions []ContributionDetails `json:"contributions"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
