// Package access decides who may see and change stories and contributions.
// All checks are pure functions over already loaded data; uuid.Nil is an anonymous caller.
package access

import (
	"story-server/shared/models"

	"github.com/google/uuid"
)

// IsMember reports whether caller is the owner or a listed contributor.
func IsMember(story *models.Story, caller uuid.UUID) bool {
	if caller == uuid.Nil {
		return false
	}
	return story.OwnerID == caller || story.HasContributor(caller)
}

// CanAccessStory: public stories are open to everyone, private ones to members only.
func CanAccessStory(story *models.Story, caller uuid.UUID) bool {
	if !story.IsPrivate {
		return true
	}
	return IsMember(story, caller)
}

// CanMutateStory: only the owner may update or delete a story.
func CanMutateStory(story *models.Story, caller uuid.UUID) bool {
	return caller != uuid.Nil && story.OwnerID == caller
}

// CanContribute: same rule as reading, but anonymous callers never contribute.
func CanContribute(story *models.Story, caller uuid.UUID) bool {
	return caller != uuid.Nil && CanAccessStory(story, caller)
}

// CanDeleteContribution: the author or the story owner.
func CanDeleteContribution(story *models.Story, contribution *models.Contribution, caller uuid.UUID) bool {
	if caller == uuid.Nil {
		return false
	}
	return contribution.AuthorID == caller || story.OwnerID == caller
}
