package handler

import (
	"story-server/shared/models"

	"github.com/google/uuid"
)

// --- Request/Response Structs ---

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createStoryRequest struct {
	Title        string      `json:"title" binding:"required"`
	Genre        string      `json:"genre" binding:"required"`
	Prompt       string      `json:"prompt" binding:"required"`
	IsPrivate    bool        `json:"isPrivate"`
	Contributors []uuid.UUID `json:"contributors"`
}

// updateStoryRequest - частичное обновление. Отсутствующее поле не меняется,
// "contributors": [] очищает список участников (владелец остается всегда).
type updateStoryRequest struct {
	Title        *string     `json:"title"`
	Genre        *string     `json:"genre"`
	Prompt       *string     `json:"prompt"`
	IsPrivate    *bool       `json:"isPrivate"`
	Contributors []uuid.UUID `json:"contributors"`
}

func (r updateStoryRequest) toInput() models.UpdateStoryInput {
	input := models.UpdateStoryInput{
		Title:        r.Title,
		Prompt:       r.Prompt,
		IsPrivate:    r.IsPrivate,
		Contributors: r.Contributors,
	}
	if r.Genre != nil {
		genre := models.Genre(*r.Genre)
		input.Genre = &genre
	}
	return input
}

type analyzeRequest struct {
	Content string `json:"content" binding:"required"`
}

// evaluationRequest accepts a client-supplied evaluation. A missing totalScore is derived.
type evaluationRequest struct {
	Relevance  int    `json:"relevance"`
	Grammar    int    `json:"grammar"`
	Creativity int    `json:"creativity"`
	TotalScore *int   `json:"totalScore"`
	Feedback   string `json:"feedback"`
}

func (r *evaluationRequest) toModel() *models.Evaluation {
	if r == nil {
		return nil
	}
	eval := &models.Evaluation{
		Relevance:  r.Relevance,
		Grammar:    r.Grammar,
		Creativity: r.Creativity,
		Feedback:   r.Feedback,
	}
	if r.TotalScore != nil {
		eval.TotalScore = *r.TotalScore
	} else {
		eval.TotalScore = eval.Sum()
	}
	return eval
}

type submitContributionRequest struct {
	Content    string             `json:"content" binding:"required"`
	Evaluation *evaluationRequest `json:"evaluation"`
}

type transitionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type contributionListResponse struct {
	Data       []models.ContributionDetails `json:"data"`
	NextCursor string                       `json:"nextCursor,omitempty"`
}

type updateProfileRequest struct {
	Name           *string `json:"name"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}
