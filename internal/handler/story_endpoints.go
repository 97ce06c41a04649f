package handler

import (
	"net/http"

	"story-server/shared/middleware"
	"story-server/shared/models"

	"github.com/gin-gonic/gin"
)

// @Summary Список видимых историй
// @Description Публичные истории и приватные, где пользователь владелец или участник
// @Tags stories
// @Produce json
// @Success 200 {array} models.StoryListItem
// @Router /api/stories [get]
func (h *Handler) listStories(c *gin.Context) {
	items, err := h.services.Stories.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary История с участниками и вкладами
// @Tags stories
// @Produce json
// @Param id path string true "ID истории"
// @Success 200 {object} models.StoryDetails
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/stories/{id} [get]
func (h *Handler) getStory(c *gin.Context) {
	storyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	details, err := h.services.Stories.Get(c.Request.Context(), storyID, middleware.CurrentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// @Summary Создание истории
// @Tags stories
// @Accept json
// @Produce json
// @Param request body createStoryRequest true "История"
// @Success 201 {object} models.Story
// @Failure 400 {object} models.ErrorResponse
// @Router /api/stories [post]
func (h *Handler) createStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	story, err := h.services.Stories.Create(c.Request.Context(), middleware.CurrentUserID(c), models.CreateStoryInput{
		Title:        req.Title,
		Genre:        models.Genre(req.Genre),
		Prompt:       req.Prompt,
		IsPrivate:    req.IsPrivate,
		Contributors: req.Contributors,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

// @Summary Изменение истории (только владелец)
// @Tags stories
// @Accept json
// @Produce json
// @Param id path string true "ID истории"
// @Param request body updateStoryRequest true "Изменяемые поля"
// @Success 200 {object} models.Story
// @Router /api/stories/{id} [put]
func (h *Handler) updateStory(c *gin.Context) {
	storyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req updateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	story, err := h.services.Stories.Update(c.Request.Context(), storyID, middleware.CurrentUserID(c), req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// @Summary Удаление истории вместе со всеми вкладами (только владелец)
// @Tags stories
// @Param id path string true "ID истории"
// @Success 200 {object} models.MessageResponse
// @Router /api/stories/{id} [delete]
func (h *Handler) deleteStory(c *gin.Context) {
	storyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.services.Stories.Delete(c.Request.Context(), storyID, middleware.CurrentUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Story deleted"})
}
