package handler

import (
	"net/http"
	"strconv"

	"story-server/shared/middleware"
	"story-server/shared/models"

	"github.com/gin-gonic/gin"
)

// @Summary Оценка текста без сохранения
// @Tags contributions
// @Accept json
// @Produce json
// @Param request body analyzeRequest true "Текст"
// @Success 200 {object} models.Evaluation
// @Router /api/contributions/analyze [post]
func (h *Handler) analyzeContribution(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	eval, err := h.services.Contributions.Analyze(c.Request.Context(), req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, eval)
}

// @Summary Добавление вклада в историю
// @Description С оценкой вклад сразу принят и автор получает очки, без оценки - pending
// @Tags contributions
// @Accept json
// @Produce json
// @Param id path string true "ID истории"
// @Param request body submitContributionRequest true "Вклад"
// @Success 201 {object} models.Contribution
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/contributions/stories/{id}/contributions [post]
func (h *Handler) submitContribution(c *gin.Context) {
	storyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req submitContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}

	contribution, err := h.services.Contributions.Submit(c.Request.Context(),
		storyID, middleware.CurrentUserID(c), req.Content, req.Evaluation.toModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contribution)
}

// @Summary Лента всех вкладов, новые первыми
// @Tags contributions
// @Produce json
// @Param cursor query string false "Курсор следующей страницы"
// @Param limit query int false "Размер страницы (по умолчанию 50, максимум 200)"
// @Success 200 {object} contributionListResponse
// @Router /api/contributions [get]
func (h *Handler) listContributions(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	items, next, err := h.services.Contributions.List(c.Request.Context(), c.Query("cursor"), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contributionListResponse{Data: items, NextCursor: next})
}

// @Summary Удаление вклада (автор или владелец истории)
// @Tags contributions
// @Param id path string true "ID вклада"
// @Success 200 {object} models.MessageResponse
// @Router /api/contributions/{id} [delete]
func (h *Handler) deleteContribution(c *gin.Context) {
	contributionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.services.Contributions.Delete(c.Request.Context(), contributionID, middleware.CurrentUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Contribution deleted"})
}

// @Summary Модерация вклада владельцем истории
// @Tags contributions
// @Accept json
// @Produce json
// @Param id path string true "ID вклада"
// @Param request body transitionStatusRequest true "accepted или rejected"
// @Success 200 {object} models.Contribution
// @Router /api/contributions/{id}/status [put]
func (h *Handler) transitionContributionStatus(c *gin.Context) {
	contributionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req transitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	contribution, err := h.services.Contributions.TransitionStatus(c.Request.Context(),
		contributionID, middleware.CurrentUserID(c), models.ContributionStatus(req.Status))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contribution)
}

// intQuery читает необязательный целочисленный query-параметр. Отсутствует - 0.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		badRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return value, true
}
