package handler

import (
	"net/http"

	"story-server/shared/models"

	"github.com/gin-gonic/gin"
)

// @Summary Рейтинг авторов
// @Tags leaderboard
// @Produce json
// @Param period query string false "all-time (по умолчанию) или monthly"
// @Param limit query int false "Количество мест (по умолчанию 20, максимум 100)"
// @Success 200 {array} models.LeaderboardEntry
// @Router /api/leaderboard [get]
func (h *Handler) getLeaderboard(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	period := models.LeaderboardPeriod(c.Query("period"))
	entries, err := h.services.Leaderboard.Get(c.Request.Context(), period, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
