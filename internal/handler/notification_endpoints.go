package handler

import (
	"net/http"

	"story-server/shared/middleware"

	"github.com/gin-gonic/gin"
)

// @Summary Последние уведомления пользователя
// @Description Только свои уведомления, максимум 50, новые первыми
// @Tags notifications
// @Produce json
// @Param id path string true "ID пользователя"
// @Success 200 {array} models.Notification
// @Failure 403 {object} models.ErrorResponse
// @Router /api/notifications/{id} [get]
func (h *Handler) listNotifications(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	list, err := h.services.Notifications.List(c.Request.Context(), middleware.CurrentUserID(c), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getNotification(c *gin.Context) {
	notificationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	n, err := h.services.Notifications.Get(c.Request.Context(), middleware.CurrentUserID(c), notificationID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// @Summary Отметить уведомление прочитанным
// @Tags notifications
// @Produce json
// @Param id path string true "ID уведомления"
// @Success 200 {object} models.Notification
// @Router /api/notifications/{id}/read [put]
func (h *Handler) markNotificationRead(c *gin.Context) {
	notificationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	n, err := h.services.Notifications.MarkRead(c.Request.Context(), middleware.CurrentUserID(c), notificationID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
