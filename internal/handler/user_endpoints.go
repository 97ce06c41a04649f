package handler

import (
	"net/http"

	"story-server/shared/middleware"
	"story-server/shared/models"

	"github.com/gin-gonic/gin"
)

// @Summary Профиль пользователя с историями и вкладами
// @Tags user
// @Produce json
// @Param userId path string true "ID пользователя"
// @Success 200 {object} models.UserProfile
// @Failure 404 {object} models.ErrorResponse
// @Router /api/user/profile/{userId} [get]
func (h *Handler) getProfile(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	profile, err := h.services.Users.Profile(c.Request.Context(), middleware.CurrentUserID(c), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// @Summary Изменение своего профиля
// @Tags user
// @Accept json
// @Produce json
// @Param request body updateProfileRequest true "Поля профиля"
// @Success 200 {object} models.User
// @Router /api/user/profile [put]
func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	user, err := h.services.Users.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), models.ProfileUpdate{
		Name:           req.Name,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Смена пароля
// @Tags user
// @Accept json
// @Param request body changePasswordRequest true "Текущий и новый пароль"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/user/change-password [put]
func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data: "+err.Error())
		return
	}
	err := h.services.Users.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Password updated"})
}

// @Summary Поиск пользователей по части email
// @Tags user
// @Produce json
// @Param email path string true "Фрагмент email"
// @Success 200 {array} models.User
// @Router /api/user/email/{email} [get]
func (h *Handler) searchByEmail(c *gin.Context) {
	users, err := h.services.Users.SearchByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
