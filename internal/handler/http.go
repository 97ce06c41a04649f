package handler

import (
	"net/http"

	"story-server/internal/service"
	"story-server/shared/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Services bundles the domain services the HTTP layer depends on.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Stories       service.StoryService
	Contributions service.ContributionService
	Notifications service.NotificationService
	Leaderboard   service.LeaderboardService
}

type Handler struct {
	services Services
	verifier middleware.TokenVerifier
	logger   *zap.Logger
}

func NewHandler(services Services, verifier middleware.TokenVerifier, logger *zap.Logger) *Handler {
	return &Handler{
		services: services,
		verifier: verifier,
		logger:   logger.Named("Handler"),
	}
}

// RegisterRoutes mounts the API under /api. authLimiter guards register/login and may be nil.
func (h *Handler) RegisterRoutes(router *gin.Engine, authLimiter gin.HandlerFunc) {
	requireAuth := middleware.RequireAuth(h.verifier, h.logger, ObserveTokenVerification)
	optionalAuth := middleware.OptionalAuth(h.verifier, h.logger)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	if authLimiter != nil {
		authGroup.Use(authLimiter)
	}
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}

	stories := api.Group("/stories")
	{
		stories.GET("", optionalAuth, h.listStories)
		stories.GET("/:id", optionalAuth, h.getStory)
		stories.POST("", requireAuth, h.createStory)
		stories.PUT("/:id", requireAuth, h.updateStory)
		stories.DELETE("/:id", requireAuth, h.deleteStory)
	}

	contributions := api.Group("/contributions")
	contributions.Use(requireAuth)
	{
		contributions.POST("/analyze", h.analyzeContribution)
		contributions.POST("/stories/:id/contributions", h.submitContribution)
		contributions.GET("", h.listContributions)
		contributions.DELETE("/:id", h.deleteContribution)
		contributions.PUT("/:id/status", h.transitionContributionStatus)
	}

	users := api.Group("/user")
	users.Use(requireAuth)
	{
		users.GET("/profile/:userId", h.getProfile)
		users.PUT("/profile", h.updateProfile)
		users.PUT("/change-password", h.changePassword)
		users.GET("/email/:email", h.searchByEmail)
	}

	notifications := api.Group("/notifications")
	notifications.Use(requireAuth)
	{
		// :id - это userId для списка и id уведомления для /read
		notifications.GET("/:id", h.listNotifications)
		notifications.GET("/notification/:id", h.getNotification)
		notifications.PUT("/:id/read", h.markNotificationRead)
	}

	api.GET("/leaderboard", optionalAuth, h.getLeaderboard)
}

// Health отвечает на liveness-пробу.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// uuidParam парсит UUID из параметра пути. При ошибке сам отвечает 400.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
