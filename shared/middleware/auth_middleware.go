package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"story-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserIDKey - ключ gin.Context, под которым лежит ID аутентифицированного пользователя.
const UserIDKey = "user_id"

// TokenVerifier проверяет строку токена и возвращает claims.
// Ошибки: models.ErrTokenInvalid, models.ErrTokenExpired, models.ErrTokenMalformed.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// VerificationObserver получает результат каждой проверки токена (для метрик).
type VerificationObserver func(success bool)

// RequireAuth rejects the request with 401 unless it carries a valid bearer token.
func RequireAuth(verifier TokenVerifier, logger *zap.Logger, observe VerificationObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.With(zap.String("path", c.Request.URL.Path))

		tokenString, ok := bearerToken(c)
		if !ok {
			log.Debug("Authorization header missing or malformed")
			notify(observe, false)
			abortUnauthorized(c, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: "Authentication required"})
			return
		}

		claims, err := verifier(c.Request.Context(), tokenString)
		if err != nil {
			notify(observe, false)
			log.Warn("Token verification failed", zap.Error(err), zap.String("tokenSnippet", snippet(tokenString)))
			resp := models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Token is invalid or malformed"}
			if errors.Is(err, models.ErrTokenExpired) {
				resp = models.ErrorResponse{Code: models.ErrCodeTokenExpired, Message: "Token has expired"}
			}
			abortUnauthorized(c, resp)
			return
		}

		notify(observe, true)
		setUser(c, claims.UserID)
		log.Debug("User authorized", zap.String("userID", claims.UserID.String()))
		c.Next()
	}
}

// OptionalAuth attaches the caller identity when a valid token is present and
// otherwise lets the request through as anonymous.
func OptionalAuth(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := verifier(c.Request.Context(), tokenString)
		if err != nil {
			// Невалидный токен на публичном маршруте - продолжаем анонимно
			logger.Debug("Ignoring invalid token on optional-auth route",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Next()
			return
		}
		setUser(c, claims.UserID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller, or uuid.Nil for anonymous requests.
func CurrentUserID(c *gin.Context) uuid.UUID {
	userID, _ := models.GetUserIDFromContext(c.Request.Context())
	return userID
}

func setUser(c *gin.Context, userID uuid.UUID) {
	c.Set(UserIDKey, userID)
	c.Request = c.Request.WithContext(models.WithUserID(c.Request.Context(), userID))
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, resp models.ErrorResponse) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}

func notify(observe VerificationObserver, success bool) {
	if observe != nil {
		observe(success)
	}
}

// snippet возвращает безопасную для логов часть токена.
func snippet(tokenString string) string {
	if len(tokenString) > 10 {
		return tokenString[:10] + "..."
	}
	return tokenString
}
