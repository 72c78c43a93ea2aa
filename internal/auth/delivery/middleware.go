package delivery

import (
	"strings"

	"fittrack-backend/internal/auth/usecase"
	"fittrack-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxUserKey   = "user"
	ctxUserIDKey = "userID"
)

// AuthMiddleware resolves the caller from the Bearer access token and stores
// it on the gin context for handlers.
func AuthMiddleware(authUsecase usecase.AuthUsecase, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperror.Respond(c, log, apperror.Authentication("authorization header required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			apperror.Respond(c, log, apperror.Authentication("invalid authorization header format"))
			return
		}

		user, err := authUsecase.ValidateAccess(c.Request.Context(), parts[1])
		if err != nil {
			apperror.Respond(c, log, err)
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxUserIDKey, user.ID)
		c.Next()
	}
}

// CurrentUserID returns the id stored by AuthMiddleware, or "" outside it.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}
