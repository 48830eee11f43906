package middlewares

import (
	"log/slog"
	"net/http"

	authUtils "cyclesafe-be/utils"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "user_id"

	// AuthCookie carries the token for browser clients that log in with a cookie.
	AuthCookie = "auth_token"
)

//go:generate mockgen -source=authMiddleware.go -destination=mocks/authMiddleware_mock.go -package=mocks
type TokenParser interface {
	Parse(token string) (string, error)
}

// AuthMiddleware verifies the bearer token (or the auth cookie when there is no
// Authorization header) and stores its user_id in the context. Handlers behind
// it read the caller with UserID.
func AuthMiddleware(tokens TokenParser, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := authUtils.BearerToken(c.Request.Header.Get("Authorization"))
		if tokenString == "" {
			tokenString, _ = c.Cookie(AuthCookie)
		}
		if tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "No authorization token provided")
			return
		}

		userID, err := tokens.Parse(tokenString)
		if err != nil {
			logger.Debug("token validation failed",
				slog.String("request_id", RequestID(c)),
				slog.String("error", err.Error()))
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Invalid authorization token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the verified caller set by AuthMiddleware, or "".
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "error": message})
}
