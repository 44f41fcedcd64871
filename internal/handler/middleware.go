package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pintrail/pintrail/internal/dto"
	"github.com/pintrail/pintrail/internal/service"
)

// AuthMiddleware validates the bearer token (blacklist included) and puts the
// user's UUID and the raw token in the gin context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, dto.Fail("authorization header is missing or malformed"))
			c.Abort()
			return
		}

		userUUID, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.Fail("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(ContextUserUUID, userUUID)
		c.Set(ContextToken, token)

		c.Next()
	}
}

// OptionalAuthMiddleware resolves the viewer's UUID when a valid token is
// present but lets anonymous requests through. Used by public profile routes
// so owners see their own private profiles.
func OptionalAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if userUUID, err := authService.ValidateToken(c.Request.Context(), token); err == nil {
				c.Set(ContextUserUUID, userUUID)
				c.Set(ContextToken, token)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}
