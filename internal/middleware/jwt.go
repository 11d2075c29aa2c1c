package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"user_manager/internal/apperror"
	"user_manager/internal/auth"
	"user_manager/internal/common"
)

// AuthMiddleware validates the bearer token and puts the principal's id and
// username into the request context. Failures go through the error
// translator so they carry the uniform envelope.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperror.NewInsufficientAuthError("authorization header required", nil))
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, apperror.NewInvalidTokenError("invalid authorization format, use: Bearer <token>", nil))
			return
		}

		tokenString := parts[1]

		// Validate token
		claims, err := auth.ValidateToken(tokenString, secret)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithError(c, apperror.NewInvalidTokenError("token expired", err))
			} else {
				abortWithError(c, apperror.NewInvalidTokenError("token rejected", err))
			}
			return
		}

		// Refresh tokens cannot be used to call the API
		if claims.Type != auth.AccessToken {
			abortWithError(c, apperror.NewInvalidTokenError("invalid token type", nil))
			return
		}

		c.Set(auth.UserIDKey, claims.UserID)
		c.Set(auth.UsernameKey, claims.Username)
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	status, result := common.Translate(err)
	c.AbortWithStatusJSON(status, result)
}
