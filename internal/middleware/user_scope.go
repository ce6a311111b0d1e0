package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	apperrors "budgetwise/internal/errors"
)

const (
	userIDKey    = "userID"
	maxUserIDLen = 64
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// UserScope reads the :userID path parameter, validates it and stores it in
// the context under "userID" for the handlers below it.
func UserScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		if len(userID) > maxUserIDLen || !userIDPattern.MatchString(userID) {
			appErr := apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid user ID")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"code": appErr.Code, "message": appErr.Message},
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
