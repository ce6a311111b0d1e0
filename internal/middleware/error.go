package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into the JSON error body
// used across the API. Handlers that already wrote a response are left alone.
// The Internal cause of an AppError is logged and never returned.
func ErrorHandler() gin.HandlerFunc {
	log := logger.Named("http")

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		requestID := c.GetString(requestIDKey)

		appErr := apperrors.ErrInternalServer
		var target *apperrors.AppError
		if errors.As(err, &target) {
			appErr = target
			if appErr.Internal != nil {
				log.Errorw("app error",
					"request_id", requestID,
					"code", appErr.Code,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
		} else {
			log.Errorw("unexpected error",
				"request_id", requestID,
				"error", err.Error(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
		}

		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{"code": appErr.Code, "message": appErr.Message},
		})
	}
}
