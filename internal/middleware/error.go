package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/carebooker/carebooker-api/internal/handler"
	apperrors "github.com/carebooker/carebooker-api/pkg/errors"
)

// ErrorHandler converts errors attached to the gin context into JSON
// responses. Application errors map to their own status; anything else
// becomes a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("Request error")
		}

		lastErr := c.Errors.Last()

		var appErr *apperrors.AppError
		if errors.As(lastErr.Err, &appErr) {
			c.JSON(appErr.StatusCode(), handler.NewErrorResponse(appErr.Message))
			return
		}

		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
	}
}
