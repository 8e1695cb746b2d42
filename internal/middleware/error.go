package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SezginYurdakul/catering-api/internal/handler"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
)

// ErrorHandler renders the last error a handler pushed with c.Error.
// Internal errors are logged with their cause and answered with a generic
// message.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		requestID := c.GetString(ContextRequestID)

		var appErr *apperrors.AppError
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			log.Warn("request timed out",
				"request_id", requestID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path)
			render(c, http.StatusGatewayTimeout, handler.NewErrorResponse("request timeout"))
			return
		case errors.As(err, &appErr):
		default:
			appErr = apperrors.NewStorage(err)
		}

		status := appErr.StatusCode()
		if status >= http.StatusInternalServerError {
			log.Error(err, "request failed",
				"request_id", requestID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
		}

		render(c, status, handler.NewErrorResponse(appErr.Message, appErr.Fields...))
	}
}

func render(c *gin.Context, status int, resp *handler.Response) {
	resp.RequestID = c.GetString(ContextRequestID)
	c.AbortWithStatusJSON(status, resp)
}
