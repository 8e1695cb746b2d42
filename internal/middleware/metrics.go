package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/metrics"
)

// Metrics records request count, latency and error type per route
// template, so ids in the path do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if last := c.Errors.Last(); last != nil {
			m.ErrorTotal.WithLabelValues(c.Request.Method, path, errorType(last.Err)).Inc()
		}
	}
}

func errorType(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrValidation:
		return "validation"
	case apperrors.ErrNotFound:
		return "not_found"
	case apperrors.ErrResourceInUse:
		return "resource_in_use"
	case apperrors.ErrUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}
