// errors.go - Central error-to-response mapping for all routes

package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"go-course-api/apierror"
)

// ErrorHandler turns the last error a handler recorded with c.Error into
// the response. Handlers only record errors and return.
func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Run the handlers first

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status, body := apierror.Status(err)
		// Client errors are expected; only log what we got wrong
		if status >= 500 {
			log.ErrorContext(c.Request.Context(), "unhandled error",
				"error", err,
				"path", c.Request.URL.Path,
				"request_id", RequestID(c),
			)
		}
		if c.Writer.Written() { // A handler already answered
			return
		}
		c.JSON(status, body)
	}
}
