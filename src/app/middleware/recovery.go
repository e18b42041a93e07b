package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fastai/src/app/http/response"
	"fastai/src/infra/logger"
)

// Recovery is a middleware that recovers from panics and returns a 500 error.
// It logs the panic with stack trace for debugging.
//
// http.ErrAbortHandler is re-panicked so net/http can drop the connection
// quietly, as it does for any handler that aborts on purpose.
//
// This must be the first middleware in the chain to catch all panics.
//
// Usage:
//
//	router.Use(middleware.Recovery(logger))
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			requestID := GetRequestID(c)
			log.ErrorContext(c.Request.Context(), "panic recovered",
				"error", fmt.Sprint(err),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				logger.Stack(),
			)

			// Headers already sent; nothing useful can be written.
			if c.Writer.Written() {
				c.Abort()
				return
			}

			// Don't expose internal details
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error{
				Error: response.ErrorDetail{
					Code:      "INTERNAL_ERROR",
					Message:   "An unexpected error occurred",
					RequestID: requestID,
				},
			})
		}()

		c.Next()
	}
}
