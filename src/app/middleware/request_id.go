// Package middleware contains HTTP middleware for the Gin router.
package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the HTTP header used for request tracing.
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key for storing the request ID.
const RequestIDKey = "request_id"

// RequestID is a middleware that assigns every request a correlation id.
// An incoming X-Request-ID header is reused when it holds a UUID; anything
// else is discarded with a warning and a fresh UUIDv4 is generated.
//
// The request ID is:
//  1. Stored in the Gin context (accessible via GetRequestID)
//  2. Added to the response headers
//
// Usage:
//
//	router.Use(middleware.RequestID(log))
func RequestID(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID != "" && !validRequestID(requestID) {
			log.WarnContext(c.Request.Context(), "generating new request id, since header value was invalid",
				"header_value", requestID,
			)
			requestID = ""
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

func validRequestID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// GetRequestID retrieves the request ID from the Gin context.
// Returns empty string if not set.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if requestID, ok := id.(string); ok {
			return requestID
		}
	}
	return ""
}
