package logging

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger stamps each request with an ID (reusing a well-formed
// incoming X-Request-ID) and logs its outcome once the handler chain is done.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	logger = Component(logger, ComponentHTTP)

	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []any{
			FieldRequestID, requestID,
			FieldMethod, c.Request.Method,
			FieldPath, c.Request.URL.Path,
			FieldStatus, status,
			FieldDuration, time.Since(start).Milliseconds(),
			FieldClientIP, c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, FieldError, c.Errors.String())
		}

		logger.Log(c.Request.Context(), level, "request completed", attrs...)
	}
}

// RequestID returns the ID assigned by RequestLogger, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
