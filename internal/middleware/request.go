package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/logger"
)

const maxRequestIDLength = 64

// RequestID tags the request with an id, taken from X-Request-ID when the
// client sent a usable one, and attaches a logger carrying it.
func RequestID(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(constants.ContextKeyRequestID, id)
		c.Set(constants.ContextKeyLogger, base.With(zap.String("request_id", id)))
		c.Header(constants.HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger logs one line per request once the response is written.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if principal, ok := CurrentPrincipal(c); ok {
			fields = append(fields, zap.String("user_id", principal.ID))
		}

		log := logger.FromGin(c)
		switch {
		case status >= 500:
			log.Error("Request completed", fields...)
		case status >= 400:
			log.Warn("Request completed", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}

// Timeout bounds the request context, and with it every storage call made
// on behalf of the request. A non-positive duration disables it.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
