package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"arb-dashboard/internal/pkg/logger"
	"arb-dashboard/internal/transport/http/response"
)

const (
	ContextRequestIDKey = "request_id"
	requestIDHeader     = "X-Request-ID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString(ContextRequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(started).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
	}
}

// Recovery turns a panic into the generic error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(logger.L().Writer(), func(c *gin.Context, recovered interface{}) {
		logger.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "An unexpected error occurred. Please try again.")
		c.Abort()
	})
}
