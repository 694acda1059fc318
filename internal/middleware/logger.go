package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// RequestID reuses the caller's X-Request-ID or generates one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one access line per request, plus error details
// collected through c.Error, and recovers panics.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				requestFields(c, log, start).
					WithField("stack", string(debug.Stack())).
					WithError(err).
					Error("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
				return
			}

			entry := requestFields(c, log, start)
			for _, e := range c.Errors {
				entry.WithField("error_type", fmt.Sprintf("%v", e.Type)).WithError(e.Err).Error("request error")
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				entry.Error("request")
			case status >= http.StatusBadRequest:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, log logrus.FieldLogger, start time.Time) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"client_ip":  c.ClientIP(),
		"user_id":    UserID(c),
		"request_id": c.GetString(ctxRequestID),
		"latency":    time.Since(start).String(),
	})
}
