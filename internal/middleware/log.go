package middleware

import (
	"net/http"
	"time"

	"daily-report/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLog logs one line per request after it completes.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("http.request", args...)
			return
		}
		logger.Info("http.request", args...)
	}
}
