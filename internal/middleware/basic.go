package middleware

import (
	"daily-report/internal/apperr"
	"daily-report/internal/logger"
	"daily-report/internal/service"

	"github.com/gin-gonic/gin"
)

// BasicAuth re-authenticates every request from its Authorization header.
// No session or token is issued.
func BasicAuth(auth service.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			logger.Warn("auth.missing", "path", c.Request.URL.Path)
			Fail(c, apperr.New(apperr.Unauthenticated, "未提供认证信息"))
			return
		}
		if err := auth.Authenticate(c.Request.Context(), username, password); err != nil {
			logger.Warn("auth.failed", "username", username, "path", c.Request.URL.Path)
			Fail(c, err)
			return
		}
		c.Set("user_name", username)
		c.Next()
	}
}
