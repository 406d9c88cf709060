package middleware

import (
	"errors"
	"net/http"

	"daily-report/internal/apperr"
	"daily-report/internal/logger"
	"daily-report/internal/model"

	"github.com/gin-gonic/gin"
)

// Fail aborts the request with the status of err's kind and a
// {message, error} body. Unclassified errors are answered as Internal.
func Fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Wrap(apperr.Internal, "服务器内部错误", err)
	}
	c.AbortWithStatusJSON(ae.Kind.Status(), model.MessageResponse{Message: ae.Message, Error: ae.Detail()})
}

// Recovery turns a panic into an Internal response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("http.panic", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.MessageResponse{Message: "服务器内部错误"})
	})
}
