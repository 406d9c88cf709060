package handler

import (
	"net/http"

	"daily-report/internal/apperr"
	"daily-report/internal/logger"
	"daily-report/internal/middleware"
	"daily-report/internal/model"
	"daily-report/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct{ auth *service.AuthService }

func NewAdminHandler(auth *service.AuthService) *AdminHandler { return &AdminHandler{auth: auth} }

// PUT /admin/password  body: {"username":"...","newPassword":"..."}
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.New(apperr.BadRequest, "请求格式错误"))
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), req.Username, req.NewPassword); err != nil {
		middleware.Fail(c, err)
		return
	}
	logger.Info("admin.password_changed", "by", c.GetString("user_name"), "username", req.Username)
	c.JSON(http.StatusOK, model.MessageResponse{Message: "密码更新成功"})
}
