package handler

import (
	"net/http"

	"daily-report/internal/apperr"
	"daily-report/internal/middleware"
	"daily-report/internal/model"
	"daily-report/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct{ svc *service.ReportService }

func NewReportHandler(svc *service.ReportService) *ReportHandler { return &ReportHandler{svc: svc} }

// GET /reports
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.svc.All(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GET /reports/:date
func (h *ReportHandler) Get(c *gin.Context) {
	r, err := h.svc.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// POST /reports  body: {"date":"2025-04-01","content":"<p>...</p>"}
func (h *ReportHandler) Save(c *gin.Context) {
	var req model.SaveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.New(apperr.BadRequest, "请求格式错误"))
		return
	}
	r, err := h.svc.Save(c.Request.Context(), req.Date, req.Content)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SaveReportResponse{Message: "日报保存成功", Report: *r})
}

// DELETE /reports/:date
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("date")); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "日报删除成功"})
}
