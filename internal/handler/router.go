package handler

import (
	"net/http"
	"strings"

	"daily-report/internal/middleware"
	"daily-report/internal/model"
	"daily-report/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	corsMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"}
)

type RouterConfig struct {
	APIPrefix string
	StaticDir string
	Reports   *service.ReportService
	Auth      service.Authenticator
	// Admin is nil when credentials are static; the password route is then
	// not registered.
	Admin *service.AuthService
}

// allowAnyOrigin stamps every response, including those to clients that send
// no Origin header and so are skipped by the cors middleware.
func allowAnyOrigin(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLog(), middleware.Recovery(), allowAnyOrigin)
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    corsMethods,
		AllowHeaders:    corsHeaders,
	}))

	// OPTIONS without an Origin header never reaches the cors preflight path.
	r.OPTIONS("/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Methods", strings.Join(corsMethods, ","))
		c.Header("Access-Control-Allow-Headers", strings.Join(corsHeaders, ","))
		c.Status(http.StatusNoContent)
	})

	reportH := NewReportHandler(cfg.Reports)
	auth := middleware.BasicAuth(cfg.Auth)

	api := r.Group(cfg.APIPrefix)
	api.GET("/reports", reportH.List)
	api.GET("/reports/:date", reportH.Get)
	api.POST("/reports", auth, reportH.Save)
	api.DELETE("/reports/:date", auth, reportH.Delete)

	if cfg.Admin != nil {
		adminH := NewAdminHandler(cfg.Admin)
		api.PUT("/admin/password", auth, adminH.ChangePassword)
	}

	if cfg.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))
	} else {
		r.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, model.MessageResponse{Message: "未找到请求的资源"})
		})
	}
	return r
}
