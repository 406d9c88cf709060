// Package app opens the configured backend and builds the services both
// binaries share.
package app

import (
	"context"
	"fmt"
	"net/http"

	"daily-report/internal/config"
	"daily-report/internal/handler"
	"daily-report/internal/logger"
	"daily-report/internal/service"
	"daily-report/internal/store"

	"golang.org/x/crypto/bcrypt"
)

type App struct {
	Config  *config.Config
	Store   store.Store
	Reports *service.ReportService
	Auth    service.Authenticator
	// Admin is set only in store auth mode.
	Admin *service.AuthService
}

// Open connects the backend, seeds the default report and, in store auth
// mode, the configured admin.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	return open(ctx, cfg, bcrypt.DefaultCost)
}

func open(ctx context.Context, cfg *config.Config, cost int) (*App, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	a := &App{
		Config:  cfg,
		Store:   st,
		Reports: service.NewReportService(st, cfg.Store.Timeout, cfg.Store.PageSize),
	}
	if err := a.Reports.EnsureDefault(ctx); err != nil {
		st.Close()
		return nil, err
	}

	switch cfg.Auth.Mode {
	case config.AuthStore:
		a.Admin = service.NewAuthService(st, cfg.Store.Timeout, cost)
		if err := a.Admin.SeedAdmin(ctx, cfg.Auth.Username, cfg.Auth.Password); err != nil {
			st.Close()
			return nil, err
		}
		a.Auth = a.Admin
	default:
		static, err := service.NewStaticAuth(cfg.Auth.Username, cfg.Auth.Password, cost)
		if err != nil {
			st.Close()
			return nil, err
		}
		a.Auth = static
	}

	logger.Info("app.opened", "backend", cfg.Store.Backend, "auth", cfg.Auth.Mode)
	return a, nil
}

func (a *App) Router() http.Handler {
	return handler.NewRouter(handler.RouterConfig{
		APIPrefix: a.Config.Server.APIPrefix,
		StaticDir: a.Config.Server.StaticDir,
		Reports:   a.Reports,
		Auth:      a.Auth,
		Admin:     a.Admin,
	})
}

func (a *App) Close() error { return a.Store.Close() }
