package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-report/internal/apperr"
	"daily-report/internal/logger"
	"daily-report/internal/model"
	"daily-report/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator verifies one username/password pair per request.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// StaticAuth checks a single admin configured at startup. The password is
// hashed once so it is never compared in plaintext.
type StaticAuth struct {
	username string
	hash     []byte
}

func NewStaticAuth(username, password string, cost int) (*StaticAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &StaticAuth{username: username, hash: hash}, nil
}

func (a *StaticAuth) Authenticate(_ context.Context, username, password string) error {
	// Hash even on a username mismatch so both failures cost the same.
	pwErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if username != a.username || pwErr != nil {
		return apperr.New(apperr.Unauthenticated, "认证失败")
	}
	return nil
}

// AuthService looks admins up in the user table.
type AuthService struct {
	users   store.UserStore
	timeout time.Duration
	cost    int
}

func NewAuthService(users store.UserStore, timeout time.Duration, cost int) *AuthService {
	return &AuthService{users: users, timeout: timeout, cost: cost}
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.users.GetUser(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("auth.lookup_failed", "username", username, "err", err)
		}
		return apperr.New(apperr.Unauthenticated, "认证失败")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return apperr.New(apperr.Unauthenticated, "认证失败")
	}
	return nil
}

// SeedAdmin creates the configured admin when the username is free; an
// existing record keeps its current password.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.users.SeedUser(ctx, model.User{Username: username, Password: string(hash)}); err != nil {
		return backendError("初始化管理员失败", err)
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, username, newPassword string) error {
	if username == "" || newPassword == "" {
		return apperr.New(apperr.BadRequest, "用户名和新密码不能为空")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		// bcrypt refuses passwords longer than 72 bytes
		return apperr.Wrap(apperr.BadRequest, "新密码无效", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.users.SetPassword(ctx, username, string(hash))
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.NotFound, "用户不存在")
	}
	if err != nil {
		return backendError("更新密码失败", err)
	}
	logger.Info("auth.password_changed", "username", username)
	return nil
}

func (s *AuthService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
