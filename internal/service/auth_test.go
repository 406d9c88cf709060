package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"daily-report/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticAuth(t *testing.T) {
	ctx := context.Background()
	a, err := NewStaticAuth("simon", "s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, a.Authenticate(ctx, "simon", "s3cret"))
	assert.True(t, apperr.Is(a.Authenticate(ctx, "simon", "wrong"), apperr.Unauthenticated))
	assert.True(t, apperr.Is(a.Authenticate(ctx, "other", "s3cret"), apperr.Unauthenticated))
	assert.True(t, apperr.Is(a.Authenticate(ctx, "", ""), apperr.Unauthenticated))
	assert.NotContains(t, string(a.hash), "s3cret")
}

func TestAuthServiceSeedAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	svc := NewAuthService(fs, time.Second, bcrypt.MinCost)

	require.NoError(t, svc.SeedAdmin(ctx, "simon", "first"))
	assert.NoError(t, svc.Authenticate(ctx, "simon", "first"))
	assert.NotEqual(t, "first", fs.users["simon"].Password)

	// seeding again does not reset a changed password
	require.NoError(t, svc.ChangePassword(ctx, "simon", "second"))
	require.NoError(t, svc.SeedAdmin(ctx, "simon", "first"))
	assert.NoError(t, svc.Authenticate(ctx, "simon", "second"))
	assert.True(t, apperr.Is(svc.Authenticate(ctx, "simon", "first"), apperr.Unauthenticated))
}

func TestAuthServiceUnknownUserOrBackendDownRejects(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	svc := NewAuthService(fs, time.Second, bcrypt.MinCost)

	assert.True(t, apperr.Is(svc.Authenticate(ctx, "ghost", "x"), apperr.Unauthenticated))

	fs.err = errors.New("db down")
	assert.True(t, apperr.Is(svc.Authenticate(ctx, "ghost", "x"), apperr.Unauthenticated))
}

func TestAuthServiceChangePassword(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	svc := NewAuthService(fs, time.Second, bcrypt.MinCost)
	require.NoError(t, svc.SeedAdmin(ctx, "simon", "first"))

	assert.Equal(t, apperr.BadRequest, apperr.KindOf(svc.ChangePassword(ctx, "", "x")))
	assert.Equal(t, apperr.BadRequest, apperr.KindOf(svc.ChangePassword(ctx, "simon", "")))
	assert.Equal(t, apperr.BadRequest, apperr.KindOf(svc.ChangePassword(ctx, "simon", strings.Repeat("x", 80))))
	assert.Equal(t, apperr.NotFound, apperr.KindOf(svc.ChangePassword(ctx, "ghost", "x")))

	fs.err = errors.New("db down")
	assert.Equal(t, apperr.BackendUnavailable, apperr.KindOf(svc.ChangePassword(ctx, "simon", "x")))
}

func TestSeedAdminSkipsEmptyCredentials(t *testing.T) {
	fs := newFakeStore()
	svc := NewAuthService(fs, time.Second, bcrypt.MinCost)
	require.NoError(t, svc.SeedAdmin(context.Background(), "", ""))
	assert.Zero(t, fs.calls)
}
