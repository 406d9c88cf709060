// Package store persists reports and admin users. Every backend exposes the
// same operations; callers never know which one is active.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"daily-report/internal/config"
	"daily-report/internal/model"
)

var ErrNotFound = errors.New("not found")

type ReportStore interface {
	// ListReports returns at most limit reports, newest date first.
	ListReports(ctx context.Context, limit int) ([]model.Report, error)
	GetReport(ctx context.Context, date string) (*model.Report, error)
	// UpsertReport inserts r or replaces the report with the same date in a
	// single atomic operation.
	UpsertReport(ctx context.Context, r model.Report) (*model.Report, error)
	DeleteReport(ctx context.Context, date string) error
	// SeedReport inserts r only when no report exists for its date.
	SeedReport(ctx context.Context, r model.Report) error
}

type UserStore interface {
	GetUser(ctx context.Context, username string) (*model.User, error)
	// SetPassword replaces the stored hash; ErrNotFound for unknown users.
	SetPassword(ctx context.Context, username, hash string) error
	// SeedUser inserts u only when the username is free.
	SeedUser(ctx context.Context, u model.User) error
}

type Store interface {
	ReportStore
	UserStore
	Close() error
}

// Open connects the backend named by cfg.Store.Backend and prepares its
// schema (tables, indexes, files).
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.Store.File.Path, cfg.Store.File.UsersPath)
	case config.BackendMySQL, config.BackendSQLite:
		db, err := cfg.OpenGormDB()
		if err != nil {
			return nil, err
		}
		return NewGormStore(ctx, db)
	case config.BackendMongo:
		db, err := cfg.OpenMongo(ctx)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(ctx, db)
	case config.BackendRedis:
		rdb, err := cfg.NewRedisClient(ctx)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(rdb, cfg.Store.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// newestFirst sorts by date descending and truncates to limit (limit <= 0
// keeps everything).
func newestFirst(reports []model.Report, limit int) []model.Report {
	sort.Slice(reports, func(i, j int) bool { return reports[i].Date > reports[j].Date })
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports
}
