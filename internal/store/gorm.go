package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-report/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore backs reports and users with SQL tables. The unique index on
// reports.date makes UpsertReport a single INSERT ... ON CONFLICT statement.
type GormStore struct{ db *gorm.DB }

func NewGormStore(ctx context.Context, db *gorm.DB) (*GormStore, error) {
	if err := db.WithContext(ctx).AutoMigrate(&model.Report{}, &model.User{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) ListReports(ctx context.Context, limit int) ([]model.Report, error) {
	var reports []model.Report
	q := s.db.WithContext(ctx).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	return reports, nil
}

func (s *GormStore) GetReport(ctx context.Context, date string) (*model.Report, error) {
	var r model.Report
	err := s.db.WithContext(ctx).Where("date = ?", date).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query report %s: %w", date, err)
	}
	return &r, nil
}

func (s *GormStore) UpsertReport(ctx context.Context, r model.Report) (*model.Report, error) {
	row := model.Report{Date: r.Date, Weekday: r.Weekday, Content: r.Content, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"weekday", "content", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert report %s: %w", r.Date, err)
	}
	// The insert id is unreliable when the conflict branch ran, so read back.
	return s.GetReport(ctx, r.Date)
}

func (s *GormStore) DeleteReport(ctx context.Context, date string) error {
	res := s.db.WithContext(ctx).Where("date = ?", date).Delete(&model.Report{})
	if res.Error != nil {
		return fmt.Errorf("delete report %s: %w", date, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SeedReport(ctx context.Context, r model.Report) error {
	row := model.Report{Date: r.Date, Weekday: r.Weekday, Content: r.Content, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("seed report %s: %w", r.Date, err)
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (s *GormStore) SetPassword(ctx context.Context, username, hash string) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{"password_hash": hash, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SeedUser(ctx context.Context, u model.User) error {
	row := model.User{Username: u.Username, Password: u.Password, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
