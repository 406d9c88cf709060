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
)

// ReportService applies the strict failure policy: backend errors surface as
// BackendUnavailable with their detail, a missing date is NotFound, and
// nothing is ever synthesized in place of a failed read or write.
type ReportService struct {
	store    store.ReportStore
	timeout  time.Duration
	pageSize int
}

func NewReportService(s store.ReportStore, timeout time.Duration, pageSize int) *ReportService {
	return &ReportService{store: s, timeout: timeout, pageSize: pageSize}
}

// EnsureDefault seeds the protected default report when it is missing.
func (s *ReportService) EnsureDefault(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.SeedReport(ctx, model.DefaultReport()); err != nil {
		return backendError("初始化默认日报失败", err)
	}
	return nil
}

func (s *ReportService) All(ctx context.Context) (map[string]model.Report, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.store.ListReports(ctx, s.pageSize)
	if err != nil {
		return nil, backendError("获取日报失败", err)
	}
	out := make(map[string]model.Report, len(list))
	for _, r := range list {
		out[r.Date] = r
	}
	return out, nil
}

func (s *ReportService) Get(ctx context.Context, date string) (*model.Report, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := s.store.GetReport(ctx, date)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "未找到指定日期的日报")
	}
	if err != nil {
		return nil, backendError("获取日报失败", err)
	}
	return r, nil
}

// Save validates the input before touching the store, derives the weekday
// and upserts by date.
func (s *ReportService) Save(ctx context.Context, date, content string) (*model.Report, error) {
	if date == "" || content == "" {
		return nil, apperr.New(apperr.BadRequest, "日期和内容不能为空")
	}
	r, err := model.NewReport(date, content)
	if err != nil {
		return nil, apperr.Wrap(apperr.BadRequest, "日期格式应为 YYYY-MM-DD", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	saved, err := s.store.UpsertReport(ctx, r)
	if err != nil {
		return nil, backendError("保存日报失败", err)
	}
	logger.Info("report.saved", "date", saved.Date, "weekday", saved.Weekday)
	return saved, nil
}

func (s *ReportService) Delete(ctx context.Context, date string) error {
	if date == model.DefaultDate {
		return apperr.New(apperr.Forbidden, "默认日报不能被删除")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.store.DeleteReport(ctx, date)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.NotFound, "未找到指定日期的日报")
	}
	if err != nil {
		return backendError("删除日报失败", err)
	}
	logger.Info("report.deleted", "date", date)
	return nil
}

func (s *ReportService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func backendError(msg string, err error) error {
	logger.Error("store.failed", "msg", msg, "err", err)
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("backend timed out: %w", err)
	}
	return apperr.Wrap(apperr.BackendUnavailable, msg, err)
}
