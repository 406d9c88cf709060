package service

import (
	"context"
	"sort"
	"sync"

	"daily-report/internal/model"
	"daily-report/internal/store"
)

// fakeStore is an in-memory store.Store with error injection.
type fakeStore struct {
	mu      sync.Mutex
	reports map[string]model.Report
	users   map[string]model.User
	err     error
	block   bool
	calls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{reports: map[string]model.Report{}, users: map[string]model.User{}}
}

func (f *fakeStore) enter(ctx context.Context) error {
	f.calls++
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeStore) ListReports(ctx context.Context, limit int) ([]model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	var out []model.Report
	for _, r := range f.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) GetReport(ctx context.Context, date string) (*model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	r, ok := f.reports[date]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (f *fakeStore) UpsertReport(ctx context.Context, r model.Report) (*model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	f.reports[r.Date] = r
	return &r, nil
}

func (f *fakeStore) DeleteReport(ctx context.Context, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx); err != nil {
		return err
	}
	if _, ok := f.reports[date]; !ok {
		return store.ErrNotFound
	}
	delete(f.reports, date)
	return nil
}

func (f *fakeStore) SeedReport(ctx context.Context, r model.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx); err != nil {
		return err
	}
	if _, ok := f.reports[r.Date]; !ok {
		f.reports[r.Date] = r
	}
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) SetPassword(ctx context.Context, username, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx); err != nil {
		return err
	}
	u, ok := f.users[username]
	if !ok {
		return store.ErrNotFound
	}
	u.Password = hash
	f.users[username] = u
	return nil
}

func (f *fakeStore) SeedUser(ctx context.Context, u model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx); err != nil {
		return err
	}
	if _, ok := f.users[u.Username]; !ok {
		f.users[u.Username] = u
	}
	return nil
}

func (f *fakeStore) Close() error { return nil }
