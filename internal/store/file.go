package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"daily-report/internal/model"
)

// FileStore keeps every report in one JSON object keyed by date and rewrites
// the whole file on each mutation. Users live in a second file of the same
// shape keyed by username. mu serializes load-mutate-write cycles within the
// process; writes go through a temp file and rename.
type FileStore struct {
	mu          sync.Mutex
	reportsPath string
	usersPath   string
}

func NewFileStore(reportsPath, usersPath string) (*FileStore, error) {
	if reportsPath == "" {
		return nil, fmt.Errorf("file store: reports path is empty")
	}
	if usersPath == "" {
		usersPath = filepath.Join(filepath.Dir(reportsPath), "users.json")
	}
	s := &FileStore{reportsPath: reportsPath, usersPath: usersPath}
	for _, p := range []string{reportsPath, usersPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return s, nil
}

func (s *FileStore) ListReports(ctx context.Context, limit int) ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadReports()
	if err != nil {
		return nil, err
	}
	out := make([]model.Report, 0, len(all))
	for _, r := range all {
		out = append(out, r)
	}
	return newestFirst(out, limit), nil
}

func (s *FileStore) GetReport(ctx context.Context, date string) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadReports()
	if err != nil {
		return nil, err
	}
	r, ok := all[date]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *FileStore) UpsertReport(ctx context.Context, r model.Report) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadReports()
	if err != nil {
		return nil, err
	}
	r.UpdatedAt = time.Now()
	all[r.Date] = r
	if err := writeJSON(s.reportsPath, all); err != nil {
		return nil, fmt.Errorf("write reports: %w", err)
	}
	return &r, nil
}

func (s *FileStore) DeleteReport(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadReports()
	if err != nil {
		return err
	}
	if _, ok := all[date]; !ok {
		return ErrNotFound
	}
	delete(all, date)
	if err := writeJSON(s.reportsPath, all); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	return nil
}

func (s *FileStore) SeedReport(ctx context.Context, r model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadReports()
	if err != nil {
		return err
	}
	if _, ok := all[r.Date]; ok {
		return nil
	}
	all[r.Date] = r
	if err := writeJSON(s.reportsPath, all); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	return nil
}

func (s *FileStore) GetUser(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	u, ok := users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *FileStore) SetPassword(ctx context.Context, username, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	u, ok := users[username]
	if !ok {
		return ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = time.Now()
	users[username] = u
	if err := writeJSON(s.usersPath, users); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

func (s *FileStore) SeedUser(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	if _, ok := users[u.Username]; ok {
		return nil
	}
	users[u.Username] = u
	if err := writeJSON(s.usersPath, users); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) loadReports() (map[string]model.Report, error) {
	all := map[string]model.Report{}
	if err := readJSON(s.reportsPath, &all); err != nil {
		return nil, fmt.Errorf("read reports: %w", err)
	}
	return all, nil
}

func (s *FileStore) loadUsers() (map[string]model.User, error) {
	users := map[string]model.User{}
	if err := readJSON(s.usersPath, &users); err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

// readJSON leaves v untouched when the file does not exist yet.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
