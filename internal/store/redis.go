package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"daily-report/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps reports in one hash (field = date) and users in another
// (field = username). Single-field HSET/HSETNX/HDEL calls are atomic.
type RedisStore struct {
	rdb        *redis.Client
	reportsKey string
	usersKey   string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, reportsKey: prefix + "reports", usersKey: prefix + "users"}
}

func (s *RedisStore) ListReports(ctx context.Context, limit int) ([]model.Report, error) {
	fields, err := s.rdb.HGetAll(ctx, s.reportsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall reports: %w", err)
	}
	reports := make([]model.Report, 0, len(fields))
	for date, raw := range fields {
		var r model.Report
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", date, err)
		}
		reports = append(reports, r)
	}
	return newestFirst(reports, limit), nil
}

func (s *RedisStore) GetReport(ctx context.Context, date string) (*model.Report, error) {
	raw, err := s.rdb.HGet(ctx, s.reportsKey, date).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("hget report %s: %w", date, err)
	}
	var r model.Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", date, err)
	}
	return &r, nil
}

func (s *RedisStore) UpsertReport(ctx context.Context, r model.Report) (*model.Report, error) {
	r.UpdatedAt = time.Now()
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.HSet(ctx, s.reportsKey, r.Date, data).Err(); err != nil {
		return nil, fmt.Errorf("hset report %s: %w", r.Date, err)
	}
	return &r, nil
}

func (s *RedisStore) DeleteReport(ctx context.Context, date string) error {
	n, err := s.rdb.HDel(ctx, s.reportsKey, date).Result()
	if err != nil {
		return fmt.Errorf("hdel report %s: %w", date, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) SeedReport(ctx context.Context, r model.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := s.rdb.HSetNX(ctx, s.reportsKey, r.Date, data).Err(); err != nil {
		return fmt.Errorf("seed report %s: %w", r.Date, err)
	}
	return nil
}

func (s *RedisStore) GetUser(ctx context.Context, username string) (*model.User, error) {
	raw, err := s.rdb.HGet(ctx, s.usersKey, username).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("hget user: %w", err)
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// SetPassword rewrites the stored user under WATCH so a concurrent change to
// the users hash aborts the write instead of clobbering it.
func (s *RedisStore) SetPassword(ctx context.Context, username, hash string) error {
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, s.usersKey, username).Result()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var u model.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return fmt.Errorf("decode user: %w", err)
		}
		u.Password = hash
		u.UpdatedAt = time.Now()
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.usersKey, username, data)
			return nil
		})
		return err
	}, s.usersKey)
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *RedisStore) SeedUser(ctx context.Context, u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.rdb.HSetNX(ctx, s.usersKey, u.Username, data).Err(); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
