package store

import (
	"context"
	"fmt"
	"testing"

	"daily-report/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func report(t *testing.T, date, content string) model.Report {
	t.Helper()
	r, err := model.NewReport(date, content)
	require.NoError(t, err)
	return r
}

// testStoreContract runs the behaviour every backend must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("get missing report", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetReport(ctx, "2025-04-01")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("upsert inserts then replaces", func(t *testing.T) {
		s := newStore(t)

		got, err := s.UpsertReport(ctx, report(t, "2025-04-01", "<p>hi</p>"))
		require.NoError(t, err)
		assert.Equal(t, "2025-04-01", got.Date)
		assert.Equal(t, "周二", got.Weekday)
		assert.Equal(t, "<p>hi</p>", got.Content)

		_, err = s.UpsertReport(ctx, report(t, "2025-04-01", "<p>bye</p>"))
		require.NoError(t, err)

		all, err := s.ListReports(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "<p>bye</p>", all[0].Content)

		one, err := s.GetReport(ctx, "2025-04-01")
		require.NoError(t, err)
		assert.Equal(t, "<p>bye</p>", one.Content)
		assert.Equal(t, "周二", one.Weekday)
	})

	t.Run("list returns one entry per distinct date newest first", func(t *testing.T) {
		s := newStore(t)
		for i := 1; i <= 5; i++ {
			_, err := s.UpsertReport(ctx, report(t, fmt.Sprintf("2025-05-%02d", i), "c"))
			require.NoError(t, err)
		}

		all, err := s.ListReports(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "2025-05-05", all[0].Date)
		assert.Equal(t, "2025-05-01", all[4].Date)

		page, err := s.ListReports(ctx, 3)
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, "2025-05-03", page[2].Date)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UpsertReport(ctx, report(t, "2025-04-01", "x"))
		require.NoError(t, err)

		require.NoError(t, s.DeleteReport(ctx, "2025-04-01"))
		_, err = s.GetReport(ctx, "2025-04-01")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteReport(ctx, "2025-04-01"), ErrNotFound)
	})

	t.Run("seed report never overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SeedReport(ctx, model.DefaultReport()))

		edited := model.DefaultReport()
		edited.Content = "<p>edited</p>"
		_, err := s.UpsertReport(ctx, edited)
		require.NoError(t, err)

		require.NoError(t, s.SeedReport(ctx, model.DefaultReport()))
		got, err := s.GetReport(ctx, model.DefaultDate)
		require.NoError(t, err)
		assert.Equal(t, "<p>edited</p>", got.Content)
	})

	t.Run("users", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetUser(ctx, "simon")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.SetPassword(ctx, "simon", "h2"), ErrNotFound)

		require.NoError(t, s.SeedUser(ctx, model.User{Username: "simon", Password: "h1"}))
		require.NoError(t, s.SeedUser(ctx, model.User{Username: "simon", Password: "ignored"}))
		u, err := s.GetUser(ctx, "simon")
		require.NoError(t, err)
		assert.Equal(t, "h1", u.Password)

		require.NoError(t, s.SetPassword(ctx, "simon", "h2"))
		u, err = s.GetUser(ctx, "simon")
		require.NoError(t, err)
		assert.Equal(t, "h2", u.Password)
	})
}
