package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 28, 20, 18, 6, 0, time.UTC)
	first := &Record{CreatedAt: base, Source: "a.log", Template: "SELECT ?", Values: "1(Integer), ", SQL: "SELECT 1"}
	second := &Record{CreatedAt: base.Add(time.Second), Source: "a.log", Template: "SELECT ?, ?", Values: "1(Integer), ", SQL: "SELECT 1, ", Issues: 1}

	require.NoError(t, s.Save(ctx, first, second))
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// newest first
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, "SELECT 1, ", records[0].SQL)
	assert.Equal(t, 1, records[0].Issues)
	assert.True(t, records[1].CreatedAt.Equal(base))
	assert.Equal(t, "1(Integer), ", records[1].Values)

	records, err = s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second.ID, records[0].ID)
}

func TestStore_SaveFillsTimestamp(t *testing.T) {
	s := openTestStore(t)

	r := &Record{SQL: "SELECT 1"}
	before := time.Now()
	require.NoError(t, s.Save(context.Background(), r))
	assert.False(t, r.CreatedAt.Before(before))
}

func TestStore_SaveNothing(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(context.Background()))

	records, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_Clear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Record{SQL: "a"}, &Record{SQL: "b"}))

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, &Record{SQL: "SELECT 1"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SELECT 1", records[0].SQL)
}

func TestStore_Closed(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	ctx := context.Background()
	assert.ErrorIs(t, s.Save(ctx, &Record{}), ErrClosed)
	_, err := s.List(ctx, 0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Clear(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
