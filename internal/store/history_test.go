package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastresume/internal/errors"
)

func openTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, DatabaseFile))
	assert.NoError(t, err)
}

func TestSaveAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, KindAnalysis, map[string]int{"overallScore": 61})
	require.NoError(t, err)
	second, err := s.Save(ctx, KindAnalysis, json.RawMessage(`{"overallScore":74}`))
	require.NoError(t, err)
	_, err = s.Save(ctx, KindCareerStrategy, map[string]any{"gapFix": []any{}})
	require.NoError(t, err)

	records, err := s.List(ctx, KindAnalysis, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID, "newest first")
	assert.Equal(t, first.ID, records[1].ID)
	assert.JSONEq(t, `{"overallScore":74}`, string(records[0].Payload))
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))

	limited, err := s.List(ctx, KindAnalysis, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	empty, err := s.List(ctx, KindInterview, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSaveRejectsBadInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, Kind("notes"), map[string]string{})
	assert.Equal(t, errors.ErrorTypeValidation, errors.TypeOf(err))

	_, err = s.Save(ctx, KindInterview, json.RawMessage(`{not json`))
	assert.Equal(t, errors.ErrorTypeValidation, errors.TypeOf(err))
}

func TestGetAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Save(ctx, KindInterview, map[string]string{"role": "SRE"})
	require.NoError(t, err)

	got, err := s.Get(ctx, KindInterview, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, KindInterview, got.Kind)

	_, err = s.Get(ctx, KindAnalysis, rec.ID)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.TypeOf(err), "kind is part of the key")

	require.NoError(t, s.Delete(ctx, KindInterview, rec.ID))
	assert.Equal(t, errors.ErrorTypeNotFound, errors.TypeOf(s.Delete(ctx, KindInterview, rec.ID)))
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for range 3 {
		_, err := s.Save(ctx, KindCareerStrategy, map[string]any{})
		require.NoError(t, err)
	}
	_, err := s.Save(ctx, KindAnalysis, map[string]any{})
	require.NoError(t, err)

	n, err := s.Clear(ctx, KindCareerStrategy)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	remaining, err := s.List(ctx, KindAnalysis, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "other kinds untouched")
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("Analysis")
	assert.Error(t, err)
}
