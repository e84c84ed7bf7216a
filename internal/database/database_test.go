package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-upkeep/internal/metrics"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "upkeep.db")
	db, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestNewCreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "upkeep.db")

	db, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dbPath, db.Path())
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestNewReopensExistingDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "upkeep.db")

	db, err := New(ctx, dbPath)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, db.RecordRun(ctx, &Run{Command: "durations", StartedAt: now, FinishedAt: now, Status: StatusSuccess}))
	require.NoError(t, db.Close())

	db, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := db.RecentRuns(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestRecordRunAssignsID(t *testing.T) {
	db := setupTestDB(t)
	started := time.Now().Add(-2 * time.Second)

	run := &Run{Command: "thumbnails", StartedAt: started, FinishedAt: started.Add(1500 * time.Millisecond), Status: StatusSuccess, Summary: "Generated: 2, Skipped (exists): 0, Failed: 0"}
	require.NoError(t, db.RecordRun(context.Background(), run))
	assert.NotEmpty(t, run.ID)

	runs, err := db.RecentRuns(context.Background(), "", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "thumbnails", got.Command)
	assert.Equal(t, StatusSuccess, got.Status)
	assert.Equal(t, run.Summary, got.Summary)
	assert.Equal(t, started.UnixMilli(), got.StartedAt.UnixMilli())
	assert.Equal(t, 1500*time.Millisecond, got.Duration())
}

func TestRecordRunDuplicateID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	run := &Run{ID: NewRunID(), Command: "patch", StartedAt: now, FinishedAt: now, Status: StatusSuccess}
	require.NoError(t, db.RecordRun(ctx, run))

	dup := *run
	assert.Error(t, db.RecordRun(ctx, &dup))
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i, cmd := range []string{"thumbnails", "durations", "patch", "patch"} {
		started := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.RecordRun(ctx, &Run{Command: cmd, StartedAt: started, FinishedAt: started, Status: StatusSuccess, Summary: cmd}))
	}

	runs, err := db.RecentRuns(ctx, "", 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "patch", runs[0].Command)
	assert.Equal(t, "patch", runs[1].Command)
	assert.Equal(t, "durations", runs[2].Command)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
}

func TestRecentRunsByCommand(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	for _, cmd := range []string{"thumbnails", "patch", "durations", "patch"} {
		require.NoError(t, db.RecordRun(ctx, &Run{Command: cmd, StartedAt: now, FinishedAt: now, Status: StatusSuccess}))
	}

	runs, err := db.RecentRuns(ctx, "patch", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "patch", r.Command)
	}
}

func TestRecordMissingTracksBatches(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	run := &Run{Command: "patch", StartedAt: now, FinishedAt: now, Status: StatusSuccess}
	require.NoError(t, db.RecordRun(ctx, run))

	paths := make([]string, insertBatchSize*2+7)
	for i := range paths {
		paths[i] = fmt.Sprintf("lofi/track-%04d.opus", i)
	}
	require.NoError(t, db.RecordMissingTracks(ctx, run.ID, paths))

	got, err := db.MissingTracks(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, paths, got)
}

func TestRecordMissingTracksUnknownRun(t *testing.T) {
	db := setupTestDB(t)

	err := db.RecordMissingTracks(context.Background(), NewRunID(), []string{"a.mp3"})
	assert.Error(t, err, "missing tracks reference a recorded run")
}

func TestRecentRunsEmpty(t *testing.T) {
	db := setupTestDB(t)

	runs, err := db.RecentRuns(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLatestRun(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.LatestRun(ctx, "patch")
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	base := time.Now().Add(-time.Hour)
	first := &Run{Command: "patch", StartedAt: base, FinishedAt: base, Status: StatusError}
	second := &Run{Command: "patch", StartedAt: base.Add(time.Minute), FinishedAt: base.Add(time.Minute), Status: StatusSuccess}
	other := &Run{Command: "durations", StartedAt: base.Add(2 * time.Minute), FinishedAt: base.Add(2 * time.Minute), Status: StatusSuccess}
	for _, r := range []*Run{first, second, other} {
		require.NoError(t, db.RecordRun(ctx, r))
	}

	latest, err := db.LatestRun(ctx, "patch")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestMissingTracks(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	run := &Run{Command: "patch", StartedAt: now, FinishedAt: now, Status: StatusSuccess}
	require.NoError(t, db.RecordRun(ctx, run))

	paths := []string{"lofi/Zeta.opus", "jazz/a.mp3", "lofi/b.opus"}
	require.NoError(t, db.RecordMissingTracks(ctx, run.ID, paths))

	got, err := db.MissingTracks(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, paths, got, "paths keep the order they were found in")

	none, err := db.MissingTracks(ctx, NewRunID())
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestRecordMissingTracksEmpty(t *testing.T) {
	db := setupTestDB(t)

	assert.NoError(t, db.RecordMissingTracks(context.Background(), NewRunID(), nil))
}

func TestRecordQueryMetrics(t *testing.T) {
	before := testutil.ToFloat64(metrics.DBQueryTotal.WithLabelValues("test_operation", "error"))

	recordQuery("test_operation", time.Now(), errors.New("test error"))
	recordQuery("test_operation", time.Now(), nil)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DBQueryTotal.WithLabelValues("test_operation", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.DBQueryTotal.WithLabelValues("test_operation", "success")), 1.0)
}
