package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcx-utilities/internal/library"
	"tcx-utilities/internal/store"
)

func TestIndexPaths(t *testing.T) {
	db := store.NewTestDB(t)
	lib := library.New(t.TempDir())

	good1 := saveFixture(t, lib, "two_laps.tcx", fixtureDate, 1001)
	good2 := saveFixture(t, lib, "two_laps.tcx", fixtureDate.AddDate(0, 0, 1), 1002)
	broken := saveFixture(t, lib, "missing_calories.tcx", fixtureDate, 1003)
	stray := filepath.Join(lib.Root(), "notes.tcx")

	svc := NewIndexService(db, lib, 3)
	result, err := svc.IndexPaths(context.Background(), []string{good1, broken, stray, good2}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 4, result.Files)
	assert.Equal(t, 2, result.Indexed)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Error(), broken, "errors keep input order")
	assert.Error(t, result.Err())

	count, err := db.CountActivities()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, err := db.GetActivity(1001)
	require.NoError(t, err)
	assert.Equal(t, good1, stored.Path)
	assert.Equal(t, 150.0, stored.AverageHeartRateBpm)
	assert.Equal(t, 5, stored.PointCount)
	assert.Equal(t, 2, stored.LapCount)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), stored.StartDate)

	failures, err := db.ListParseFailures()
	require.NoError(t, err)
	require.Len(t, failures, 2)
	kinds := map[string]string{}
	for _, f := range failures {
		kinds[f.Path] = f.Kind
		assert.Equal(t, result.RunID, f.RunID)
	}
	assert.Equal(t, "missing field", kinds[broken])
	assert.Equal(t, "not a library file", kinds[stray])

	_, err = db.GetActivity(1003)
	assert.ErrorIs(t, err, store.ErrActivityNotFound, "a failed file stores nothing")
}

func TestIndexPaths_ClearsFixedFailure(t *testing.T) {
	db := store.NewTestDB(t)
	lib := library.New(t.TempDir())
	svc := NewIndexService(db, lib, 2)

	path := saveFixture(t, lib, "missing_calories.tcx", fixtureDate, 7)
	result, err := svc.IndexPaths(context.Background(), []string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	saveFixture(t, lib, "two_laps.tcx", fixtureDate, 7)
	result, err = svc.IndexPaths(context.Background(), []string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Indexed)
	assert.NoError(t, result.Err())

	failures, err := db.ListParseFailures()
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestIndexPaths_Progress(t *testing.T) {
	db := store.NewTestDB(t)
	lib := library.New(t.TempDir())

	var paths []string
	for i := int64(0); i < 6; i++ {
		paths = append(paths, saveFixture(t, lib, "two_laps.tcx", fixtureDate, 100+i))
	}

	progress := make(chan Progress, len(paths))
	result, err := NewIndexService(db, lib, 4).IndexPaths(context.Background(), paths, progress)
	require.NoError(t, err)
	close(progress)

	assert.Equal(t, 6, result.Indexed)

	var completed []int
	for p := range progress {
		assert.Equal(t, PhaseIndex, p.Phase)
		assert.Equal(t, 6, p.Total)
		completed = append(completed, p.Completed)
	}
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, completed)
}

func TestIndexPaths_Cancelled(t *testing.T) {
	db := store.NewTestDB(t)
	lib := library.New(t.TempDir())
	path := saveFixture(t, lib, "two_laps.tcx", fixtureDate, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIndexService(db, lib, 1).IndexPaths(ctx, []string{path}, nil)
	assert.ErrorIs(t, err, context.Canceled)

	count, _ := db.CountActivities()
	assert.Zero(t, count)
}

func TestIndexLibrary(t *testing.T) {
	db := store.NewTestDB(t)
	lib := library.New(t.TempDir())

	saveFixture(t, lib, "two_laps.tcx", fixtureDate, 1)
	saveFixture(t, lib, "two_laps.tcx", fixtureDate.AddDate(0, 1, 0), 2)

	result, err := NewIndexService(db, lib, 2).IndexLibrary(context.Background(), fixtureDate, fixtureDate.AddDate(0, 0, 7), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Files)
	assert.Equal(t, 1, result.Indexed)

	_, err = db.GetActivity(2)
	assert.ErrorIs(t, err, store.ErrActivityNotFound)
}
