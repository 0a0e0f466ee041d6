package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tcx-utilities/internal/library"
	"tcx-utilities/internal/source"
	"tcx-utilities/internal/source/sourcetest"
	"tcx-utilities/internal/store"
)

func meta(id int64, local string) source.Metadata {
	t, err := time.Parse(source.LocalTimeLayout, local)
	if err != nil {
		panic(err)
	}
	return source.Metadata{ActivityID: id, StartTimeLocal: source.LocalTime{Time: t}, ActivityName: "Run"}
}

func newImport(t *testing.T, src source.Source, opts ImportOptions) (*ImportService, *library.Library, *store.DB) {
	t.Helper()
	db := store.NewTestDB(t)
	lib := library.New(t.TempDir())
	svc := NewImportService(src, lib, db, NewIndexService(db, lib, 2), opts)
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC) }
	return svc, lib, db
}

func TestImport(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcetest.NewMockSource(ctrl)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	src.EXPECT().ListActivities(gomock.Any(), start, end).Return([]source.Metadata{
		meta(1001, "2024-01-05 12:29:20"),
		meta(1002, "2024-01-06 07:00:00"),
	}, nil)
	src.EXPECT().DownloadTCX(gomock.Any(), int64(1001)).Return(readFixture(t, "two_laps.tcx"), nil)
	src.EXPECT().DownloadTCX(gomock.Any(), int64(1002)).Return(nil, errors.New("connection reset"))

	svc, lib, db := newImport(t, src, ImportOptions{LookbackDays: 14})

	result, err := svc.Import(context.Background(), start, end, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Listed)
	assert.Equal(t, 1, result.Downloaded)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "activity 1002")
	require.NotNil(t, result.Index)
	assert.Equal(t, 1, result.Index.Indexed)
	assert.Error(t, result.Err())

	assert.FileExists(t, lib.PathFor(time.Date(2024, 1, 5, 12, 29, 20, 0, time.UTC), 1001))

	stored, err := db.GetActivity(1001)
	require.NoError(t, err)
	assert.Equal(t, "Running", stored.Sport)

	runID, err := db.GetSyncState(store.KeyLastImportRun)
	require.NoError(t, err)
	assert.Equal(t, result.RunID, runID)
	at, ok, err := db.GetSyncTime(store.KeyLastImportAt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, at.Equal(svc.now()))
}

func TestImport_SkipsExistingFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcetest.NewMockSource(ctrl)

	listed := []source.Metadata{meta(1001, "2024-01-05 12:29:20")}
	src.EXPECT().ListActivities(gomock.Any(), gomock.Any(), gomock.Any()).Return(listed, nil).Times(2)
	// downloaded once; the second run finds the file already in the library
	src.EXPECT().DownloadTCX(gomock.Any(), int64(1001)).Return(readFixture(t, "two_laps.tcx"), nil).Times(1)

	svc, _, _ := newImport(t, src, ImportOptions{})

	_, err := svc.Import(context.Background(), time.Time{}, time.Time{}, nil)
	require.NoError(t, err)

	result, err := svc.Import(context.Background(), time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Downloaded)
	assert.Equal(t, 1, result.Skipped)
	assert.Nil(t, result.Index, "already indexed files are not parsed again")
	assert.NoError(t, result.Err())
}

func TestImport_IndexesSkippedFileMissingFromStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcetest.NewMockSource(ctrl)

	m := meta(1001, "2024-01-05 12:29:20")
	src.EXPECT().ListActivities(gomock.Any(), gomock.Any(), gomock.Any()).Return([]source.Metadata{m}, nil)

	svc, lib, db := newImport(t, src, ImportOptions{})
	saveFixture(t, lib, "two_laps.tcx", m.StartTimeLocal.Time, 1001)

	result, err := svc.Import(context.Background(), time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	require.NotNil(t, result.Index)
	assert.Equal(t, 1, result.Index.Indexed)

	_, err = db.GetActivity(1001)
	assert.NoError(t, err)
}

func TestImport_Overwrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcetest.NewMockSource(ctrl)

	m := meta(1001, "2024-01-05 12:29:20")
	src.EXPECT().ListActivities(gomock.Any(), gomock.Any(), gomock.Any()).Return([]source.Metadata{m}, nil)
	src.EXPECT().DownloadTCX(gomock.Any(), int64(1001)).Return(readFixture(t, "two_laps.tcx"), nil)

	svc, lib, _ := newImport(t, src, ImportOptions{Overwrite: true})
	saveFixture(t, lib, "missing_calories.tcx", m.StartTimeLocal.Time, 1001)

	result, err := svc.Import(context.Background(), time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Downloaded)
	require.NotNil(t, result.Index)
	assert.Equal(t, 1, result.Index.Indexed)
}

func TestImport_DefaultRangeAndProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcetest.NewMockSource(ctrl)

	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	src.EXPECT().ListActivities(gomock.Any(), now.AddDate(0, 0, -3), now).Return(nil, nil)

	svc, _, _ := newImport(t, src, ImportOptions{LookbackDays: 3})

	progress := make(chan Progress, 10)
	result, err := svc.Import(context.Background(), time.Time{}, time.Time{}, progress)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Listed)

	var phases []string
	for p := range progress {
		phases = append(phases, p.Phase)
	}
	assert.Equal(t, []string{PhaseList, PhaseDownload}, phases, "channel is closed when the run ends")
}

func TestImport_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcetest.NewMockSource(ctrl)
	src.EXPECT().ListActivities(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	svc, _, _ := newImport(t, src, ImportOptions{})
	_, err := svc.Import(context.Background(), time.Time{}, time.Time{}, nil)
	assert.ErrorContains(t, err, "listing activities")
}

func TestImport_ReversedRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _ := newImport(t, sourcetest.NewMockSource(ctrl), ImportOptions{})

	_, err := svc.Import(context.Background(), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	assert.Error(t, err)
}

func TestDateRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	start, end := DateRange(time.Time{}, time.Time{}, 14, now)
	assert.Equal(t, now, end)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), start)

	given := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start, end = DateRange(given, time.Time{}, 14, now)
	assert.Equal(t, given, start)
	assert.Equal(t, now, end)
}
