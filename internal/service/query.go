package service

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"tcx-utilities/internal/store"
	"tcx-utilities/internal/tcx"
	"tcx-utilities/internal/timeseries"
)

// QueryService provides read-only queries for the CLI
type QueryService struct {
	store  *store.DB
	reader *tcx.Reader
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB) *QueryService {
	return &QueryService{store: db, reader: tcx.NewReader(tcx.DefaultNamespaces())}
}

// ListActivities returns the stored activities filed on days
// [start, start+days-1]
func (q *QueryService) ListActivities(start time.Time, days int) ([]store.Activity, error) {
	if days < 1 {
		return nil, fmt.Errorf("days must be at least 1, got %d", days)
	}
	return q.store.ListActivitiesBetween(start, start.AddDate(0, 0, days-1))
}

// ActivityDetail is a stored activity with its parsed content
type ActivityDetail struct {
	Activity store.Activity
	Parsed   *tcx.Activity
}

// ActivityDetail loads an activity and its laps and points from the store
func (q *QueryService) ActivityDetail(id int64) (*ActivityDetail, error) {
	a, err := q.store.GetActivity(id)
	if err != nil {
		return nil, err
	}

	laps, err := q.store.GetLaps(id)
	if err != nil {
		return nil, fmt.Errorf("getting laps: %w", err)
	}
	points, err := q.store.GetTrackPoints(id)
	if err != nil {
		return nil, fmt.Errorf("getting trackpoints: %w", err)
	}

	return &ActivityDetail{Activity: *a, Parsed: restoreActivity(a, laps, points)}, nil
}

// ParseFile parses a TCX file without touching the store
func (q *QueryService) ParseFile(path string) (*tcx.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	activity, err := q.reader.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return activity, nil
}

// Load resolves ref as a file path when such a file exists, otherwise as a
// stored activity id
func (q *QueryService) Load(ref string) (*tcx.Activity, error) {
	if fileExists(ref) {
		return q.ParseFile(ref)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is neither a file nor an activity id", ref)
	}
	detail, err := q.ActivityDetail(id)
	if err != nil {
		return nil, err
	}
	return detail.Parsed, nil
}

// ClosestResult pairs a search match with the point it refers to
type ClosestResult struct {
	timeseries.Match
	Point tcx.TrackPoint
}

// ClosestPoint finds the point whose time of day is closest to query
func (q *QueryService) ClosestPoint(points []tcx.TrackPoint, query timeseries.TimeOfDay) (*ClosestResult, error) {
	match, err := timeseries.FindClosest(timeseries.Build(points), query)
	if err != nil {
		return nil, err
	}
	return &ClosestResult{Match: match, Point: points[match.Index]}, nil
}

// RangeStats holds totals over every stored lap in a date range
type RangeStats struct {
	Start, End time.Time
	Activities int
	Laps       int
	Totals     tcx.ActivityTotals
}

// RangeStats aggregates all laps of the activities filed within [start, end].
// An empty range, or one whose laps recorded no time, gives zero time
// totals rather than an error.
func (q *QueryService) RangeStats(start, end time.Time) (*RangeStats, error) {
	laps, err := q.store.GetLapsBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("getting laps: %w", err)
	}

	stats := &RangeStats{Start: start, End: end, Laps: len(laps)}
	seen := make(map[int64]bool)
	lapStats := make([]tcx.LapStats, len(laps))
	for i, l := range laps {
		seen[l.ActivityID] = true
		lapStats[i] = tcx.LapStats{
			TotalTimeSeconds:    l.TotalTimeSeconds,
			DistanceMeters:      l.DistanceMeters,
			MaxSpeedMps:         l.MaxSpeedMps,
			AverageHeartRateBpm: l.AverageHeartRateBpm,
			MaxHeartRateBpm:     l.MaxHeartRateBpm,
			Calories:            l.Calories,
		}
	}
	stats.Activities = len(seen)

	stats.Totals, err = tcx.SummarizeActivity(lapStats)
	switch {
	case errors.Is(err, tcx.ErrEmptyActivity):
		return stats, nil
	case errors.Is(err, tcx.ErrZeroDuration):
		stats.Totals = untimedTotals(lapStats)
		return stats, nil
	case err != nil:
		return nil, err
	}
	return stats, nil
}

// untimedTotals sums laps that recorded no time. The average heart rate
// stays zero since it is weighted by time.
func untimedTotals(laps []tcx.LapStats) tcx.ActivityTotals {
	var t tcx.ActivityTotals
	for _, lap := range laps {
		t.DistanceMeters += lap.DistanceMeters
		t.Calories += lap.Calories
		if lap.MaxSpeedMps > t.MaxSpeedMps {
			t.MaxSpeedMps = lap.MaxSpeedMps
		}
		if lap.MaxHeartRateBpm > t.MaxHeartRateBpm {
			t.MaxHeartRateBpm = lap.MaxHeartRateBpm
		}
	}
	return t
}

// Duration returns the time from the first to the last point of a
func (q *QueryService) Duration(a *tcx.Activity) time.Duration {
	return a.Elapsed()
}

// Failures returns the files that could not be indexed
func (q *QueryService) Failures() ([]store.ParseFailure, error) {
	return q.store.ListParseFailures()
}

// ImportStatus describes the most recent import
type ImportStatus struct {
	LastImportAt time.Time
	LastRunID    string
	Activities   int
}

// ImportStatus reports when activities were last imported
func (q *QueryService) ImportStatus() (*ImportStatus, error) {
	status := &ImportStatus{}
	var err error

	if status.LastImportAt, _, err = q.store.GetSyncTime(store.KeyLastImportAt); err != nil {
		return nil, err
	}
	if status.LastRunID, err = q.store.GetSyncState(store.KeyLastImportRun); err != nil {
		return nil, err
	}
	if status.Activities, err = q.store.CountActivities(); err != nil {
		return nil, err
	}
	return status, nil
}
