package service

import (
	"errors"
	"time"

	"tcx-utilities/internal/library"
	"tcx-utilities/internal/store"
	"tcx-utilities/internal/tcx"
)

// convertActivity maps a parsed document onto the store rows for one library entry
func convertActivity(entry library.Entry, a *tcx.Activity) (*store.Activity, []store.Lap, []store.TrackPoint) {
	activity := &store.Activity{
		ID:                  entry.ActivityID,
		Path:                entry.Path,
		TcxID:               a.ID,
		Sport:               a.Sport,
		StartDate:           entry.Date,
		TotalTimeSeconds:    a.Totals.TotalTimeSeconds,
		DistanceMeters:      a.Totals.DistanceMeters,
		MaxSpeedMps:         a.Totals.MaxSpeedMps,
		AverageHeartRateBpm: a.Totals.AverageHeartRateBpm,
		MaxHeartRateBpm:     a.Totals.MaxHeartRateBpm,
		Calories:            a.Totals.Calories,
	}
	if start, ok := a.StartTime(); ok {
		activity.StartTime = start
	}

	laps := make([]store.Lap, len(a.Laps))
	for i, l := range a.Laps {
		laps[i] = store.Lap{
			ActivityID:          entry.ActivityID,
			LapIndex:            l.Index,
			TotalTimeSeconds:    l.Stats.TotalTimeSeconds,
			DistanceMeters:      l.Stats.DistanceMeters,
			MaxSpeedMps:         l.Stats.MaxSpeedMps,
			AverageHeartRateBpm: l.Stats.AverageHeartRateBpm,
			MaxHeartRateBpm:     l.Stats.MaxHeartRateBpm,
			Calories:            l.Stats.Calories,
		}
		if !l.StartTime.IsZero() {
			start := l.StartTime
			laps[i].StartTime = &start
		}
	}

	src := a.Points()
	points := make([]store.TrackPoint, len(src))
	for i, p := range src {
		points[i] = store.TrackPoint{
			ActivityID:      entry.ActivityID,
			Seq:             i,
			LapIndex:        p.LapIndex,
			Time:            p.Time,
			DistanceMeters:  p.DistanceMeters,
			HeartRateBpm:    p.HeartRateBpm,
			Cadence:         p.Cadence,
			SpeedMps:        p.SpeedMps,
			ElevationMeters: p.ElevationMeters,
			Latitude:        p.Latitude,
			Longitude:       p.Longitude,
		}
	}

	return activity, laps, points
}

// restoreActivity rebuilds a parsed activity from stored rows
func restoreActivity(a *store.Activity, laps []store.Lap, points []store.TrackPoint) *tcx.Activity {
	out := &tcx.Activity{
		ID:    a.TcxID,
		Sport: a.Sport,
		Totals: tcx.ActivityTotals{
			TotalTimeSeconds:    a.TotalTimeSeconds,
			DistanceMeters:      a.DistanceMeters,
			MaxSpeedMps:         a.MaxSpeedMps,
			AverageHeartRateBpm: a.AverageHeartRateBpm,
			MaxHeartRateBpm:     a.MaxHeartRateBpm,
			Calories:            a.Calories,
		},
	}

	byLap := make(map[int][]tcx.TrackPoint, len(laps))
	for _, p := range points {
		byLap[p.LapIndex] = append(byLap[p.LapIndex], tcx.TrackPoint{
			LapIndex:        p.LapIndex,
			Time:            p.Time,
			DistanceMeters:  p.DistanceMeters,
			HeartRateBpm:    p.HeartRateBpm,
			Cadence:         p.Cadence,
			SpeedMps:        p.SpeedMps,
			ElevationMeters: p.ElevationMeters,
			Latitude:        p.Latitude,
			Longitude:       p.Longitude,
		})
	}

	for _, l := range laps {
		var start time.Time
		if l.StartTime != nil {
			start = *l.StartTime
		}
		out.Laps = append(out.Laps, tcx.Lap{
			Index:     l.LapIndex,
			StartTime: start,
			Stats: tcx.LapStats{
				TotalTimeSeconds:    l.TotalTimeSeconds,
				DistanceMeters:      l.DistanceMeters,
				MaxSpeedMps:         l.MaxSpeedMps,
				AverageHeartRateBpm: l.AverageHeartRateBpm,
				MaxHeartRateBpm:     l.MaxHeartRateBpm,
				Calories:            l.Calories,
			},
			Points: byLap[l.LapIndex],
		})
	}

	return out
}

// failureKind gives a short classification of why a file could not be indexed
func failureKind(err error) string {
	switch {
	case errors.Is(err, library.ErrNotEntry):
		return "not a library file"
	case errors.Is(err, tcx.ErrMissingField):
		return "missing field"
	case errors.Is(err, tcx.ErrMalformedTimestamp):
		return "malformed timestamp"
	case errors.Is(err, tcx.ErrEmptyActivity):
		return "no laps"
	case errors.Is(err, tcx.ErrZeroDuration):
		return "zero duration"
	case errors.Is(err, tcx.ErrMalformedDocument):
		return "malformed document"
	default:
		return "other"
	}
}
