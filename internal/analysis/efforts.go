// Package analysis derives running metrics from an activity's trackpoints.
package analysis

import (
	"time"

	"tcx-utilities/internal/tcx"
)

// BestEffort represents the fastest segment of a given distance within an activity
type BestEffort struct {
	TargetMeters   float64
	DistanceMeters float64 // covered by the segment, at least TargetMeters
	Duration       time.Duration
	Start, End     time.Time
	AvgHeartRate   float64 // 0 when no point in the segment has a heart rate
}

// Standard effort distances in meters
const (
	Distance400m  = 400
	Distance1K    = 1000
	Distance1Mile = 1609.34
	Distance5K    = 5000
	Distance10K   = 10000
)

// EffortDistances defines the standard best effort distances to track
var EffortDistances = []float64{
	Distance400m,
	Distance1K,
	Distance1Mile,
	Distance5K,
	Distance10K,
}

// EffortLabels names each of EffortDistances
var EffortLabels = map[float64]string{
	Distance400m:  "400 m",
	Distance1K:    "1 km",
	Distance1Mile: "1 mile",
	Distance5K:    "5 km",
	Distance10K:   "10 km",
}

// distPoint is a point that carries a cumulative distance
type distPoint struct {
	distance  float64
	time      time.Time
	heartRate *int
}

// FindBestEffort finds the fastest segment of targetMeters within points.
// Points without a distance are ignored. Cumulative distance is expected to
// be non-decreasing, which lets a two-pointer window do the search in O(n).
// Returns nil if the activity is shorter than targetMeters.
func FindBestEffort(points []tcx.TrackPoint, targetMeters float64) *BestEffort {
	var pts []distPoint
	for _, p := range points {
		if p.DistanceMeters != nil {
			pts = append(pts, distPoint{distance: *p.DistanceMeters, time: p.Time, heartRate: p.HeartRateBpm})
		}
	}
	if len(pts) < 2 || pts[len(pts)-1].distance-pts[0].distance < targetMeters {
		return nil
	}

	var best *BestEffort
	right := 0
	for left := range pts {
		if right <= left {
			right = left + 1
		}
		for right < len(pts) && pts[right].distance-pts[left].distance < targetMeters {
			right++
		}
		if right == len(pts) {
			break
		}

		duration := pts[right].time.Sub(pts[left].time)
		if duration <= 0 {
			continue
		}
		if best == nil || duration < best.Duration {
			best = &BestEffort{
				TargetMeters:   targetMeters,
				DistanceMeters: pts[right].distance - pts[left].distance,
				Duration:       duration,
				Start:          pts[left].time,
				End:            pts[right].time,
				AvgHeartRate:   segmentAvgHR(pts[left : right+1]),
			}
		}
	}

	return best
}

// BestEfforts runs FindBestEffort for every standard distance the activity
// is long enough for
func BestEfforts(points []tcx.TrackPoint) []BestEffort {
	var efforts []BestEffort
	for _, d := range EffortDistances {
		if e := FindBestEffort(points, d); e != nil {
			efforts = append(efforts, *e)
		}
	}
	return efforts
}

// segmentAvgHR averages the plausible heart rates in a segment
func segmentAvgHR(points []distPoint) float64 {
	var sum float64
	var count int
	for _, p := range points {
		if p.heartRate != nil && *p.heartRate > 50 {
			sum += float64(*p.heartRate)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
