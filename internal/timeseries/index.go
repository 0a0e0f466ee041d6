// Package timeseries indexes trackpoints by time of day and looks up the
// sample closest to a given clock reading.
package timeseries

import (
	"errors"
	"math"

	"tcx-utilities/internal/tcx"
)

// ErrNotFound is returned when searching an empty index
var ErrNotFound = errors.New("no samples to search")

// Index holds the time of day of each trackpoint, in point order
type Index []TimeOfDay

// Match is the result of FindClosest. Index refers to a position in the
// searched Index, which is also the position in the points it was built from.
type Match struct {
	Exact             bool
	Index             int
	DifferenceSeconds float64
}

// Build creates an Index from parsed points. The points are expected to be
// in ascending time order, which holds for a single-day recording.
func Build(points []tcx.TrackPoint) Index {
	idx := make(Index, len(points))
	for i, p := range points {
		idx[i] = TimeOfDayOf(p.Time)
	}
	return idx
}

// FindClosest binary-searches idx for query.
//
// Every midpoint visited whose distance to query is strictly smaller than the
// best so far becomes the candidate, so the first of two equally close
// samples wins. Only midpoints on the search path are considered: the result
// is not guaranteed to be the global nearest sample.
func FindClosest(idx Index, query TimeOfDay) (Match, error) {
	if len(idx) == 0 {
		return Match{}, ErrNotFound
	}

	lo, hi := 0, len(idx)-1
	best := -1
	bestDiff := math.Inf(1)

	for hi-lo > 0 {
		mid := (lo + hi) / 2
		if diff := distance(idx[mid], query); diff < bestDiff {
			best, bestDiff = mid, diff
		}
		if idx[mid] < query {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	switch {
	case idx[lo] == query:
		return Match{Exact: true, Index: lo}, nil
	case idx[hi] == query:
		return Match{Exact: true, Index: hi}, nil
	}

	// single sample: the loop never ran
	if best < 0 {
		best, bestDiff = lo, distance(idx[lo], query)
	}
	return Match{Index: best, DifferenceSeconds: bestDiff}, nil
}

func distance(a, b TimeOfDay) float64 {
	return math.Abs(a.Seconds() - b.Seconds())
}
