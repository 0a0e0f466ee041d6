package tcx

import (
	"fmt"
	"strings"
)

// LapStats holds the summary elements of one lap
type LapStats struct {
	TotalTimeSeconds    float64
	DistanceMeters      float64
	MaxSpeedMps         float64
	AverageHeartRateBpm int
	MaxHeartRateBpm     int
	Calories            int
}

// ActivityTotals aggregates the laps of one activity.
// AverageHeartRateBpm is the lap averages weighted by lap duration.
type ActivityTotals struct {
	TotalTimeSeconds    float64
	DistanceMeters      float64
	MaxSpeedMps         float64
	AverageHeartRateBpm float64
	MaxHeartRateBpm     int
	Calories            int
}

// SummarizeLap reads the six required summary fields of a Lap element
func SummarizeLap(n *Node, ns Namespaces) (LapStats, error) {
	var s LapStats
	var err error

	if s.TotalTimeSeconds, err = requiredFloat(n, ns, "TotalTimeSeconds"); err != nil {
		return LapStats{}, err
	}
	if s.DistanceMeters, err = requiredFloat(n, ns, "DistanceMeters"); err != nil {
		return LapStats{}, err
	}
	if s.MaxSpeedMps, err = requiredFloat(n, ns, "MaximumSpeed"); err != nil {
		return LapStats{}, err
	}
	if s.AverageHeartRateBpm, err = requiredInt(n, ns, "AverageHeartRateBpm", "Value"); err != nil {
		return LapStats{}, err
	}
	if s.MaxHeartRateBpm, err = requiredInt(n, ns, "MaximumHeartRateBpm", "Value"); err != nil {
		return LapStats{}, err
	}
	if s.Calories, err = requiredInt(n, ns, "Calories"); err != nil {
		return LapStats{}, err
	}

	return s, nil
}

// SummarizeActivity combines lap statistics into activity totals.
// The heart rate products are accumulated across all laps before the single
// division by total time.
func SummarizeActivity(laps []LapStats) (ActivityTotals, error) {
	if len(laps) == 0 {
		return ActivityTotals{}, ErrEmptyActivity
	}

	t := ActivityTotals{
		MaxSpeedMps:     laps[0].MaxSpeedMps,
		MaxHeartRateBpm: laps[0].MaxHeartRateBpm,
	}
	var weightedHR float64

	for _, lap := range laps {
		t.TotalTimeSeconds += lap.TotalTimeSeconds
		t.DistanceMeters += lap.DistanceMeters
		t.Calories += lap.Calories
		if lap.MaxSpeedMps > t.MaxSpeedMps {
			t.MaxSpeedMps = lap.MaxSpeedMps
		}
		if lap.MaxHeartRateBpm > t.MaxHeartRateBpm {
			t.MaxHeartRateBpm = lap.MaxHeartRateBpm
		}
		weightedHR += float64(lap.AverageHeartRateBpm) * lap.TotalTimeSeconds
	}

	if t.TotalTimeSeconds == 0 {
		return ActivityTotals{}, ErrZeroDuration
	}
	t.AverageHeartRateBpm = weightedHR / t.TotalTimeSeconds

	return t, nil
}

func requiredNode(n *Node, ns Namespaces, path ...string) (*Node, string, error) {
	field := strings.Join(path, "/")
	found := n.Path(ns.NS, path...)
	if found == nil {
		return nil, field, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	return found, field, nil
}

func requiredFloat(n *Node, ns Namespaces, path ...string) (float64, error) {
	found, field, err := requiredNode(n, ns, path...)
	if err != nil {
		return 0, err
	}
	return found.parseFloat(field)
}

func requiredInt(n *Node, ns Namespaces, path ...string) (int, error) {
	found, field, err := requiredNode(n, ns, path...)
	if err != nil {
		return 0, err
	}
	return found.parseInt(field)
}
