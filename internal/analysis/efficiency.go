package analysis

import (
	"time"

	"tcx-utilities/internal/tcx"
)

// minDecouplingSpan is the shortest recording AerobicDecoupling will judge
const minDecouplingSpan = 2 * time.Minute

// EfficiencyFactor calculates pace:HR efficiency as (meters per minute) / HR.
// Higher is better: you're running faster for the same HR.
// Typical values range from 1.0 to 2.0. Returns 0 without usable samples.
func EfficiencyFactor(points []tcx.TrackPoint) float64 {
	var totalSpeed, totalHR float64
	var count int

	for _, p := range points {
		if p.SpeedMps == nil || p.HeartRateBpm == nil {
			continue
		}
		speed := *p.SpeedMps
		hr := float64(*p.HeartRateBpm)
		// must be actually moving with a believable heart rate
		if speed > 0.5 && hr > 80 && hr < 220 {
			totalSpeed += speed
			totalHR += hr
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (totalSpeed / float64(count) * 60) / (totalHR / float64(count))
}

// AerobicDecoupling compares the efficiency factor of the first and second
// half of the points, as a percentage. Positive means the second half was
// less efficient; under 5% on a long run indicates a good aerobic base.
// Returns 0 for recordings under two minutes or halves without usable samples.
func AerobicDecoupling(points []tcx.TrackPoint) float64 {
	if len(points) < 2 || points[len(points)-1].Time.Sub(points[0].Time) < minDecouplingSpan {
		return 0
	}

	mid := len(points) / 2
	first := EfficiencyFactor(points[:mid])
	second := EfficiencyFactor(points[mid:])
	if first == 0 || second == 0 {
		return 0
	}

	return (first/second - 1) * 100
}

// DecouplingAssessment returns a human-readable decoupling assessment
func DecouplingAssessment(decoupling float64) string {
	switch {
	case decoupling < 3:
		return "Excellent aerobic base"
	case decoupling < 5:
		return "Good aerobic fitness"
	case decoupling < 8:
		return "Developing aerobic base"
	case decoupling < 12:
		return "Needs more easy miles"
	default:
		return "Aerobic system needs work"
	}
}
