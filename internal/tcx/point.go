package tcx

import (
	"fmt"
	"time"
)

// TrackPoint is one timestamped sample of an activity.
// Every pointer field is nil unless the source element carried it.
type TrackPoint struct {
	LapIndex        int // 1-based ordinal of the enclosing lap
	Time            time.Time
	DistanceMeters  *float64 // cumulative from activity start
	HeartRateBpm    *int
	Cadence         *int
	SpeedMps        *float64 // from the ActivityExtension TPX block
	ElevationMeters *float64
	Latitude        *float64 // degrees
	Longitude       *float64 // degrees
}

// ExtractPoint converts one Trackpoint element into a TrackPoint
func ExtractPoint(n *Node, lapIndex int, ns Namespaces) (TrackPoint, error) {
	p := TrackPoint{LapIndex: lapIndex}

	timeNode := n.Child(ns.NS, "Time")
	if timeNode == nil {
		return TrackPoint{}, fmt.Errorf("%w: Time", ErrMissingField)
	}
	t, err := ParseTimestamp(timeNode.Text())
	if err != nil {
		return TrackPoint{}, err
	}
	p.Time = t

	if p.ElevationMeters, err = optionalFloat(n.Child(ns.NS, "AltitudeMeters"), "AltitudeMeters"); err != nil {
		return TrackPoint{}, err
	}
	if p.HeartRateBpm, err = optionalInt(n.Path(ns.NS, "HeartRateBpm", "Value"), "HeartRateBpm/Value"); err != nil {
		return TrackPoint{}, err
	}
	if p.Cadence, err = optionalInt(n.Child(ns.NS, "Cadence"), "Cadence"); err != nil {
		return TrackPoint{}, err
	}
	if p.SpeedMps, err = optionalFloat(n.Find(ns.NS3, "Speed"), "Speed"); err != nil {
		return TrackPoint{}, err
	}
	if p.DistanceMeters, err = optionalFloat(n.Child(ns.NS, "DistanceMeters"), "DistanceMeters"); err != nil {
		return TrackPoint{}, err
	}

	position := n.Child(ns.NS, "Position")
	if p.Latitude, err = optionalFloat(position.Child(ns.NS, "LatitudeDegrees"), "Position/LatitudeDegrees"); err != nil {
		return TrackPoint{}, err
	}
	if p.Longitude, err = optionalFloat(position.Child(ns.NS, "LongitudeDegrees"), "Position/LongitudeDegrees"); err != nil {
		return TrackPoint{}, err
	}

	return p, nil
}

// HasPosition returns true if both coordinates are present
func (p TrackPoint) HasPosition() bool {
	return p.Latitude != nil && p.Longitude != nil
}
