package tcx

import (
	"fmt"
	"time"
)

// Lap is one lap of an activity with its summary and its trackpoints
type Lap struct {
	Index     int       // 1-based
	StartTime time.Time // zero when the StartTime attribute is absent
	Stats     LapStats
	Points    []TrackPoint
}

// Activity is the parsed content of one TCX document.
// Only the first activity of a document is read.
type Activity struct {
	ID     string // text of the Activity Id element, usually the start timestamp
	Sport  string
	Laps   []Lap
	Totals ActivityTotals
}

// Reader parses TCX documents against a fixed namespace set
type Reader struct {
	ns Namespaces
}

// NewReader creates a Reader that resolves element names through ns
func NewReader(ns Namespaces) *Reader {
	return &Reader{ns: ns}
}

var defaultReader = NewReader(DefaultNamespaces())

// Parse parses a TCX document using the default namespace set
func Parse(content []byte) (*Activity, error) {
	return defaultReader.Parse(content)
}

// Parse converts a TCX document into an Activity.
// A document either parses completely or not at all: on any failure no
// partial Activity is returned.
func (r *Reader) Parse(content []byte) (*Activity, error) {
	root, err := decodeTree(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	activities := root.Child(r.ns.NS, "Activities")
	if activities == nil {
		return nil, fmt.Errorf("%w: no Activities element", ErrMalformedDocument)
	}
	node := activities.Child(r.ns.NS, "Activity")
	if node == nil {
		return nil, fmt.Errorf("%w: Activities is empty", ErrMalformedDocument)
	}

	activity := &Activity{
		ID:    node.Child(r.ns.NS, "Id").Text(),
		Sport: node.Attr("Sport"),
	}

	lapNodes := node.ChildrenNamed(r.ns.NS, "Lap")
	stats := make([]LapStats, 0, len(lapNodes))
	for i, lapNode := range lapNodes {
		lap, err := r.readLap(lapNode, i+1)
		if err != nil {
			return nil, fmt.Errorf("lap %d: %w", i+1, err)
		}
		activity.Laps = append(activity.Laps, lap)
		stats = append(stats, lap.Stats)
	}

	activity.Totals, err = SummarizeActivity(stats)
	if err != nil {
		return nil, err
	}

	return activity, nil
}

func (r *Reader) readLap(n *Node, index int) (Lap, error) {
	stats, err := SummarizeLap(n, r.ns)
	if err != nil {
		return Lap{}, err
	}

	var start time.Time
	if attr := n.Attr("StartTime"); attr != "" {
		if start, err = ParseTimestamp(attr); err != nil {
			return Lap{}, err
		}
	}

	track := n.Child(r.ns.NS, "Track")
	if track == nil {
		return Lap{}, fmt.Errorf("%w: no Track element", ErrMalformedDocument)
	}

	pointNodes := track.ChildrenNamed(r.ns.NS, "Trackpoint")
	points := make([]TrackPoint, 0, len(pointNodes))
	for j, pn := range pointNodes {
		p, err := ExtractPoint(pn, index, r.ns)
		if err != nil {
			return Lap{}, fmt.Errorf("trackpoint %d: %w", j+1, err)
		}
		points = append(points, p)
	}

	return Lap{Index: index, StartTime: start, Stats: stats, Points: points}, nil
}

// Points returns the trackpoints of all laps in document order
func (a *Activity) Points() []TrackPoint {
	n := 0
	for _, lap := range a.Laps {
		n += len(lap.Points)
	}
	points := make([]TrackPoint, 0, n)
	for _, lap := range a.Laps {
		points = append(points, lap.Points...)
	}
	return points
}

// LapStats returns the summary of every lap in order
func (a *Activity) LapStats() []LapStats {
	stats := make([]LapStats, len(a.Laps))
	for i, lap := range a.Laps {
		stats[i] = lap.Stats
	}
	return stats
}

// Elapsed returns the time between the first and last trackpoint, or 0 when
// the activity has fewer than two points
func (a *Activity) Elapsed() time.Duration {
	points := a.Points()
	if len(points) < 2 {
		return 0
	}
	return points[len(points)-1].Time.Sub(points[0].Time)
}

// StartTime returns the time of the first trackpoint
func (a *Activity) StartTime() (time.Time, bool) {
	for _, lap := range a.Laps {
		if len(lap.Points) > 0 {
			return lap.Points[0].Time, true
		}
	}
	return time.Time{}, false
}
