package analysis

import (
	"math"
	"testing"
	"time"

	"tcx-utilities/internal/tcx"
)

var start = time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// makePoint builds a sample offset seconds after start
func makePoint(offset int, speed float64, hr int) tcx.TrackPoint {
	return tcx.TrackPoint{
		Time:         start.Add(time.Duration(offset) * time.Second),
		SpeedMps:     floatPtr(speed),
		HeartRateBpm: intPtr(hr),
	}
}

// distanceRun builds one point per second whose cumulative distance comes
// from dist
func distanceRun(seconds int, dist func(i int) float64) []tcx.TrackPoint {
	points := make([]tcx.TrackPoint, 0, seconds+1)
	for i := 0; i <= seconds; i++ {
		points = append(points, tcx.TrackPoint{
			Time:           start.Add(time.Duration(i) * time.Second),
			DistanceMeters: floatPtr(dist(i)),
			HeartRateBpm:   intPtr(150),
		})
	}
	return points
}

func TestFindBestEffort_FastMiddle(t *testing.T) {
	// slow first minute, 300 s at 3.7 m/s, then slow again
	points := distanceRun(600, func(i int) float64 {
		switch {
		case i <= 60:
			return float64(i) * 3.33
		case i <= 360:
			return 200 + float64(i-60)*3.7
		default:
			return 1310 + float64(i-360)*2.5
		}
	})

	effort := FindBestEffort(points, 1000)
	if effort == nil {
		t.Fatal("Expected to find a best effort, got nil")
	}

	// 1000 m at 3.7 m/s is 270.3 s, rounded up to the next sample
	if effort.Duration != 271*time.Second {
		t.Errorf("Duration = %v, want 271s", effort.Duration)
	}
	if effort.DistanceMeters < 1000 {
		t.Errorf("DistanceMeters = %.2f, want >= 1000", effort.DistanceMeters)
	}
	if effort.Start.Before(start.Add(59*time.Second)) || effort.End.After(start.Add(361*time.Second)) {
		t.Errorf("effort %v-%v should lie in the fast section", effort.Start, effort.End)
	}
	if effort.AvgHeartRate != 150 {
		t.Errorf("AvgHeartRate = %v, want 150", effort.AvgHeartRate)
	}
}

func TestFindBestEffort_TooShort(t *testing.T) {
	points := distanceRun(60, func(i int) float64 { return float64(i) * 5 })
	if effort := FindBestEffort(points, 1000); effort != nil {
		t.Errorf("Expected nil for a 300 m activity, got %+v", effort)
	}
}

func TestFindBestEffort_NoDistance(t *testing.T) {
	points := []tcx.TrackPoint{makePoint(0, 3, 150), makePoint(1, 3, 150)}
	if effort := FindBestEffort(points, 400); effort != nil {
		t.Errorf("Expected nil without distances, got %+v", effort)
	}
	if effort := FindBestEffort(nil, 400); effort != nil {
		t.Errorf("Expected nil for no points, got %+v", effort)
	}
}

func TestFindBestEffort_SparseSamples(t *testing.T) {
	at := func(offset float64, dist float64, hr int) tcx.TrackPoint {
		return tcx.TrackPoint{
			Time:           start.Add(time.Duration(offset * float64(time.Second))),
			DistanceMeters: floatPtr(dist),
			HeartRateBpm:   intPtr(hr),
		}
	}
	points := []tcx.TrackPoint{
		at(0, 0, 98),
		at(2, 6.2, 101),
		{Time: start.Add(4 * time.Second)}, // no distance
		at(600.5, 1802.1, 165),
		at(900.5, 3000, 178),
	}

	effort := FindBestEffort(points, 1000)
	if effort == nil {
		t.Fatal("Expected a best effort")
	}
	if effort.Duration != 300*time.Second {
		t.Errorf("Duration = %v, want 5m0s", effort.Duration)
	}
	if math.Abs(effort.DistanceMeters-1197.9) > 1e-9 {
		t.Errorf("DistanceMeters = %v, want 1197.9", effort.DistanceMeters)
	}
	if effort.AvgHeartRate != 171.5 {
		t.Errorf("AvgHeartRate = %v, want 171.5", effort.AvgHeartRate)
	}

	efforts := BestEfforts(points)
	if len(efforts) != 3 {
		t.Fatalf("BestEfforts() returned %d efforts, want 400 m, 1 km and 1 mile", len(efforts))
	}
	if efforts[2].TargetMeters != Distance1Mile || efforts[2].Duration != 598500*time.Millisecond {
		t.Errorf("mile effort = %+v", efforts[2])
	}
}

func TestEfficiencyFactor(t *testing.T) {
	tests := []struct {
		name     string
		points   []tcx.TrackPoint
		expected float64
	}{
		{
			name:     "empty",
			expected: 0,
		},
		{
			name: "constant pace and HR",
			points: []tcx.TrackPoint{
				makePoint(0, 3.0, 150),
				makePoint(1, 3.0, 150),
			},
			// EF = (3.0 * 60) / 150 = 1.2
			expected: 1.2,
		},
		{
			name: "varying pace same HR",
			points: []tcx.TrackPoint{
				makePoint(0, 2.5, 150),
				makePoint(1, 3.5, 150),
			},
			expected: 1.2,
		},
		{
			name: "filters out invalid points",
			points: []tcx.TrackPoint{
				makePoint(0, 3.0, 150),
				makePoint(1, 0.3, 150), // standing still
				makePoint(2, 3.0, 70),  // HR too low
				makePoint(3, 3.0, 230), // HR too high
				{Time: start.Add(4 * time.Second), HeartRateBpm: intPtr(150)},
			},
			expected: 1.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EfficiencyFactor(tt.points)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("EfficiencyFactor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAerobicDecoupling(t *testing.T) {
	steady := make([]tcx.TrackPoint, 0, 240)
	fading := make([]tcx.TrackPoint, 0, 240)
	for i := 0; i < 240; i++ {
		steady = append(steady, makePoint(i, 3.0, 150))
		hr := 150
		if i >= 120 {
			hr = 165
		}
		fading = append(fading, makePoint(i, 3.0, hr))
	}

	if got := AerobicDecoupling(steady); math.Abs(got) > 0.001 {
		t.Errorf("steady run decoupling = %v, want 0", got)
	}

	// EF 1.2 against 180/165
	if got := AerobicDecoupling(fading); math.Abs(got-10) > 0.001 {
		t.Errorf("fading run decoupling = %v, want 10", got)
	}

	if got := AerobicDecoupling(fading[:60]); got != 0 {
		t.Errorf("one-minute run decoupling = %v, want 0", got)
	}
}

func TestDecouplingAssessment(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{-2, "Excellent aerobic base"},
		{4, "Good aerobic fitness"},
		{10, "Needs more easy miles"},
		{20, "Aerobic system needs work"},
	}
	for _, tt := range tests {
		if got := DecouplingAssessment(tt.value); got != tt.want {
			t.Errorf("DecouplingAssessment(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
