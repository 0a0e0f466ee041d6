package store

import "time"

// Activity is the stored summary of one parsed TCX file
type Activity struct {
	ID                  int64     `db:"id"` // source activity id
	Path                string    `db:"path"`
	TcxID               string    `db:"tcx_id"` // Id element of the document
	Sport               string    `db:"sport"`
	StartDate           time.Time `db:"start_date"` // local calendar date the file is filed under
	StartTime           time.Time `db:"start_time"` // first trackpoint, zero when there are none
	TotalTimeSeconds    float64   `db:"total_time_seconds"`
	DistanceMeters      float64   `db:"distance_meters"`
	MaxSpeedMps         float64   `db:"max_speed"`
	AverageHeartRateBpm float64   `db:"average_heartrate"` // time-weighted over laps
	MaxHeartRateBpm     int       `db:"max_heartrate"`
	Calories            int       `db:"calories"`
	LapCount            int       `db:"lap_count"`
	PointCount          int       `db:"point_count"`
	IndexedAt           time.Time `db:"indexed_at"`
}

// Lap is one lap summary of a stored activity
type Lap struct {
	ActivityID          int64      `db:"activity_id"`
	LapIndex            int        `db:"lap_index"`  // 1-based
	StartTime           *time.Time `db:"start_time"` // nullable
	TotalTimeSeconds    float64    `db:"total_time_seconds"`
	DistanceMeters      float64    `db:"distance_meters"`
	MaxSpeedMps         float64    `db:"max_speed"`
	AverageHeartRateBpm int        `db:"average_heartrate"`
	MaxHeartRateBpm     int        `db:"max_heartrate"`
	Calories            int        `db:"calories"`
}

// TrackPoint is one stored sample. Seq keeps document order.
type TrackPoint struct {
	ActivityID      int64     `db:"activity_id"`
	Seq             int       `db:"seq"`
	LapIndex        int       `db:"lap_index"`
	Time            time.Time `db:"time"`
	DistanceMeters  *float64  `db:"distance"`  // nullable
	HeartRateBpm    *int      `db:"heartrate"` // nullable
	Cadence         *int      `db:"cadence"`   // nullable
	SpeedMps        *float64  `db:"speed"`     // nullable
	ElevationMeters *float64  `db:"altitude"`  // nullable
	Latitude        *float64  `db:"lat"`       // nullable
	Longitude       *float64  `db:"lng"`       // nullable
}

// ParseFailure records a file that could not be indexed
type ParseFailure struct {
	Path     string    `db:"path"`
	Kind     string    `db:"kind"` // short classification, e.g. "missing field"
	Message  string    `db:"message"`
	RunID    string    `db:"run_id"`
	FailedAt time.Time `db:"failed_at"`
}
