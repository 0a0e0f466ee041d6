package store

import (
	"database/sql"
	"fmt"
	"time"
)

func replaceLaps(tx *sql.Tx, activityID int64, laps []Lap) error {
	if _, err := tx.Exec("DELETE FROM laps WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("deleting existing laps: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO laps (
			activity_id, lap_index, start_time, total_time_seconds, distance_meters,
			max_speed, average_heartrate, max_heartrate, calories
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, l := range laps {
		var start *string
		if l.StartTime != nil {
			start = formatOptionalTime(*l.StartTime)
		}
		_, err := stmt.Exec(
			activityID, l.LapIndex, start, l.TotalTimeSeconds, l.DistanceMeters,
			l.MaxSpeedMps, l.AverageHeartRateBpm, l.MaxHeartRateBpm, l.Calories,
		)
		if err != nil {
			return fmt.Errorf("inserting lap %d: %w", l.LapIndex, err)
		}
	}

	return nil
}

func replaceTrackPoints(tx *sql.Tx, activityID int64, points []TrackPoint) error {
	if _, err := tx.Exec("DELETE FROM trackpoints WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("deleting existing trackpoints: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trackpoints (
			activity_id, seq, lap_index, time, distance, heartrate,
			cadence, speed, altitude, lat, lng
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		_, err := stmt.Exec(
			activityID, i, p.LapIndex, p.Time.Format(time.RFC3339Nano), p.DistanceMeters, p.HeartRateBpm,
			p.Cadence, p.SpeedMps, p.ElevationMeters, p.Latitude, p.Longitude,
		)
		if err != nil {
			return fmt.Errorf("inserting trackpoint %d: %w", i, err)
		}
	}

	return nil
}

// GetLaps retrieves the laps of an activity in order
func (db *DB) GetLaps(activityID int64) ([]Lap, error) {
	return db.queryLaps(`
		SELECT activity_id, lap_index, start_time, total_time_seconds, distance_meters,
			max_speed, average_heartrate, max_heartrate, calories
		FROM laps
		WHERE activity_id = ?
		ORDER BY lap_index
	`, activityID)
}

// GetLapsBetween retrieves every lap of the activities filed within
// [start, end], ordered by activity date then lap
func (db *DB) GetLapsBetween(start, end time.Time) ([]Lap, error) {
	return db.queryLaps(`
		SELECT l.activity_id, l.lap_index, l.start_time, l.total_time_seconds, l.distance_meters,
			l.max_speed, l.average_heartrate, l.max_heartrate, l.calories
		FROM laps l
		JOIN activities a ON a.id = l.activity_id
		WHERE a.start_date >= ? AND a.start_date <= ?
		ORDER BY a.start_date, a.id, l.lap_index
	`, start.Format(dateLayout), end.Format(dateLayout))
}

func (db *DB) queryLaps(query string, args ...any) ([]Lap, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var laps []Lap
	for rows.Next() {
		var l Lap
		var start sql.NullString
		err := rows.Scan(
			&l.ActivityID, &l.LapIndex, &start, &l.TotalTimeSeconds, &l.DistanceMeters,
			&l.MaxSpeedMps, &l.AverageHeartRateBpm, &l.MaxHeartRateBpm, &l.Calories,
		)
		if err != nil {
			return nil, err
		}
		if start.Valid {
			t, err := time.Parse(time.RFC3339Nano, start.String)
			if err != nil {
				return nil, fmt.Errorf("parsing lap start_time %q: %w", start.String, err)
			}
			l.StartTime = &t
		}
		laps = append(laps, l)
	}

	return laps, rows.Err()
}

// GetTrackPoints retrieves all trackpoints of an activity in document order
func (db *DB) GetTrackPoints(activityID int64) ([]TrackPoint, error) {
	rows, err := db.Query(`
		SELECT activity_id, seq, lap_index, time, distance, heartrate,
			cadence, speed, altitude, lat, lng
		FROM trackpoints
		WHERE activity_id = ?
		ORDER BY seq
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrackPoint
	for rows.Next() {
		var p TrackPoint
		var ts string
		err := rows.Scan(
			&p.ActivityID, &p.Seq, &p.LapIndex, &ts, &p.DistanceMeters, &p.HeartRateBpm,
			&p.Cadence, &p.SpeedMps, &p.ElevationMeters, &p.Latitude, &p.Longitude,
		)
		if err != nil {
			return nil, err
		}
		if p.Time, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing trackpoint time %q: %w", ts, err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}
