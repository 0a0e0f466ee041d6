package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// SaveActivity stores an activity with its laps and trackpoints.
// Any laps and points already stored for the activity are replaced, all
// within one transaction.
func (db *DB) SaveActivity(a *Activity, laps []Lap, points []TrackPoint) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	indexedAt := a.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now().UTC()
	}

	_, err = tx.Exec(`
		INSERT INTO activities (
			id, path, tcx_id, sport, start_date, start_time,
			total_time_seconds, distance_meters, max_speed,
			average_heartrate, max_heartrate, calories,
			lap_count, point_count, indexed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			tcx_id = excluded.tcx_id,
			sport = excluded.sport,
			start_date = excluded.start_date,
			start_time = excluded.start_time,
			total_time_seconds = excluded.total_time_seconds,
			distance_meters = excluded.distance_meters,
			max_speed = excluded.max_speed,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			calories = excluded.calories,
			lap_count = excluded.lap_count,
			point_count = excluded.point_count,
			indexed_at = excluded.indexed_at
	`,
		a.ID, a.Path, a.TcxID, a.Sport, a.StartDate.Format(dateLayout), formatOptionalTime(a.StartTime),
		a.TotalTimeSeconds, a.DistanceMeters, a.MaxSpeedMps,
		a.AverageHeartRateBpm, a.MaxHeartRateBpm, a.Calories,
		len(laps), len(points), indexedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting activity: %w", err)
	}

	if err := replaceLaps(tx, a.ID, laps); err != nil {
		return err
	}
	if err := replaceTrackPoints(tx, a.ID, points); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	a.LapCount = len(laps)
	a.PointCount = len(points)
	a.IndexedAt = indexedAt
	return nil
}

const activityColumns = `
	id, path, tcx_id, sport, start_date, start_time,
	total_time_seconds, distance_meters, max_speed,
	average_heartrate, max_heartrate, calories,
	lap_count, point_count, indexed_at`

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id int64) (*Activity, error) {
	row := db.QueryRow(`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActivitiesBetween returns activities filed on dates within
// [start, end], comparing calendar dates only, oldest first
func (db *DB) ListActivitiesBetween(start, end time.Time) ([]Activity, error) {
	rows, err := db.Query(`SELECT `+activityColumns+`
		FROM activities
		WHERE start_date >= ? AND start_date <= ?
		ORDER BY start_date, start_time, id
	`, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	return activities, rows.Err()
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// DeleteActivity removes an activity; its laps and points go with it
func (db *DB) DeleteActivity(id int64) error {
	result, err := db.Exec("DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActivityNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanActivity scans a single activity from a row
func scanActivity(row scanner) (*Activity, error) {
	var a Activity
	var startDate, indexedAt string
	var startTime sql.NullString

	err := row.Scan(
		&a.ID, &a.Path, &a.TcxID, &a.Sport, &startDate, &startTime,
		&a.TotalTimeSeconds, &a.DistanceMeters, &a.MaxSpeedMps,
		&a.AverageHeartRateBpm, &a.MaxHeartRateBpm, &a.Calories,
		&a.LapCount, &a.PointCount, &indexedAt,
	)
	if err != nil {
		return nil, err
	}

	var parseErr error
	a.StartDate, parseErr = time.Parse(dateLayout, startDate)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, parseErr)
	}
	if startTime.Valid {
		a.StartTime, parseErr = time.Parse(time.RFC3339Nano, startTime.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing start_time %q: %w", startTime.String, parseErr)
		}
	}
	a.IndexedAt, parseErr = time.Parse(time.RFC3339, indexedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing indexed_at %q: %w", indexedAt, parseErr)
	}

	return &a, nil
}

func formatOptionalTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}
