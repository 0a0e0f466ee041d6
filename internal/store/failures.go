package store

import (
	"fmt"
	"time"
)

// RecordParseFailure stores or replaces the failure record for a path
func (db *DB) RecordParseFailure(f ParseFailure) error {
	failedAt := f.FailedAt
	if failedAt.IsZero() {
		failedAt = time.Now().UTC()
	}

	_, err := db.Exec(`
		INSERT INTO parse_failures (path, kind, message, run_id, failed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind = excluded.kind,
			message = excluded.message,
			run_id = excluded.run_id,
			failed_at = excluded.failed_at
	`, f.Path, f.Kind, f.Message, f.RunID, failedAt.Format(time.RFC3339))
	return err
}

// ClearParseFailure removes the failure record for a path, if any
func (db *DB) ClearParseFailure(path string) error {
	_, err := db.Exec("DELETE FROM parse_failures WHERE path = ?", path)
	return err
}

// ListParseFailures returns all failure records, most recent first
func (db *DB) ListParseFailures() ([]ParseFailure, error) {
	rows, err := db.Query(`
		SELECT path, kind, message, run_id, failed_at
		FROM parse_failures
		ORDER BY failed_at DESC, path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []ParseFailure
	for rows.Next() {
		var f ParseFailure
		var failedAt string
		if err := rows.Scan(&f.Path, &f.Kind, &f.Message, &f.RunID, &failedAt); err != nil {
			return nil, err
		}
		if f.FailedAt, err = time.Parse(time.RFC3339, failedAt); err != nil {
			return nil, fmt.Errorf("parsing failed_at %q: %w", failedAt, err)
		}
		failures = append(failures, f)
	}

	return failures, rows.Err()
}
