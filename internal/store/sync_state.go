package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Keys used in sync_state
const (
	KeyLastImportAt  = "last_import_at"
	KeyLastImportRun = "last_import_run"
	KeyLastIndexAt   = "last_index_at"
)

// GetSyncState retrieves a sync state value by key
// Returns empty string if key doesn't exist
func (db *DB) GetSyncState(key string) (string, error) {
	var value string
	err := db.QueryRow(`
		SELECT value FROM sync_state WHERE key = ?
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSyncState sets a sync state value
func (db *DB) SetSyncState(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// GetSyncTime reads a timestamp stored with SetSyncTime. The zero time and
// false are returned when the key is unset.
func (db *DB) GetSyncTime(key string) (time.Time, bool, error) {
	value, err := db.GetSyncState(key)
	if err != nil || value == "" {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing %s %q: %w", key, value, err)
	}
	return t, true, nil
}

// SetSyncTime stores t under key
func (db *DB) SetSyncTime(key string, t time.Time) error {
	return db.SetSyncState(key, t.UTC().Format(time.RFC3339))
}
