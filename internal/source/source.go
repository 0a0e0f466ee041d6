// Package source provides activity metadata and raw TCX documents to the
// importer.
package source

//go:generate mockgen -source=$GOFILE -destination=sourcetest/mock_source.go -package=sourcetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LocalTimeLayout is the layout of startTimeLocal values
const LocalTimeLayout = "2006-01-02 15:04:05"

// ErrActivityNotFound is returned when a source has no document for an id
var ErrActivityNotFound = errors.New("activity not found")

// Source lists activities and hands out their TCX documents
type Source interface {
	// ListActivities returns metadata for activities whose local start date
	// lies within [start, end], comparing calendar dates only
	ListActivities(ctx context.Context, start, end time.Time) ([]Metadata, error)
	DownloadTCX(ctx context.Context, activityID int64) ([]byte, error)
}

// Metadata describes one activity as listed by a source
type Metadata struct {
	ActivityID     int64        `json:"activityId"`
	StartTimeLocal LocalTime    `json:"startTimeLocal"`
	ActivityName   string       `json:"activityName,omitempty"`
	ActivityType   ActivityType `json:"activityType"`
}

// ActivityType is the nested type descriptor, e.g. {"typeKey": "running"}
type ActivityType struct {
	TypeKey string `json:"typeKey"`
}

// LocalTime is a zone-less wall-clock timestamp. The value is held as UTC
// with the wall-clock fields unchanged.
type LocalTime struct {
	time.Time
}

// UnmarshalJSON parses "2006-01-02 15:04:05"
func (t *LocalTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(LocalTimeLayout, s)
	if err != nil {
		return fmt.Errorf("parsing local time %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON writes the wall-clock value in the same layout
func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(LocalTimeLayout) + `"`), nil
}

// inRange reports whether t's calendar date falls within [start, end]
func inRange(t, start, end time.Time) bool {
	d := dateOf(t)
	return !d.Before(dateOf(start)) && !d.After(dateOf(end))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
