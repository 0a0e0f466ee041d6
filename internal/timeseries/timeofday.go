package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is the wall-clock offset from midnight. The calendar date is
// dropped, so two samples on different days with the same clock reading are
// equal.
type TimeOfDay time.Duration

var clockLayouts = []string{"15:04:05", "15:04"}

// TimeOfDayOf returns the clock reading of t in t's own location
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
	return TimeOfDay(d)
}

// ParseTimeOfDay parses "HH:MM:SS", "HH:MM:SS.fff" or "HH:MM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q: want HH:MM:SS", s)
}

// Seconds returns the offset from midnight in seconds
func (t TimeOfDay) Seconds() float64 {
	return time.Duration(t).Seconds()
}

// String formats t as HH:MM:SS, adding milliseconds when they are non-zero
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second

	if ms := d / time.Millisecond; ms > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
