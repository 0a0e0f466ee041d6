package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"tcx-utilities/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
)

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in meters to the user's preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.cfg.DistanceUnit == "mi" {
		return fmt.Sprintf("%.2f mi", meters/metersPerMile)
	}
	return fmt.Sprintf("%.2f km", meters/metersPerKm)
}

// FormatPace formats pace from total seconds and meters to the user's preferred unit
func (u Units) FormatPace(seconds, meters float64) string {
	if meters <= 0 || seconds <= 0 {
		return "-"
	}

	var paceSeconds float64
	if u.cfg.PaceUnit == "min/mi" {
		paceSeconds = seconds / (meters / metersPerMile)
	} else {
		paceSeconds = seconds / (meters / metersPerKm)
	}

	mins := int(paceSeconds) / 60
	secs := int(paceSeconds) % 60
	return fmt.Sprintf("%d:%02d /%s", mins, secs, u.paceDistance())
}

// FormatSpeed formats meters per second as a pace in the preferred unit
func (u Units) FormatSpeed(mps float64) string {
	if mps <= 0 {
		return "-"
	}
	return u.FormatPace(1, mps)
}

func (u Units) paceDistance() string {
	if u.cfg.PaceUnit == "min/mi" {
		return "mi"
	}
	return "km"
}

// FormatElevation formats meters, or feet when distances are shown in miles
func (u Units) FormatElevation(meters float64) string {
	if u.cfg.DistanceUnit == "mi" {
		return fmt.Sprintf("%.0f ft", meters*3.28084)
	}
	return fmt.Sprintf("%.0f m", meters)
}

// formatDuration renders seconds as H:MM:SS, or M:SS under an hour
func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// formatAgo renders t relative to now, or "never" for the zero time
func formatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
