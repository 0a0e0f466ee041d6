package tcx

import "errors"

// Parse failures. Every error returned by this package wraps exactly one of
// these, so callers can classify a failure with errors.Is.
var (
	// ErrMalformedDocument is returned when the input is not XML, lacks the
	// Activities/Activity/Track containers, or has non-numeric text in a
	// numeric field
	ErrMalformedDocument = errors.New("malformed TCX document")

	// ErrMissingField is returned when a required lap summary field or a
	// trackpoint Time is absent
	ErrMissingField = errors.New("missing required field")

	// ErrMalformedTimestamp is returned when a Time value cannot be parsed
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrEmptyActivity is returned when an activity has no laps
	ErrEmptyActivity = errors.New("activity has no laps")

	// ErrZeroDuration is returned when the laps of an activity add up to zero
	// seconds, which leaves the weighted heart rate undefined
	ErrZeroDuration = errors.New("activity has zero total time")
)
