package tcx

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Fixture(t *testing.T) {
	activity, err := Parse(readFixture(t, "two_laps.tcx"))
	require.NoError(t, err)

	assert.Equal(t, "2024-01-05T12:29:20.000Z", activity.ID)
	assert.Equal(t, "Running", activity.Sport)
	require.Len(t, activity.Laps, 2)

	assert.Equal(t, LapStats{
		TotalTimeSeconds:    600,
		DistanceMeters:      1800.5,
		MaxSpeedMps:         3.612,
		AverageHeartRateBpm: 140,
		MaxHeartRateBpm:     158,
		Calories:            120,
	}, activity.Laps[0].Stats)
	assert.Equal(t, 2, activity.Laps[1].Index)
	assert.Equal(t, time.Date(2024, 1, 5, 12, 39, 20, 0, time.UTC), activity.Laps[1].StartTime.UTC())

	// 3 trackpoints in lap 1, 2 in lap 2
	assert.Len(t, activity.Laps[0].Points, 3)
	assert.Len(t, activity.Laps[1].Points, 2)
	assert.Len(t, activity.Points(), 5)

	first := activity.Laps[0].Points[0]
	assert.Equal(t, 1, first.LapIndex)
	assert.Equal(t, time.Date(2024, 1, 5, 12, 29, 20, 0, time.UTC), first.Time.UTC())
	assert.Equal(t, floatPtr(47.6062), first.Latitude)
	assert.Equal(t, floatPtr(-122.3321), first.Longitude)
	assert.Equal(t, floatPtr(52.4), first.ElevationMeters)
	assert.Equal(t, floatPtr(0), first.DistanceMeters)
	assert.Equal(t, intPtr(98), first.HeartRateBpm)
	assert.Equal(t, intPtr(80), first.Cadence)
	assert.Equal(t, floatPtr(0), first.SpeedMps)

	second := activity.Laps[0].Points[1]
	assert.Nil(t, second.Cadence)
	assert.Equal(t, floatPtr(3.1), second.SpeedMps)

	bare := activity.Laps[0].Points[2]
	assert.Equal(t, TrackPoint{LapIndex: 1, Time: bare.Time}, bare)

	lap2 := activity.Laps[1].Points
	assert.Equal(t, 2, lap2[0].LapIndex)
	assert.Equal(t, 500*time.Millisecond, time.Duration(lap2[0].Time.Nanosecond()))
	assert.Equal(t, intPtr(-3), lap2[0].Cadence, "negative cadence is kept as-is")
	assert.False(t, lap2[0].HasPosition())
	assert.Nil(t, lap2[1].SpeedMps)

	totals := activity.Totals
	assert.Equal(t, 900.0, totals.TotalTimeSeconds)
	assert.Equal(t, 3000.0, totals.DistanceMeters)
	assert.Equal(t, 200, totals.Calories)
	assert.Equal(t, 4.25, totals.MaxSpeedMps)
	assert.Equal(t, 181, totals.MaxHeartRateBpm)
	// (140*600 + 170*300) / 900; the unweighted mean would be 155
	assert.Equal(t, 150.0, totals.AverageHeartRateBpm)

	assert.Equal(t, 15*time.Minute, activity.Elapsed())
	start, ok := activity.StartTime()
	require.True(t, ok)
	assert.True(t, start.Equal(first.Time))
}

func TestParse_PointCountMatchesSource(t *testing.T) {
	tests := []struct {
		name     string
		perLap   []int
		expected int
	}{
		{"single lap", []int{4}, 4},
		{"several laps", []int{2, 0, 5}, 7},
		{"laps without points", []int{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var laps []string
			for _, n := range tt.perLap {
				var points []string
				for i := 0; i < n; i++ {
					points = append(points, pointXML(time.Date(2024, 3, 1, 9, 0, i, 0, time.UTC).Format(time.RFC3339)))
				}
				laps = append(laps, lapXML(summary(60, 100, 2, 120, 130, 10), points...))
			}

			activity, err := Parse(buildDoc(laps...))
			require.NoError(t, err)
			assert.Len(t, activity.Points(), tt.expected)
			for i, lap := range activity.Laps {
				assert.Len(t, lap.Points, tt.perLap[i])
				for _, p := range lap.Points {
					assert.Equal(t, i+1, p.LapIndex)
				}
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	okLap := lapXML(summary(60, 100, 2, 120, 130, 10), pointXML("2024-03-01T09:00:00Z"))

	tests := []struct {
		name    string
		content []byte
		wantErr error
	}{
		{
			name:    "not xml",
			content: []byte("this is not xml"),
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "truncated document",
			content: buildDoc(okLap)[:200],
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "empty input",
			content: nil,
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "no activities element",
			content: []byte(docHeader + `</TrainingCenterDatabase>`),
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "empty activities",
			content: []byte(docHeader + `<Activities></Activities></TrainingCenterDatabase>`),
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "wrong namespace",
			content: []byte(`<TrainingCenterDatabase xmlns="urn:other"><Activities><Activity>` + okLap + `</Activity></Activities></TrainingCenterDatabase>`),
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "lap without track",
			content: buildDoc("<Lap>" + summary(60, 100, 2, 120, 130, 10) + "</Lap>"),
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "no laps",
			content: buildDoc(),
			wantErr: ErrEmptyActivity,
		},
		{
			name:    "zero total time",
			content: buildDoc(lapXML(summary(0, 100, 2, 120, 130, 10))),
			wantErr: ErrZeroDuration,
		},
		{
			name:    "missing calories",
			content: buildDoc(lapXML(summary(60, 100, 2, 120, 130, 10, "Calories"))),
			wantErr: ErrMissingField,
		},
		{
			name:    "non-numeric distance",
			content: buildDoc(lapXML("<TotalTimeSeconds>60</TotalTimeSeconds><DistanceMeters>far</DistanceMeters>")),
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "bad lap start time",
			content: buildDoc(`<Lap StartTime="soon">` + summary(60, 100, 2, 120, 130, 10) + `<Track></Track></Lap>`),
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "trackpoint without time",
			content: buildDoc(lapXML(summary(60, 100, 2, 120, 130, 10), "<Trackpoint><AltitudeMeters>1</AltitudeMeters></Trackpoint>")),
			wantErr: ErrMissingField,
		},
		{
			name:    "unparsable time",
			content: buildDoc(lapXML(summary(60, 100, 2, 120, 130, 10), pointXML("yesterday"))),
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "non-numeric heart rate",
			content: buildDoc(lapXML(summary(60, 100, 2, 120, 130, 10), pointXML("2024-03-01T09:00:00Z", "<HeartRateBpm><Value>fast</Value></HeartRateBpm>"))),
			wantErr: ErrMalformedDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity, err := Parse(tt.content)
			require.Error(t, err)
			assert.Nil(t, activity)
			assert.True(t, errors.Is(err, tt.wantErr), "error %v should wrap %v", err, tt.wantErr)
		})
	}
}

func TestParse_MissingFieldInLaterLapReturnsNothing(t *testing.T) {
	content := buildDoc(
		lapXML(summary(60, 100, 2, 120, 130, 10), pointXML("2024-03-01T09:00:00Z")),
		lapXML(summary(60, 100, 2, 120, 130, 10, "Calories"), pointXML("2024-03-01T09:01:00Z")),
	)

	activity, err := Parse(content)
	require.ErrorIs(t, err, ErrMissingField)
	assert.Nil(t, activity)
	assert.Contains(t, err.Error(), "lap 2")
	assert.Contains(t, err.Error(), "Calories")
}

func TestParse_OnlyFirstActivity(t *testing.T) {
	second := `<Activity Sport="Biking"><Id>other</Id>` + lapXML(summary(10, 1, 1, 1, 1, 1)) + `</Activity>`
	content := []byte(docHeader + `<Activities><Activity Sport="Running"><Id>first</Id>` +
		lapXML(summary(60, 100, 2, 120, 130, 10)) + `</Activity>` + second + `</Activities></TrainingCenterDatabase>`)

	activity, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "first", activity.ID)
	assert.Equal(t, 60.0, activity.Totals.TotalTimeSeconds)
}

func TestParse_ByteOrderMark(t *testing.T) {
	content := append([]byte("\xef\xbb\xbf"), buildDoc(lapXML(summary(60, 100, 2, 120, 130, 10)))...)
	_, err := Parse(content)
	require.NoError(t, err)
}

func TestReader_CustomNamespaces(t *testing.T) {
	ns := DefaultNamespaces()
	ns.NS = "urn:example:tcx"

	content := []byte(`<TrainingCenterDatabase xmlns="urn:example:tcx"><Activities><Activity>` +
		lapXML(summary(60, 100, 2, 120, 130, 10), pointXML("2024-03-01T09:00:00Z")) +
		`</Activity></Activities></TrainingCenterDatabase>`)

	activity, err := NewReader(ns).Parse(content)
	require.NoError(t, err)
	assert.Len(t, activity.Points(), 1)

	_, err = Parse(content)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestActivity_ElapsedFewPoints(t *testing.T) {
	activity, err := Parse(buildDoc(lapXML(summary(60, 100, 2, 120, 130, 10), pointXML("2024-03-01T09:00:00Z"))))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), activity.Elapsed())

	empty := &Activity{}
	_, ok := empty.StartTime()
	assert.False(t, ok)
}
