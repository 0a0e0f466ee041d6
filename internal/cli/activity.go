package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tcx-utilities/internal/analysis"
	"tcx-utilities/internal/service"
	"tcx-utilities/internal/tcx"
	"tcx-utilities/internal/timeseries"
)

// withQuery runs fn against a query service over the configured database
func (a *app) withQuery(fn func(q *service.QueryService) error) error {
	db, err := a.openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(service.NewQueryService(db))
}

// loadActivity resolves a path or stored activity id
func (a *app) loadActivity(ref string) (activity *tcx.Activity, err error) {
	err = a.withQuery(func(q *service.QueryService) error {
		activity, err = q.Load(ref)
		return err
	})
	return activity, err
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path|id>",
		Short: "Show an activity's totals and laps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withQuery(func(q *service.QueryService) error {
				activity, err := q.Load(args[0])
				if err != nil {
					return err
				}
				a.printActivity(cmd.OutOrStdout(), activity, q.Duration(activity))
				return nil
			})
		},
	}
}

func (a *app) printActivity(w io.Writer, activity *tcx.Activity, elapsed time.Duration) {
	title := activity.Sport
	if start, ok := activity.StartTime(); ok {
		title += " " + start.Format("2006-01-02 15:04:05")
	}
	fmt.Fprintln(w, titleStyle.Render(title))

	t := activity.Totals
	fmt.Fprintln(w, renderMetric("Distance", a.units.FormatDistance(t.DistanceMeters)))
	fmt.Fprintln(w, renderMetric("Time", formatDuration(t.TotalTimeSeconds)))
	fmt.Fprintln(w, renderMetric("Elapsed", formatDuration(elapsed.Seconds())))
	fmt.Fprintln(w, renderMetric("Pace", a.units.FormatPace(t.TotalTimeSeconds, t.DistanceMeters)))
	fmt.Fprintln(w, renderMetric("Best pace", a.units.FormatSpeed(t.MaxSpeedMps)))
	fmt.Fprintln(w, renderMetric("Avg heart rate", fmt.Sprintf("%.1f bpm", t.AverageHeartRateBpm)))
	fmt.Fprintln(w, renderMetric("Max heart rate", fmt.Sprintf("%d bpm", t.MaxHeartRateBpm)))
	fmt.Fprintln(w, renderMetric("Calories", formatCount(t.Calories)))
	fmt.Fprintln(w, renderMetric("Points", formatCount(len(activity.Points()))))
	fmt.Fprintln(w)

	rows := make([][]string, len(activity.Laps))
	for i, lap := range activity.Laps {
		s := lap.Stats
		rows[i] = []string{
			fmt.Sprintf("%d", lap.Index),
			a.units.FormatDistance(s.DistanceMeters),
			formatDuration(s.TotalTimeSeconds),
			a.units.FormatPace(s.TotalTimeSeconds, s.DistanceMeters),
			fmt.Sprintf("%d", s.AverageHeartRateBpm),
			fmt.Sprintf("%d", s.MaxHeartRateBpm),
			fmt.Sprintf("%d", s.Calories),
		}
	}
	fmt.Fprint(w, renderTable([]string{"Lap", "Distance", "Time", "Pace", "Avg HR", "Max HR", "Calories"}, rows))

	a.printAnalysis(w, activity.Points())
}

func (a *app) printAnalysis(w io.Writer, points []tcx.TrackPoint) {
	efforts := analysis.BestEfforts(points)
	if len(efforts) > 0 {
		fmt.Fprintln(w)
		for _, e := range efforts {
			value := fmt.Sprintf("%s  %s", formatDuration(e.Duration.Seconds()), a.units.FormatPace(e.Duration.Seconds(), e.DistanceMeters))
			fmt.Fprintln(w, renderMetric("Best "+analysis.EffortLabels[e.TargetMeters], value))
		}
	}

	if ef := analysis.EfficiencyFactor(points); ef > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderMetric("Efficiency", fmt.Sprintf("%.2f", ef)))
		if d := analysis.AerobicDecoupling(points); d != 0 {
			fmt.Fprintln(w, renderMetric("Decoupling", fmt.Sprintf("%.1f%% %s", d, mutedStyle.Render(analysis.DecouplingAssessment(d)))))
		}
	}
}

func newPointsCommand(a *app) *cobra.Command {
	var lap int

	cmd := &cobra.Command{
		Use:   "points <path|id>",
		Short: "List an activity's trackpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, err := a.loadActivity(args[0])
			if err != nil {
				return err
			}

			var rows [][]string
			for i, p := range activity.Points() {
				if lap > 0 && p.LapIndex != lap {
					continue
				}
				rows = append(rows, a.pointRow(i, p))
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(pointHeaders, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&lap, "lap", 0, "only show points of this lap (1-based)")
	return cmd
}

var pointHeaders = []string{"#", "Lap", "Time", "Distance", "HR", "Cadence", "Pace", "Elevation", "Lat", "Lon"}

func (a *app) pointRow(i int, p tcx.TrackPoint) []string {
	distance, pace, elevation, lat, lon := "-", "-", "-", "-", "-"
	if p.DistanceMeters != nil {
		distance = a.units.FormatDistance(*p.DistanceMeters)
	}
	if p.SpeedMps != nil {
		pace = a.units.FormatSpeed(*p.SpeedMps)
	}
	if p.ElevationMeters != nil {
		elevation = a.units.FormatElevation(*p.ElevationMeters)
	}
	if p.HasPosition() {
		lat = fmt.Sprintf("%.6f", *p.Latitude)
		lon = fmt.Sprintf("%.6f", *p.Longitude)
	}
	return []string{
		fmt.Sprintf("%d", i),
		fmt.Sprintf("%d", p.LapIndex),
		timeseries.TimeOfDayOf(p.Time).String(),
		distance,
		optInt(p.HeartRateBpm),
		optInt(p.Cadence),
		pace,
		elevation,
		lat,
		lon,
	}
}

func newClosestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "closest <path|id> <HH:MM:SS>",
		Short: "Find the trackpoint recorded closest to a time of day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := timeseries.ParseTimeOfDay(args[1])
			if err != nil {
				return err
			}

			var result *service.ClosestResult
			err = a.withQuery(func(q *service.QueryService) error {
				activity, err := q.Load(args[0])
				if err != nil {
					return err
				}
				result, err = q.ClosestPoint(activity.Points(), query)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Exact {
				fmt.Fprintln(out, successStyle.Render("Exact match at "+query.String()))
			} else {
				fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("Closest sample is %.3fs from %s", result.DifferenceSeconds, query)))
			}
			fmt.Fprint(out, renderTable(pointHeaders, [][]string{a.pointRow(result.Index, result.Point)}))
			return nil
		},
	}
}
