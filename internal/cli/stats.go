package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tcx-utilities/internal/service"
)

func newStatsCommand(a *app) *cobra.Command {
	var (
		start string
		days  int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Totals over every lap in a range of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := a.rangeStart(start, days)
			if err != nil {
				return err
			}
			to := from.AddDate(0, 0, days-1)

			var stats *service.RangeStats
			err = a.withQuery(func(q *service.QueryService) error {
				stats, err = q.RangeStats(from, to)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s to %s", from.Format(dateLayout), to.Format(dateLayout))))
			if stats.Laps == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No activities"))
				return nil
			}

			t := stats.Totals
			fmt.Fprintln(out, renderMetric("Activities", formatCount(stats.Activities)))
			fmt.Fprintln(out, renderMetric("Laps", formatCount(stats.Laps)))
			fmt.Fprintln(out, renderMetric("Distance", a.units.FormatDistance(t.DistanceMeters)))
			fmt.Fprintln(out, renderMetric("Time", formatDuration(t.TotalTimeSeconds)))
			fmt.Fprintln(out, renderMetric("Pace", a.units.FormatPace(t.TotalTimeSeconds, t.DistanceMeters)))
			fmt.Fprintln(out, renderMetric("Avg heart rate", fmt.Sprintf("%.1f bpm", t.AverageHeartRateBpm)))
			fmt.Fprintln(out, renderMetric("Max heart rate", fmt.Sprintf("%d bpm", t.MaxHeartRateBpm)))
			fmt.Fprintln(out, renderMetric("Calories", formatCount(t.Calories)))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default: the range ends today)")
	cmd.Flags().IntVar(&days, "days", 7, "number of days")
	return cmd
}
