package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tcx-utilities/internal/service"
	"tcx-utilities/internal/store"
)

// rangeStart reads the --start/--days pair shared by list and stats.
// Without --start the range ends today.
func (a *app) rangeStart(start string, days int) (time.Time, error) {
	if days < 1 {
		return time.Time{}, fmt.Errorf("--days must be at least 1, got %d", days)
	}
	from, err := parseDate("start", start)
	if err != nil {
		return time.Time{}, err
	}
	if from.IsZero() {
		from = a.today().AddDate(0, 0, 1-days)
	}
	return from, nil
}

func newListCommand(a *app) *cobra.Command {
	var (
		start string
		days  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed activities over a range of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := a.rangeStart(start, days)
			if err != nil {
				return err
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			activities, err := service.NewQueryService(db).ListActivities(from, days)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s to %s", from.Format(dateLayout), from.AddDate(0, 0, days-1).Format(dateLayout))))
			if len(activities) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No activities"))
				return nil
			}
			a.printActivities(out, activities)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default: the range ends today)")
	cmd.Flags().IntVar(&days, "days", 7, "number of days to list")
	return cmd
}

func (a *app) printActivities(w io.Writer, activities []store.Activity) {
	rows := make([][]string, len(activities))
	for i, act := range activities {
		start := "-"
		if !act.StartTime.IsZero() {
			start = act.StartTime.Format("15:04")
		}
		rows[i] = []string{
			fmt.Sprintf("%d", act.ID),
			act.StartDate.Format(dateLayout),
			start,
			act.Sport,
			a.units.FormatDistance(act.DistanceMeters),
			formatDuration(act.TotalTimeSeconds),
			a.units.FormatPace(act.TotalTimeSeconds, act.DistanceMeters),
			fmt.Sprintf("%.0f", act.AverageHeartRateBpm),
		}
	}
	fmt.Fprint(w, renderTable(
		[]string{"ID", "Date", "Start", "Sport", "Distance", "Time", "Pace", "Avg HR"},
		rows,
	))
}
