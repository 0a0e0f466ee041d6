package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tcx-utilities/internal/service"
)

func newIndexCommand(a *app) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Parse library files into the database",
		Long: "Parse every library file filed within --start and --end and store its laps and points.\n" +
			"Files that fail to parse are listed by the failures command.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := parseDate("start", start)
			if err != nil {
				return err
			}
			to, err := parseDate("end", end)
			if err != nil {
				return err
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewIndexService(db, a.library(), a.cfg.Import.Workers)

			progress := make(chan service.Progress)
			drawn := drawProgress(cmd.ErrOrStderr(), progress)
			result, err := svc.IndexLibrary(cmd.Context(), from, to, progress)
			close(progress)
			<-drawn
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Index "+a.library().Root()))
			printIndexCounts(out, result)
			for _, err := range result.Errors {
				fmt.Fprintln(out, errorStyle.Render("  "+err.Error()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default: no lower bound)")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD (default: no upper bound)")
	return cmd
}

func printIndexCounts(w io.Writer, r *service.IndexResult) {
	fmt.Fprintln(w, renderMetric("Files", formatCount(r.Files)))
	fmt.Fprintln(w, renderMetric("Indexed", formatCount(r.Indexed)))
	failed := formatCount(r.Failed)
	if r.Failed > 0 {
		failed = warningStyle.Render(failed)
	}
	fmt.Fprintln(w, renderMetric("Failed", failed))
}
