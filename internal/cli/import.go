package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tcx-utilities/internal/service"
	"tcx-utilities/internal/source"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		start, end string
		sourceDir  string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy activities from the export folder into the library and index them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := parseDate("start", start)
			if err != nil {
				return err
			}
			to, err := parseDate("end", end)
			if err != nil {
				return err
			}

			dir := a.cfg.Import.SourceDir
			if sourceDir != "" {
				dir = sourceDir
			}
			if dir == "" {
				return errors.New("no source folder: set import.source_dir or pass --source")
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			src := source.Throttle(source.NewDirSource(dir), a.cfg.Import.RequestsPerSecond, a.cfg.Import.Burst)
			lib := a.library()
			svc := service.NewImportService(src, lib, db,
				service.NewIndexService(db, lib, a.cfg.Import.Workers),
				service.ImportOptions{
					Overwrite:    overwrite || a.cfg.Import.Overwrite,
					LookbackDays: a.cfg.Import.LookbackDays,
				})

			progress := make(chan service.Progress)
			drawn := drawProgress(cmd.ErrOrStderr(), progress)
			result, err := svc.Import(cmd.Context(), from, to, progress)
			<-drawn
			if err != nil {
				return err
			}

			printImportResult(cmd.OutOrStdout(), result)
			if err := result.Err(); err != nil {
				logrus.WithError(err).Debug("import finished with errors")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day to import, YYYY-MM-DD (default: lookback_days before --end)")
	cmd.Flags().StringVar(&end, "end", "", "last day to import, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&sourceDir, "source", "", "export folder, overrides import.source_dir")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace files already in the library")
	return cmd
}

func printImportResult(w io.Writer, r *service.ImportResult) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Import %s to %s", r.Start.Format(dateLayout), r.End.Format(dateLayout))))
	fmt.Fprintln(w, renderMetric("Listed", formatCount(r.Listed)))
	fmt.Fprintln(w, renderMetric("Downloaded", formatCount(r.Downloaded)))
	fmt.Fprintln(w, renderMetric("Already present", formatCount(r.Skipped)))
	if r.Index != nil {
		printIndexCounts(w, r.Index)
	}
	for _, err := range r.Errors {
		fmt.Fprintln(w, errorStyle.Render("  "+err.Error()))
	}
}
