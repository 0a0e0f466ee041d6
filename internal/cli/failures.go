package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tcx-utilities/internal/service"
	"tcx-utilities/internal/store"
)

func newFailuresCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "failures",
		Short: "List library files that could not be indexed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var failures []store.ParseFailure
			err := a.withQuery(func(q *service.QueryService) (err error) {
				failures, err = q.Failures()
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(failures) == 0 {
				fmt.Fprintln(out, successStyle.Render("No failures"))
				return nil
			}

			now := a.now()
			rows := make([][]string, len(failures))
			for i, f := range failures {
				rows[i] = []string{f.Path, f.Kind, formatAgo(f.FailedAt, now), f.Message}
			}
			fmt.Fprint(out, renderTable([]string{"File", "Kind", "When", "Error"}, rows))
			return nil
		},
	}
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show when activities were last imported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var status *service.ImportStatus
			err := a.withQuery(func(q *service.QueryService) (err error) {
				status, err = q.ImportStatus()
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderMetric("Library", a.cfg.Library.Dir))
			fmt.Fprintln(out, renderMetric("Activities", formatCount(status.Activities)))
			fmt.Fprintln(out, renderMetric("Last import", formatAgo(status.LastImportAt, a.now())))
			if status.LastRunID != "" {
				fmt.Fprintln(out, renderMetric("Last run", status.LastRunID))
			}
			return nil
		},
	}
}
