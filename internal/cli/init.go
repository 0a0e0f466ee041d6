package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tcx-utilities/internal/config"
)

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Write an example config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"config": "none"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configPath()
			if err != nil {
				return err
			}

			written, err := config.CreateExample(path)
			if err != nil {
				return fmt.Errorf("creating example config: %w", err)
			}

			out := cmd.OutOrStdout()
			if !written {
				fmt.Fprintf(out, "Config already exists at %s\n", path)
				return nil
			}
			fmt.Fprintln(out, successStyle.Render("Created "+path))
			fmt.Fprintln(out, "Set import.source_dir to the folder holding activities.json and the exported .tcx files.")
			return nil
		},
	}
}
