// Package cli implements the tcxutil command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tcx-utilities/internal/config"
	"tcx-utilities/internal/library"
	"tcx-utilities/internal/logging"
	"tcx-utilities/internal/store"
)

const dateLayout = "2006-01-02"

// app carries what the commands share once the config is loaded
type app struct {
	cfgPath  string
	logLevel string

	cfg       *config.Config
	units     Units
	logCloser io.Closer
	now       func() time.Time
}

// Execute runs the root command against os.Args. An interrupt cancels the
// running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{now: time.Now})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tcxutil",
		Short:         "Import, index and inspect TCX activity files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["config"] == "none" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logCloser != nil {
				a.logCloser.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default ~/.tcxutil/config.json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newInitCommand(a),
		newImportCommand(a),
		newIndexCommand(a),
		newListCommand(a),
		newShowCommand(a),
		newPointsCommand(a),
		newClosestCommand(a),
		newStatsCommand(a),
		newFailuresCommand(a),
		newStatusCommand(a),
	)

	return root
}

func (a *app) configPath() (string, error) {
	if a.cfgPath != "" {
		return a.cfgPath, nil
	}
	return config.Path()
}

func (a *app) setup(cmd *cobra.Command) error {
	path, err := a.configPath()
	if err != nil {
		return err
	}

	cfg, err := config.LoadFrom(path)
	if errors.Is(err, config.ErrNoConfig) {
		return fmt.Errorf("no config file at %s, run \"tcxutil init\" to create one", path)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	a.cfg = cfg
	a.units = NewUnits(cfg.Display)
	a.logCloser = logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToConsole:  cfg.Log.ToConsole,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
		Console:       cmd.ErrOrStderr(),
	})
	logrus.WithField("config", path).Debug("config loaded")
	return nil
}

func (a *app) openStore() (*store.DB, error) {
	db, err := store.Open(a.cfg.Library.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func (a *app) library() *library.Library {
	return library.New(a.cfg.Library.Dir)
}

// parseDate reads a YYYY-MM-DD flag value; empty gives the zero time
func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", flag, value)
	}
	return t, nil
}

// today is the current local calendar date as a UTC midnight, the form
// the library and store use for dates
func (a *app) today() time.Time {
	y, m, d := a.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
