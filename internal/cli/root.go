package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/socialgraph/internal/config"
	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/metrics"
	"github.com/roach88/socialgraph/internal/store"
)

// RootOptions holds global flags for all commands, plus the state built
// from them before a subcommand runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string
	MetricsOut string

	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the socialgraph CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "socialgraph",
		Short: "socialgraph - owner-guarded social records",
		Long: `Apply tweet, comment, voting, direct message and alias instructions
to a local record store, query records by byte offset, and replay the
instruction journal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.flushMetrics()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to CUE config file (default $"+config.EnvConfigPath+" or ./"+config.DefaultPath+")")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.MetricsOut, "metrics-out", "", "write Prometheus metrics to this textfile on exit")

	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewFetchCommand(opts))
	cmd.AddCommand(NewScanCommand(opts))
	cmd.AddCommand(NewDeriveCommand(opts))
	cmd.AddCommand(NewKeygenCommand(opts))
	cmd.AddCommand(NewJournalCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// prepare validates global flags, loads the configuration and builds the
// logger and metrics. Flags override config values.
func (o *RootOptions) prepare(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Database == "" {
		o.Database = cfg.Database.Path
	}
	if o.MetricsOut == "" {
		o.MetricsOut = cfg.Metrics.Textfile
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}

	o.config = cfg
	o.logger = cfg.Log.NewLogger(cmd.ErrOrStderr())
	o.metrics = metrics.New()
	o.logger.Debug("config loaded", "db", o.Database, "format", o.Format)
	return nil
}

func (o *RootOptions) flushMetrics() error {
	if o.MetricsOut == "" {
		return nil
	}
	if err := o.metrics.WriteTextfile(o.MetricsOut); err != nil {
		return WrapExitError(ExitCommandError, "failed to write metrics", err)
	}
	return nil
}

func (o *RootOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) openStore() (*store.Store, error) {
	if o.Database == "" {
		return nil, NewExitError(ExitCommandError, "no database: set --db, database.path or $SOCIALGRAPH_DB")
	}
	st, err := store.Open(o.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func (o *RootOptions) engineOptions() []engine.Option {
	return []engine.Option{engine.WithLogger(o.log()), engine.WithMetrics(o.metrics)}
}

// openEngine opens the store and resumes an engine over it.
func (o *RootOptions) openEngine(ctx context.Context) (*engine.Engine, *store.Store, error) {
	st, err := o.openStore()
	if err != nil {
		return nil, nil, err
	}
	e, err := engine.Resume(ctx, st, o.engineOptions()...)
	if err != nil {
		st.Close()
		return nil, nil, WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	return e, st, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
