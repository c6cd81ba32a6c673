package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Into string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay the journal and verify the store is reproduced",
		Long: `Reapply every journaled instruction onto a fresh store and verify that
outcomes, instruction IDs and the final records match the source byte for
byte.

By default the replay runs in memory. --into keeps the rebuilt store; the
target must not already hold a journal.

Exit codes:
  0 - Replay reproduced the store
  1 - Divergence detected
  2 - Command error (database not found, target not empty, etc.)

Examples:
  socialgraph replay --db ./socialgraph.db
  socialgraph replay --db ./socialgraph.db --into ./rebuilt.db
  socialgraph replay --db ./socialgraph.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Into, "into", ":memory:", "path of the store to rebuild into")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	src, err := opts.openStore()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := store.Open(opts.Into)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open replay target", err)
	}
	defer dst.Close()

	report, err := engine.Replay(ctx, src, dst, opts.engineOptions()...)
	if err != nil {
		return WrapExitError(ExitCommandError, "replay failed", err)
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, report)
	}
	return outputReplayText(cmd, report, opts.Verbose)
}

// outputReplayJSON outputs the replay report as JSON.
func outputReplayJSON(cmd *cobra.Command, report engine.ReplayReport) error {
	response := CLIResponse{
		Status: "ok",
		Data:   report,
	}

	if !report.OK() {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_REPLAY_DIVERGED",
			Message: fmt.Sprintf("replay diverged in %d place(s)", len(report.Mismatches)),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !report.OK() {
		return NewExitError(ExitFailure, "replay diverged")
	}
	return nil
}

// outputReplayText outputs the replay report as text.
func outputReplayText(cmd *cobra.Command, report engine.ReplayReport, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d journal entries, %d record(s)\n", report.Entries, report.Records)

	for _, m := range report.Mismatches {
		switch {
		case m.Seq != 0:
			fmt.Fprintf(w, "✗ seq %d: %s\n", m.Seq, m.Reason)
		default:
			fmt.Fprintf(w, "✗ %s: %s\n", m.Address, m.Reason)
		}
		if verbose && m.Seq != 0 && !m.Address.IsZero() {
			fmt.Fprintf(w, "  Address: %s\n", m.Address)
		}
	}

	if report.OK() {
		fmt.Fprintln(w, "✓ Journal replay reproduced the store")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay diverged")
	return NewExitError(ExitFailure, "replay diverged")
}
