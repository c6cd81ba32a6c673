package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/socialgraph/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	After int64
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List journaled instructions in seq order",
		Long: `List every journaled instruction with its outcome, rejected ones included.

Examples:
  socialgraph journal --db ./socialgraph.db
  socialgraph journal --after 100 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.After, "after", 0, "only entries with seq greater than this")

	return cmd
}

func runJournal(opts *JournalOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.Journal(cmd.Context(), opts.After)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	if entries == nil {
		entries = []store.JournalEntry{}
	}

	if out.JSON() {
		return out.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out.Writer, "Journal is empty.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out.Writer, "%6d  %-20s %-18s %s  caller=%s\n", e.Seq, e.Op, e.Outcome, e.Address, e.Caller)
		out.VerboseLog("        id=%s engine=%s layout=%s", e.ID, e.EngineVersion, e.LayoutVersion)
	}
	return nil
}
