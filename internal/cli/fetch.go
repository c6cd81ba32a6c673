package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/record"
)

// RecordView is a record as printed by fetch and scan.
type RecordView struct {
	Address ir.Address    `json:"address"`
	Kind    record.Kind   `json:"kind"`
	Record  record.Record `json:"record"`
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <address>",
		Short: "Print the record stored at an address",
		Long: `Print the record stored at an address.

Exit codes:
  0 - Record found
  1 - No record at the address
  2 - Command error

Examples:
  socialgraph fetch <address>
  socialgraph fetch <address> --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(rootOpts, args[0], cmd)
		},
	}
}

func runFetch(opts *RootOptions, arg string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	addr, err := ir.ParseAddress(arg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid address", err)
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := engine.New(st, opts.engineOptions()...).Fetch(ctx, addr)
	switch {
	case engine.IsInstructionError(err):
		if werr := out.Error(string(engine.CodeOf(err)), err.Error(), nil); werr != nil {
			return werr
		}
		return WrapExitError(ExitFailure, "record not found", err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to fetch record", err)
	}

	view := RecordView{Address: addr, Kind: rec.Kind(), Record: rec}
	if out.JSON() {
		return out.Success(view)
	}
	return writeRecordText(out.Writer, view)
}

// writeRecordText prints a record header line and its fields in key order.
func writeRecordText(w io.Writer, v RecordView) error {
	data, err := json.Marshal(v.Record)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "%s %s\n", v.Kind, v.Address)
	for _, k := range keys {
		val := fields[k]
		if val == nil {
			val = "-"
		}
		fmt.Fprintf(w, "  %s: %v\n", k, val)
	}
	return nil
}
