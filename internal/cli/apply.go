package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/ir"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	As      string
	Address string
	Args    string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <op>",
		Short: "Apply one instruction to the store",
		Long: `Apply one instruction as the given caller and journal its outcome.

Ops: create_tweet, update_tweet, delete_tweet, create_comment,
update_comment, delete_comment, vote, update_voting, delete_voting,
send_direct_message, create_alias, update_alias, delete_alias.

Keys are base58. vote and create_alias derive their address and ignore
--address. A rejected instruction is still journaled.

Exit codes:
  0 - Instruction applied
  1 - Instruction rejected (Unauthorized, NotFound, ...)
  2 - Command error (bad flags, database unreadable, etc.)

Examples:
  socialgraph apply create_tweet --as <id> --address <addr> --args '{"tag":"veganism","content":"gm"}'
  socialgraph apply vote --as <id> --args '{"tweet":"<addr>","result":"like"}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "caller identity (required)")
	_ = cmd.MarkFlagRequired("as")
	cmd.Flags().StringVar(&opts.Address, "address", "", "target address")
	cmd.Flags().StringVar(&opts.Args, "args", "{}", "instruction arguments as JSON")

	return cmd
}

// ParseInstruction builds an instruction from CLI arguments. Unknown
// argument fields are rejected.
func ParseInstruction(op, as, addr, args string) (ir.Instruction, error) {
	var ins ir.Instruction

	parsedOp, err := ir.ParseOp(op)
	if err != nil {
		return ins, err
	}
	ins.Op = parsedOp

	if ins.Caller, err = ir.ParseIdentity(as); err != nil {
		return ins, fmt.Errorf("--as: %w", err)
	}
	if addr != "" {
		if ins.Address, err = ir.ParseAddress(addr); err != nil {
			return ins, fmt.Errorf("--address: %w", err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(args)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ins.Args); err != nil {
		return ins, fmt.Errorf("invalid --args JSON: %w", err)
	}
	return ins, nil
}

func runApply(opts *ApplyOptions, op string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	ins, err := ParseInstruction(op, opts.As, opts.Address, opts.Args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid instruction", err)
	}

	e, st, err := opts.openEngine(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	receipt, err := e.Apply(ctx, ins)
	switch {
	case engine.IsInstructionError(err):
		if out.JSON() {
			if werr := out.Respond(CLIResponse{
				Status:  "error",
				Data:    receipt,
				Error:   &CLIError{Code: string(engine.CodeOf(err)), Message: err.Error()},
				TraceID: receipt.ID,
			}); werr != nil {
				return werr
			}
		} else {
			fmt.Fprintf(out.Writer, "✗ seq %d %s rejected: %s\n", receipt.Seq, receipt.Op, err)
		}
		return WrapExitError(ExitFailure, "instruction rejected", err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to apply instruction", err)
	}

	if out.JSON() {
		return out.Respond(CLIResponse{Status: "ok", Data: receipt, TraceID: receipt.ID})
	}
	fmt.Fprintf(out.Writer, "✓ seq %d %s %s %s\n", receipt.Seq, receipt.Op, receipt.Effect, receipt.Address)
	if receipt.Routed {
		fmt.Fprintln(out.Writer, "  routed to existing voting record")
	}
	out.VerboseLog("instruction id %s", receipt.ID)
	return nil
}
