package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/socialgraph/internal/address"
	"github.com/roach88/socialgraph/internal/ir"
)

// DeriveResult is the JSON payload of the derive command.
type DeriveResult struct {
	Namespace string      `json:"namespace"`
	Owner     ir.Identity `json:"owner"`
	Target    *ir.Address `json:"target,omitempty"`
	Address   ir.Address  `json:"address"`
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "derive <namespace> <owner> [target]",
		Short: "Compute a derived record address",
		Long: `Compute the address a derived record lives at. Does not read the store.

Namespaces:
  voting      owner's vote on the target tweet (target required)
  user-alias  owner's alias (no target)

Examples:
  socialgraph derive voting <id> <tweet-addr>
  socialgraph derive user-alias <id>`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(rootOpts, args, cmd)
		},
	}
}

func runDerive(opts *RootOptions, args []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	if !slices.Contains(address.Namespaces(), args[0]) {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown namespace %q: must be one of %s",
			args[0], strings.Join(address.Namespaces(), ", ")))
	}

	owner, err := ir.ParseIdentity(args[1])
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid owner", err)
	}

	result := DeriveResult{Namespace: args[0], Owner: owner}
	var targets []ir.Address
	if len(args) == 3 {
		target, err := ir.ParseAddress(args[2])
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid target", err)
		}
		result.Target = &target
		targets = append(targets, target)
	}

	result.Address, err = address.DeriveNamed(args[0], owner, targets...)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot derive address", err)
	}

	if out.JSON() {
		return out.Success(result)
	}
	fmt.Fprintln(out.Writer, result.Address)
	return nil
}
