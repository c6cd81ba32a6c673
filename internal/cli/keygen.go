package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/socialgraph/internal/address"
)

// KeygenOptions holds flags for the keygen command.
type KeygenOptions struct {
	*RootOptions
	Address bool
	Count   int
}

// NewKeygenCommand creates the keygen command.
func NewKeygenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeygenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate fresh identities or record addresses",
		Long: `Generate random 32-byte keys, printed in base58.

Identities are for --as and owner filters; addresses (--address) are
targets for create_tweet, create_comment and send_direct_message.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Address, "address", false, "generate record addresses instead of identities")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of keys")

	return cmd
}

func runKeygen(opts *KeygenOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	if opts.Count < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--count must be positive, got %d", opts.Count))
	}

	keys := make([]string, 0, opts.Count)
	for range opts.Count {
		if opts.Address {
			a, err := address.New()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to generate address", err)
			}
			keys = append(keys, a.String())
			continue
		}
		id, err := address.NewIdentity()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to generate identity", err)
		}
		keys = append(keys, id.String())
	}

	if out.JSON() {
		return out.Success(map[string]any{"keys": keys})
	}
	for _, k := range keys {
		fmt.Fprintln(out.Writer, k)
	}
	return nil
}
