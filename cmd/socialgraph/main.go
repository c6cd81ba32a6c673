// Command socialgraph applies instructions to a local social record store,
// queries it, and replays its journal.
//
// Usage:
//
//	socialgraph keygen
//	socialgraph apply create_tweet --as <id> --address <addr> --args '{"content":"gm"}'
//	socialgraph scan tweet --owner <id>
//	socialgraph replay
//
// The database path comes from --db, $SOCIALGRAPH_DB or socialgraph.cue.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/socialgraph/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "socialgraph:", err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
