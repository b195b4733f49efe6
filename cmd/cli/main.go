package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	host    string
	timeout time.Duration
	wait    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "birdie-cli",
		Short: "A CLI to interact with the birdie tournament server",
		Long: `A command-line interface for reading standings, the bracket and
statistics from a birdie server, and for submitting score and roster edits.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.host, "host", "http://localhost:9080", "The host address of the server")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	root.PersistentFlags().BoolVar(&opts.wait, "wait", false, "Wait until submitted edits are applied or rejected")

	addReadCommands(root, opts)
	addEditCommands(root, opts)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}
