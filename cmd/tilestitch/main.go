// Command tilestitch assembles a directory of tile_<x>_<y>.jpg map tiles into
// a single image.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilestitch/internal/cli"
	"github.com/matzehuels/tilestitch/pkg/errors"
)

// Process exit codes besides the compositor's own status.
const (
	exitFailure     = 1
	exitNotFound    = 127 // shell convention for a missing executable
	exitInterrupted = 130 // shell convention for SIGINT
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		if !stderrors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "tilestitch:", err)
		}
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every tile placement")

	attachLogger := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if attachLogger == nil {
			return nil
		}
		return attachLogger(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps a run error to the process exit code. A failed compositor
// passes its own status through; it only surfaces as an error with
// --check-exit.
func exitCode(err error) int {
	var exit *errors.ExitError
	switch {
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	case stderrors.As(err, &exit) && exit.Status > 0:
		return exit.Status
	case errors.Is(err, errors.ErrCodeCompositorNotFound):
		return exitNotFound
	default:
		return exitFailure
	}
}
