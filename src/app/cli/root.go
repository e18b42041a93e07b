// Package cli wires the command-line entry points: serve (the default) and
// migrate.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"fastai/src/infra/config"
)

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// loadConfig is swapped in tests.
var loadConfig = config.Load

// NewRootCommand builds the fastai command tree. Running it without a
// subcommand serves the API.
func NewRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "fastai",
		Short:         "Item and user API backed by PostgreSQL",
		Version:       fmt.Sprintf("%s %s/%s", version(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newMigrateCommand())
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "fatal error: %v\n", err)
		return 1
	}
	return 0
}

// Main is the process entry point.
func Main() {
	os.Exit(Execute(context.Background(), os.Args[1:], os.Stderr))
}
