// Command maproute checks, inspects and serves route tables of the map
// site router.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	clierrors "github.com/vango-dev/maproute/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if a.jsonOut {
			clierrors.PrintJSON(stderr, err)
		} else {
			clierrors.Print(stderr, err)
		}
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "maproute",
		Short: "Route tables for the map site router",
		Long: `maproute loads a route table and works with it the way the
browser router does.

  check     validate settings and compile every route
  routes    list templates in matching order
  match     resolve locations to routes, params and query
  href      build a canonical href from typed values
  serve     run the HTTP and WebSocket inspector

The table is read from --config, $MAPROUTE_CONFIG, or the embedded
default. Local files may be YAML or JSON; s3://bucket/key is fetched
from S3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "route table file or s3:// URL (default $"+envConfig+" or embedded)")
	flags.StringVar(&a.envFile, "env-file", ".env", "environment file loaded before the configuration")
	flags.StringVar(&a.logLevel, "log-level", "", "override log.level")
	flags.BoolVar(&a.jsonOut, "json", false, "write results and errors as JSON")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		checkCmd(a),
		routesCmd(a),
		matchCmd(a),
		hrefCmd(a),
		serveCmd(a),
		versionCmd(a),
	)
	return root
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	mark := "\033[32m✓\033[0m"
	if a.noColor {
		mark = "✓"
	}
	fmt.Fprintf(a.stdout, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// info prints an indented line.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.stdout, "  %s\n", fmt.Sprintf(format, args...))
}
