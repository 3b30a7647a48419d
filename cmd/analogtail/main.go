package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toparvion/analogtail/internal/app"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "analogtail: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "analogtail",
		Short:         "Terminal viewer for AnaLog log streams",
		Long:          "analogtail follows logs served by an AnaLog server over STOMP/WebSocket and shows them in a terminal console.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/analogtail/config.toml)")
	flags.StringVar(&opts.Server, "server", "", "AnaLog server address, overrides the config")
	flags.IntVar(&opts.PeriodMs, "period", 0, "render period in milliseconds, overrides the config")
	root.Flags().StringVar(&opts.Path, "path", "", "log to open (path, node://host/path or composite uid)")
	root.Flags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/analogtail/prefs.toml)")

	root.AddCommand(newChoicesCmd(&opts))
	root.AddCommand(newTailCmd(&opts))
	root.AddCommand(newVersionCmd())
	return root
}

func newChoicesCmd(opts *app.Options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "choices",
		Short: "List the logs the server offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Choices(cmd.Context(), *opts, cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", app.FormatTable, "output format: table, yaml or json")
	return cmd
}

func newTailCmd(opts *app.Options) *cobra.Command {
	var (
		noTail  bool
		sources bool
	)
	cmd := &cobra.Command{
		Use:   "tail [path]",
		Short: "Stream a log to stdout without the console",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tailOpts := app.TailOptions{
				Options:     *opts,
				NoTail:      noTail,
				ShowSources: sources,
				Out:         cmd.OutOrStdout(),
				Err:         cmd.ErrOrStderr(),
			}
			if len(args) == 1 {
				tailOpts.Path = args[0]
			}
			return app.Tail(cmd.Context(), tailOpts)
		},
	}
	cmd.Flags().BoolVar(&noTail, "no-tail", false, "only print records written from now on")
	cmd.Flags().BoolVar(&sources, "sources", true, "prefix composite records with their node and file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "analogtail %s (%s)\n", version, commit)
}
