// Command balance finds the root of a program tower and the one weight
// that must change to balance it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skovmand/advent-of-code-2017/internal/config"
	"github.com/skovmand/advent-of-code-2017/internal/logging"
	"github.com/skovmand/advent-of-code-2017/internal/report"
)

// set with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
)

// errFailed marks a run whose failures were already reported on stdout.
var errFailed = errors.New("diagnostic failed")

// options holds the persistent flags shared by every subcommand.
type options struct {
	format      string
	logLevel    string
	timeout     time.Duration
	maxDepth    int
	concurrency int

	formats *report.Registry
	logger  *zap.Logger
}

func (o *options) formatter() (report.Formatter, error) {
	return o.formats.Get(o.format)
}

func newRootCmd() *cobra.Command {
	defaults := config.Default()
	o := &options{formats: report.Default(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "balance",
		Short: "Find the root of a program tower and fix its unbalanced weight",
		Long: `balance reads tower descriptions, one program per line:

  name (weight)
  name (weight) -> child, child, ...

and reports the bottom program together with the single weight change
that balances every disc.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := o.formatter(); err != nil {
				return err
			}
			logger, err := logging.New(config.LogConf{
				Level:    o.logLevel,
				Encoding: "console",
				Output:   "stderr",
			})
			if err != nil {
				return err
			}
			o.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = o.logger.Sync()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&o.format, "format", "f", "text", fmt.Sprintf("Output format %v", o.formats.Names()))
	pf.StringVar(&o.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.DurationVar(&o.timeout, "timeout", time.Duration(defaults.Engine.TimeoutMs)*time.Millisecond, "Per-input diagnostic timeout")
	pf.IntVar(&o.maxDepth, "max-depth", defaults.Diagnostic.MaxDepth, "Deepest tower accepted (-1 = unbounded)")
	pf.IntVar(&o.concurrency, "concurrency", defaults.Diagnostic.Concurrency, "Sibling subtrees aggregated in parallel (<2 = sequential)")

	rootCmd.AddCommand(
		newDiagnoseCmd(o),
		newRootOnlyCmd(o),
		newWeightsCmd(o),
		newWatchCmd(o),
		newVersionCmd(),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "balance:", err)
		}
		os.Exit(1)
	}
}
