package main

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skovmand/advent-of-code-2017/internal/config"
	"github.com/skovmand/advent-of-code-2017/internal/engine"
	"github.com/skovmand/advent-of-code-2017/internal/puzzle"
	"github.com/skovmand/advent-of-code-2017/internal/report"
	"github.com/skovmand/advent-of-code-2017/internal/tower"
)

func newDiagnoseCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose [file|-]...",
		Short: "Find the root and the corrected weight of the one unbalanced program",
		Long: `Diagnose each tower description and print the program whose weight must
change, together with the weight that balances the tower.

With no file, or "-", the description is read from stdin. Several files are
diagnosed in parallel; the command exits non-zero if any of them fails.`,
		Example: `  balance diagnose input.txt
  balance diagnose -f json day07/*.txt
  cat input.txt | balance diagnose --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd, o, args)
		},
	}
}

func runDiagnose(cmd *cobra.Command, o *options, paths []string) error {
	f, err := o.formatter()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	ins := make([]*puzzle.Input, 0, len(paths))
	for _, p := range paths {
		in, err := readInput(cmd, p)
		if err != nil {
			return err
		}
		ins = append(ins, in)
	}

	eng := engine.New(cmd.Context(), engineConf(o, len(ins)), diagnosticConf(o), o.logger)
	defer eng.Shutdown()

	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range eng.ProcessBatch(cmd.Context(), ins) {
		if len(ins) > 1 && f.Name() == "text" {
			fmt.Fprintf(out, "== %s ==\n", res.Source)
		}
		if res.Err != nil {
			failed++
			if err := f.Failure(out, report.Failure{Source: res.Source, Kind: res.Outcome, Error: res.Error}); err != nil {
				return err
			}
			continue
		}
		if err := f.Correction(out, res.Correction); err != nil {
			return err
		}
	}

	if failed > 0 {
		o.logger.Debug("diagnose finished with failures", zap.Int("failed", failed), zap.Int("total", len(ins)))
		return errFailed
	}
	return nil
}

func newRootOnlyCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "root [file|-]",
		Short: "Print only the bottom program of the tower",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.formatter()
			if err != nil {
				return err
			}
			in, err := readInput(cmd, argOrStdin(args))
			if err != nil {
				return err
			}
			t, err := tower.Load(in.Text)
			if err != nil {
				return fail(cmd.OutOrStdout(), f, in.Source, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Root())
			return nil
		},
	}
}

func newWeightsCmd(o *options) *cobra.Command {
	var node string
	cmd := &cobra.Command{
		Use:   "weights [file|-]",
		Short: "List the own and total weight of every program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.formatter()
			if err != nil {
				return err
			}
			in, err := readInput(cmd, argOrStdin(args))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			t, err := tower.Load(in.Text)
			if err != nil {
				return fail(out, f, in.Source, err)
			}
			agg := tower.NewAggregator(t, tower.WithMaxDepth(o.maxDepth))

			var nodes []tower.NodeWeight
			if node != "" {
				total, err := agg.TotalWeight(node)
				if err != nil {
					return fail(out, f, in.Source, err)
				}
				nodes = []tower.NodeWeight{{Name: node, Weight: t.Node(node).Weight, TotalWeight: total}}
			} else if nodes, err = agg.All(cmd.Context()); err != nil {
				return fail(out, f, in.Source, err)
			}
			return f.Weights(out, report.Weights{Root: t.Root(), Nodes: nodes})
		},
	}
	cmd.Flags().StringVar(&node, "node", "", "Only report this program")
	return cmd
}

func readInput(cmd *cobra.Command, path string) (*puzzle.Input, error) {
	if path == "-" {
		return puzzle.FromReader("stdin", cmd.InOrStdin())
	}
	return puzzle.Load(path)
}

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func fail(w io.Writer, f report.Formatter, source string, err error) error {
	if werr := f.Failure(w, report.Failure{Source: source, Kind: tower.ErrorKind(err), Error: err.Error()}); werr != nil {
		return werr
	}
	return errFailed
}

func engineConf(o *options, inputs int) config.EngineConf {
	timeout := o.timeout
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return config.EngineConf{
		Workers:    min(inputs, runtime.NumCPU()),
		QueueDepth: inputs,
		TimeoutMs:  int(timeout / time.Millisecond),
	}
}

func diagnosticConf(o *options) config.DiagnosticConf {
	return config.DiagnosticConf{MaxDepth: o.maxDepth, Concurrency: o.concurrency}
}
