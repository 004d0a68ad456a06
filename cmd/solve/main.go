// Command solve loads a constraint problem file and searches for
// solutions using all-different filtering.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/regin/internal/problem"
	"github.com/gitrdm/regin/pkg/fd"
)

var (
	inputPath    string
	maxSolutions int
	timeout      time.Duration
	heuristic    string
	verbose      bool
	showStats    bool
)

var heuristics = map[string]fd.VariableHeuristic{
	"dom":    fd.HeuristicDom,
	"domdeg": fd.HeuristicDomDeg,
	"deg":    fd.HeuristicDeg,
	"lex":    fd.HeuristicLex,
}

func main() {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a finite-domain problem with all-different filtering",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "problem file (JSON or YAML)")
	cmd.Flags().IntVarP(&maxSolutions, "max-solutions", "n", 1, "maximum solutions to find (0 = all)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "search deadline (0 = none)")
	cmd.Flags().StringVar(&heuristic, "heuristic", "domdeg", "variable heuristic: dom, domdeg, deg, lex")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable propagation diagnostics")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print solver statistics")
	_ = cmd.MarkFlagRequired("input")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	h, ok := heuristics[heuristic]
	if !ok {
		return fmt.Errorf("unknown heuristic %q", heuristic)
	}

	p, err := problem.Load(inputPath)
	if err != nil {
		return err
	}
	model, err := p.Build()
	if err != nil {
		return err
	}

	config := fd.DefaultSolverConfig()
	config.VariableHeuristic = h
	config.LogsEnabled = verbose

	solver := fd.NewSolverWithConfig(model, config)
	solver.SetLogger(logger)
	monitor := fd.NewMonitor()
	solver.SetMonitor(monitor)

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	solutions, err := solver.Solve(ctx, maxSolutions)
	if err != nil {
		return err
	}

	if len(solutions) == 0 {
		fmt.Println("infeasible: no solution exists")
	}
	for i, sol := range solutions {
		fmt.Printf("solution %d:\n", i+1)
		for id, value := range sol {
			fmt.Printf("  %s = %d\n", model.GetVariable(id).Name(), value)
		}
	}

	if showStats {
		fmt.Println(monitor.GetStats())
	}
	return nil
}
