// Command satbandit solves a single DIMACS CNF instance, either with a
// fixed branching heuristic or with the bandit cycling between all four
// every epoch, and prints a short solver report in the same "c key: value"
// style DIMACS solvers traditionally use for their stats.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hartert-lab/satbandit/internal/dimacs"
	"github.com/hartert-lab/satbandit/internal/engine"
	"github.com/hartert-lab/satbandit/internal/metrics"
	"github.com/hartert-lab/satbandit/internal/sat"
)

var (
	flagMode      string
	flagHeuristic string
	flagCNF       string
	flagEpoch     int64
	flagRestart   int64
	flagAlpha     float64
	flagGzip      bool
	flagLog       string
	flagTimeout   time.Duration

	rootCmd = &cobra.Command{
		Use:   "satbandit",
		Short: "Solve a DIMACS CNF instance with a CDCL solver driven by a heuristic bandit",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
)

func init() {
	rootCmd.Flags().StringVar(&flagMode, "mode", "rl", `branching mode: "rl" (bandit-driven) or "baseline" (fixed heuristic)`)
	rootCmd.Flags().StringVar(&flagHeuristic, "heuristic", "vsids", "heuristic used in baseline mode: vsids, jw, dlis or random")
	rootCmd.Flags().StringVar(&flagCNF, "cnf", "", "DIMACS CNF file to solve; if omitted, a built-in 3-variable example is used")
	rootCmd.Flags().Int64Var(&flagEpoch, "epoch", 50, "conflicts per bandit epoch")
	rootCmd.Flags().Int64Var(&flagRestart, "restart", 200, "conflicts per restart (0 disables restarts)")
	rootCmd.Flags().Float64Var(&flagAlpha, "alpha", 0.3, "LinUCB exploration coefficient")
	rootCmd.Flags().BoolVar(&flagGzip, "gzip", false, "treat the instance file as gzip-compressed")
	rootCmd.Flags().StringVar(&flagLog, "log", "", "path to write a per-epoch CSV log (disabled if empty)")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "solve timeout (0 disables the timeout)")
}

// builtinExample is the 3-variable, 2-clause instance used when --cnf is
// omitted: (x1 v -x2) ^ (-x1 v x2 v x3), satisfiable.
const builtinExample = "c built-in example\np cnf 3 2\n1 -2 0\n-1 2 3 0\n"

func loadInstance() (*sat.Solver, error) {
	if flagCNF == "" {
		return dimacs.LoadReader(strings.NewReader(builtinExample))
	}
	return dimacs.Load(flagCNF, flagGzip)
}

func runSolve(cmd *cobra.Command, args []string) error {
	s, err := loadInstance()
	if err != nil {
		return fmt.Errorf("could not load instance: %w", err)
	}

	fmt.Printf("c variables:  %d\n", s.NumVars())
	fmt.Printf("c clauses:    %d\n", s.NumOriginalClauses())

	var logger *metrics.EpochLogger
	if flagLog != "" {
		logger, err = metrics.NewEpochLogger(flagLog, 11)
		if err != nil {
			return fmt.Errorf("could not open epoch log: %w", err)
		}
	}

	eng, err := engine.New(s, engine.Config{
		Mode:              engine.Mode(flagMode),
		BaselineHeuristic: flagHeuristic,
		EpochSize:         flagEpoch,
		RestartInterval:   flagRestart,
		Alpha:             flagAlpha,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if flagTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, flagTimeout)
		defer cancel()
	}

	t0 := time.Now()
	result := eng.Solve(ctx)
	elapsed := time.Since(t0)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d\n", result.Conflicts)
	fmt.Printf("c decisions:  %d\n", result.Decisions)
	fmt.Printf("c propagations: %d\n", result.Propagations)
	fmt.Printf("c restarts:   %d\n", result.Restarts)
	fmt.Printf("c status:     %s\n", result.Status)

	if result.Status == engine.Sat {
		fmt.Print("v ")
		for v := 1; v < len(result.Model); v++ {
			if result.Model[v] {
				fmt.Printf("%d ", v)
			} else {
				fmt.Printf("%d ", -v)
			}
		}
		fmt.Println("0")
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
