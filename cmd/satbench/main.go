// Command satbench runs the engine over every .cnf file in a directory, in
// one or both of RL and baseline mode, under a per-instance timeout, and
// writes a results CSV comparing them.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/hartert-lab/satbandit/internal/benchmark"
	"github.com/hartert-lab/satbandit/internal/engine"
)

var (
	flagCNFDir            string
	flagOutput            string
	flagTimeoutSec        int
	flagEpoch             int64
	flagRestart           int64
	flagBaselineHeuristic string
	flagModes             []string

	rootCmd = &cobra.Command{
		Use:   "satbench",
		Short: "Benchmark the RL and baseline solvers over a directory of CNF instances",
		RunE:  runBenchmark,
	}
)

func init() {
	rootCmd.Flags().StringVar(&flagCNFDir, "cnf-dir", "", "directory containing .cnf files")
	rootCmd.Flags().StringVar(&flagOutput, "output", "benchmark_results.csv", "output CSV file")
	rootCmd.Flags().IntVar(&flagTimeoutSec, "timeout", 300, "timeout per instance, in seconds")
	rootCmd.Flags().Int64Var(&flagEpoch, "epoch", 50, "conflicts per bandit epoch")
	rootCmd.Flags().Int64Var(&flagRestart, "restart", 200, "conflicts per restart")
	rootCmd.Flags().StringVar(&flagBaselineHeuristic, "baseline-heuristic", "vsids", "heuristic used for the baseline mode: vsids, jw, dlis or random")
	rootCmd.Flags().StringSliceVar(&flagModes, "modes", []string{"rl", "baseline"}, "modes to run: rl, baseline")

	rootCmd.MarkFlagRequired("cnf-dir")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	instances, err := benchmark.Instances(flagCNFDir)
	if err != nil {
		return fmt.Errorf("could not list %q: %w", flagCNFDir, err)
	}
	if len(instances) == 0 {
		return fmt.Errorf("no .cnf files found in %q", flagCNFDir)
	}

	modes := make([]engine.Mode, len(flagModes))
	for i, m := range flagModes {
		modes[i] = engine.Mode(m)
	}

	cfg := benchmark.Config{
		CNFDir:            flagCNFDir,
		Timeout:           time.Duration(flagTimeoutSec) * time.Second,
		EpochSize:         flagEpoch,
		RestartInterval:   flagRestart,
		BaselineHeuristic: flagBaselineHeuristic,
		Modes:             modes,
	}

	fmt.Printf("Found %d CNF files\n", len(instances))
	fmt.Printf("Timeout: %ds, Epoch: %d, Restart: %d\n", flagTimeoutSec, flagEpoch, flagRestart)
	fmt.Printf("Modes: %v, Baseline heuristic: %s\n", flagModes, flagBaselineHeuristic)
	fmt.Printf("Output: %s\n\n", flagOutput)

	var results []benchmark.InstanceResult
	total := len(instances) * len(modes)
	current := 0
	for _, path := range instances {
		for _, mode := range modes {
			current++
			fmt.Printf("[%d/%d] Running %s (%s)... ", current, total, path, mode)
			res := benchmark.RunInstance(path, mode, cfg)
			results = append(results, res)
			fmt.Printf("%s in %.2fs (conflicts=%d)\n", res.Status, res.Seconds, res.Conflicts)
		}
	}

	if err := benchmark.WriteResults(flagOutput, results); err != nil {
		return fmt.Errorf("could not write results: %w", err)
	}
	fmt.Printf("\nResults written to %s\n", flagOutput)

	fmt.Println("\n=== Summary ===")
	for _, mode := range modes {
		solved, total, totalTime := 0, 0, 0.0
		for _, r := range results {
			if r.Mode != string(mode) {
				continue
			}
			total++
			if r.Status == "SAT" || r.Status == "UNSAT" {
				solved++
				totalTime += r.Seconds
			}
		}
		avg := 0.0
		if solved > 0 {
			avg = totalTime / float64(solved)
		}
		fmt.Printf("%s: %d/%d solved, avg time: %.2fs\n", mode, solved, total, avg)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
