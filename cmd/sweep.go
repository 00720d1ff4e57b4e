package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/netsim-lab/csmacd-sim/sim/sweep"
	"github.com/netsim-lab/csmacd-sim/sim/trace"
)

var (
	sweepNodeCounts []int     // Node counts to sweep
	sweepRates      []float64 // Arrival rates to sweep
	sweepTrials     int       // Seeds per grid point
	sweepWorkers    int       // Concurrent trials
)

// sweepCmd runs a grid of independent trials in parallel
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a grid of trials over node counts and arrival rates",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if err := runSweep(ctx, cmd.OutOrStdout(), cmd.Flags()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// runSweep resolves the base configuration and grid, runs it and writes one
// row per trial to w.
func runSweep(ctx context.Context, w io.Writer, fs *pflag.FlagSet) error {
	base, sc, err := resolveConfig(fs)
	if err != nil {
		return err
	}
	base.TraceLevel = trace.TraceLevelNone

	nodeCounts, rates, trials := sweepNodeCounts, sweepRates, sweepTrials
	if sc != nil && sc.Sweep != nil {
		if !fs.Changed("nodes-list") && len(sc.Sweep.NodeCounts) > 0 {
			nodeCounts = sc.Sweep.NodeCounts
		}
		if !fs.Changed("rates") && len(sc.Sweep.ArrivalRates) > 0 {
			rates = sc.Sweep.ArrivalRates
		}
		if !fs.Changed("trials") && sc.Sweep.Trials > 0 {
			trials = sc.Sweep.Trials
		}
	}
	if len(nodeCounts) == 0 || len(rates) == 0 {
		return fmt.Errorf("sweep needs at least one node count and one arrival rate")
	}

	grid := sweep.Grid(base, nodeCounts, rates, trials)
	logrus.Infof("Sweeping %d trials on %d workers", len(grid), sweepWorkers)
	start := time.Now()
	results, runErr := sweep.Run(ctx, grid, sweepWorkers)
	logrus.Infof("Sweep finished in %s", time.Since(start).Round(time.Millisecond))

	printSweepTable(w, results)
	if runErr != nil {
		return fmt.Errorf("sweep interrupted: %w", runErr)
	}
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func printSweepTable(w io.Writer, results []sweep.Result) {
	fmt.Fprintf(w, "%6s %10s %8s %10s %12s %10s %10s\n",
		"nodes", "rate", "seed", "efficiency", "throughput", "generated", "dropped")
	for _, r := range results {
		cfg := r.Trial.Config
		if r.Err != nil {
			fmt.Fprintf(w, "%6d %10g %8d  error: %v\n", cfg.Workload.NumNodes, cfg.Workload.ArrivalRate, cfg.Seed, r.Err)
			continue
		}
		m := r.Metrics
		fmt.Fprintf(w, "%6d %10g %8d %10.6f %10.6fMb %10d %10d\n",
			cfg.Workload.NumNodes, cfg.Workload.ArrivalRate, cfg.Seed,
			m.Efficiency, m.ThroughputBps/1e6, m.GeneratedPackets, m.DroppedPackets)
	}
}

func registerSweepFlags(fs *pflag.FlagSet) {
	registerTrialFlags(fs)
	fs.IntSliceVar(&sweepNodeCounts, "nodes-list", []int{20, 40, 60, 80, 100}, "Comma-separated node counts")
	fs.Float64SliceVar(&sweepRates, "rates", []float64{7, 10, 20}, "Comma-separated arrival rates (packets/s per node)")
	fs.IntVar(&sweepTrials, "trials", 1, "Seeds per grid point (seed, seed+1, ...)")
	fs.IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "Trials run concurrently")
}
