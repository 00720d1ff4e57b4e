// Package sweep runs many independent contention trials, typically a grid of
// node counts and arrival rates. Each trial owns its own Simulator, nodes and
// RNG, so trials run in parallel while every single trial stays sequential.
package sweep

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/netsim-lab/csmacd-sim/sim"
)

// Trial is one point of a sweep.
type Trial struct {
	Index  int // position in the sweep, also the result position
	Config sim.SimConfig
}

// Result is the outcome of one trial. Err is set when the trial could not be
// built or was never started because the context was cancelled.
type Result struct {
	Trial   Trial
	Metrics sim.MetricsOutput
	Err     error
}

// Grid expands nodeCounts × rates × trials into trial configurations derived
// from base. Repetition r of a grid point uses seed base.Seed + r, so the same
// repetition of different grid points shares a seed.
func Grid(base sim.SimConfig, nodeCounts []int, rates []float64, trials int) []Trial {
	if trials < 1 {
		trials = 1
	}
	out := make([]Trial, 0, len(nodeCounts)*len(rates)*trials)
	for _, n := range nodeCounts {
		for _, rate := range rates {
			for r := 0; r < trials; r++ {
				cfg := base
				cfg.Workload = sim.NewWorkloadConfig(n, rate)
				cfg.Seed = base.Seed + int64(r)
				out = append(out, Trial{Index: len(out), Config: cfg})
			}
		}
	}
	return out
}

// Run executes trials on a pool of workers and returns results in trial
// order. Cancelling ctx stops dispatching new trials; trials already running
// finish. The returned error is ctx.Err() if any trial was skipped.
func Run(ctx context.Context, trials []Trial, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(trials))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = RunTrial(trials[i])
			}
		}()
	}

	dispatched := 0
feed:
	for dispatched < len(trials) {
		select {
		case jobs <- dispatched:
			dispatched++
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if dispatched < len(trials) {
		for i := dispatched; i < len(trials); i++ {
			results[i] = Result{Trial: trials[i], Err: ctx.Err()}
		}
		return results, ctx.Err()
	}
	return results, nil
}

// RunTrial builds and runs a single trial on the calling goroutine.
func RunTrial(t Trial) Result {
	s, err := sim.NewSimulator(t.Config)
	if err != nil {
		return Result{Trial: t, Err: fmt.Errorf("trial %d: %w", t.Index, err)}
	}
	s.Run()
	logrus.Debugf("trial %d done: nodes=%d rate=%g seed=%d efficiency=%.4f",
		t.Index, t.Config.Workload.NumNodes, t.Config.Workload.ArrivalRate, t.Config.Seed, s.Metrics.Efficiency())
	return Result{Trial: t, Metrics: s.Metrics.Output()}
}
