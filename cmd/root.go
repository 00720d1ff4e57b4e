package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/netsim-lab/csmacd-sim/sim"
	"github.com/netsim-lab/csmacd-sim/sim/trace"
)

var (
	// Shared by run and sweep
	seed             int64   // Seed for arrival and backoff streams
	horizon          float64 // Arrival generation horizon (seconds)
	logLevel         string  // Log verbosity level
	configPath       string  // Optional YAML scenario
	envFile          string  // Optional KEY=VALUE file supplying flag defaults
	persistence      string  // Carrier-sense behaviour while the bus is busy
	maxRetries       int     // Collisions a frame survives before it is dropped
	backoffCap       int     // Exponent ceiling for the backoff window
	distance         float64 // Metres between adjacent nodes
	propagationSpeed float64 // Signal speed on the medium (m/s)
	transmissionRate float64 // Bus bit rate (bps)
	packetLength     float64 // Frame size (bits)
	slotBits         float64 // Backoff slot size (bits)

	// run only
	numNodes     int     // Stations on the bus
	arrivalRate  float64 // Mean packets per second per node
	traceLevel   string  // Per-round trace capture
	outputFormat string  // Report format
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "csmacd-sim",
	Short: "Contention simulator for persistent CSMA/CD on a shared bus",
}

// runCmd executes one trial using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single contention trial",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if err := runTrial(cmd.OutOrStdout(), cmd.Flags()); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runTrial resolves the configuration, runs it and writes the report to w.
func runTrial(w io.Writer, fs *pflag.FlagSet) error {
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", outputFormat)
	}
	cfg, _, err := resolveConfig(fs)
	if err != nil {
		return err
	}
	logrus.Infof("Trial: nodes=%d rate=%g/s horizon=%gs seed=%d persistence=%s",
		cfg.Workload.NumNodes, cfg.Workload.ArrivalRate, cfg.Horizon, cfg.Seed, cfg.Protocol.Persistence)

	s, err := sim.NewSimulator(cfg)
	if err != nil {
		return err
	}
	s.Run()

	if outputFormat == "json" {
		return s.Metrics.WriteJSON(w)
	}
	s.Metrics.Print(w)
	if s.Trace != nil {
		printTraceSummary(w, trace.Summarize(s.Trace))
	}
	return nil
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "================ TRACE ==================")
	fmt.Fprintf(w, "Rounds                   : %d (%d clean, %d collided)\n", ts.TotalRounds, ts.SuccessRounds, ts.CollisionRounds)
	fmt.Fprintf(w, "Deferral Events          : %d\n", ts.DeferralEvents)
	fmt.Fprintf(w, "Dropped Frames           : %d\n", ts.DroppedFrames)
	fmt.Fprintf(w, "Nodes Seen Colliding     : %d\n", ts.ColliderNodes)
	fmt.Fprintf(w, "Monotonic Clock          : %t\n", ts.MonotonicClock)
}

// registerTrialFlags adds the flags every command that builds a SimConfig
// understands.
func registerTrialFlags(fs *pflag.FlagSet) {
	bus := sim.DefaultBusConfig()
	protocol := sim.DefaultProtocolConfig()

	fs.Int64Var(&seed, "seed", 42, "Seed for arrival and backoff streams")
	fs.Float64Var(&horizon, "horizon", 1000, "Arrival generation horizon in seconds")
	fs.StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	fs.StringVar(&configPath, "config", "", "Path to a YAML scenario; explicitly set flags override it")
	fs.StringVar(&envFile, "env-file", "", "Path to a file of CSMACD_* defaults for flags not set on the command line")

	fs.StringVar(&persistence, "persistence", string(protocol.Persistence), "Carrier-sense mode (persistent, non-persistent)")
	fs.IntVar(&maxRetries, "max-retries", protocol.MaxRetries, "Collisions a frame survives before it is dropped")
	fs.IntVar(&backoffCap, "backoff-cap", protocol.BackoffCap, "Exponent ceiling of the backoff window")

	fs.Float64Var(&distance, "distance", bus.DistanceBetweenNodes, "Metres between adjacent nodes")
	fs.Float64Var(&propagationSpeed, "propagation-speed", bus.PropagationSpeed, "Signal propagation speed in m/s")
	fs.Float64Var(&transmissionRate, "transmission-rate", bus.TransmissionRate, "Bus bit rate in bps")
	fs.Float64Var(&packetLength, "packet-length", bus.PacketLength, "Frame length in bits")
	fs.Float64Var(&slotBits, "slot-bits", bus.SlotBits, "Backoff slot size in bits")
}

func registerRunFlags(fs *pflag.FlagSet) {
	registerTrialFlags(fs)
	fs.IntVar(&numNodes, "nodes", 20, "Number of nodes on the bus")
	fs.Float64Var(&arrivalRate, "rate", 7, "Mean packet arrivals per second per node")
	fs.StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Trace level (none, rounds)")
	fs.StringVar(&outputFormat, "output", "text", "Report format (text, json)")
}

// init sets up CLI flags and subcommands
func init() {
	registerSweepFlags(sweepCmd.Flags())
	registerRunFlags(runCmd.Flags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
