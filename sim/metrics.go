// Tracks simulation-wide contention counters and derived ratios such as
// efficiency and throughput.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Every field belongs to one Simulator; nothing here is process-global.
type Metrics struct {
	ArrivalRate float64 // configured mean packets per second per node
	NumNodes    int

	GeneratedPackets        int // sum over nodes, fixed at construction
	DroppedPackets          int // sum over nodes, read after the run
	TransmittedPackets      int // attempt counter: +1 per round, +1 per colliding receiver
	SuccessfulTransmissions int

	CollisionRounds  int     // rounds that ended without delivery
	Deferrals        int     // receiver-side busy-carrier events
	TotalAccessDelay float64 // sum over delivered frames of (last bit sent - arrival), seconds

	PacketLength float64 // bits, copied from the bus
	Horizon      float64 // seconds, the throughput denominator
	SimEndedTime float64 // clock of the final round
	Rounds       int
}

// NewMetrics creates an empty Metrics for the given workload and bus.
func NewMetrics(workload WorkloadConfig, bus BusConfig, horizon float64) *Metrics {
	return &Metrics{
		ArrivalRate:  workload.ArrivalRate,
		NumNodes:     workload.NumNodes,
		PacketLength: bus.PacketLength,
		Horizon:      horizon,
	}
}

// Efficiency is successful transmissions over attempts, 0 when nothing was sent.
func (m *Metrics) Efficiency() float64 {
	if m.TransmittedPackets == 0 {
		return 0
	}
	return float64(m.SuccessfulTransmissions) / float64(m.TransmittedPackets)
}

// Throughput is delivered bits per second of horizon, in the same unit as
// the configured transmission rate.
func (m *Metrics) Throughput() float64 {
	if m.Horizon <= 0 {
		return 0
	}
	return float64(m.SuccessfulTransmissions) * m.PacketLength / m.Horizon
}

// MeanAccessDelay is the average time from arrival to the last bit leaving
// the sender, over delivered frames.
func (m *Metrics) MeanAccessDelay() float64 {
	if m.SuccessfulTransmissions == 0 {
		return 0
	}
	return m.TotalAccessDelay / float64(m.SuccessfulTransmissions)
}

// MetricsOutput is the machine-readable form of a finished run.
type MetricsOutput struct {
	ArrivalRate             float64 `json:"arrival_rate"`
	NumNodes                int     `json:"num_nodes"`
	SuccessfulTransmissions int     `json:"successful_transmissions"`
	DroppedPackets          int     `json:"dropped_packets"`
	GeneratedPackets        int     `json:"generated_packets"`
	TransmittedPackets      int     `json:"transmitted_packets"`
	CollisionRounds         int     `json:"collision_rounds"`
	Deferrals               int     `json:"deferrals"`
	Rounds                  int     `json:"rounds"`
	Efficiency              float64 `json:"efficiency"`
	ThroughputBps           float64 `json:"throughput_bps"`
	MeanAccessDelayS        float64 `json:"mean_access_delay_s"`
	SimEndedTimeS           float64 `json:"sim_ended_time_s"`
}

// Output converts the metrics to their JSON-friendly form.
func (m *Metrics) Output() MetricsOutput {
	return MetricsOutput{
		ArrivalRate:             m.ArrivalRate,
		NumNodes:                m.NumNodes,
		SuccessfulTransmissions: m.SuccessfulTransmissions,
		DroppedPackets:          m.DroppedPackets,
		GeneratedPackets:        m.GeneratedPackets,
		TransmittedPackets:      m.TransmittedPackets,
		CollisionRounds:         m.CollisionRounds,
		Deferrals:               m.Deferrals,
		Rounds:                  m.Rounds,
		Efficiency:              m.Efficiency(),
		ThroughputBps:           m.Throughput(),
		MeanAccessDelayS:        m.MeanAccessDelay(),
		SimEndedTimeS:           m.SimEndedTime,
	}
}

// Print writes the human-readable summary report.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "================ RESULTS ================")
	fmt.Fprintf(w, "Arrival Rate             : %g packets/s\n", m.ArrivalRate)
	fmt.Fprintf(w, "Nodes                    : %d\n", m.NumNodes)
	fmt.Fprintf(w, "Successful Transmissions : %d\n", m.SuccessfulTransmissions)
	fmt.Fprintf(w, "Dropped Packets          : %d\n", m.DroppedPackets)
	fmt.Fprintf(w, "Generated Packets        : %d\n", m.GeneratedPackets)
	fmt.Fprintf(w, "Transmission Attempts    : %d\n", m.TransmittedPackets)
	fmt.Fprintf(w, "Collision Rounds         : %d\n", m.CollisionRounds)
	fmt.Fprintf(w, "Efficiency               : %.6f\n", m.Efficiency())
	fmt.Fprintf(w, "Throughput               : %.6f Mbps (%.1f bps)\n", m.Throughput()/1e6, m.Throughput())
	if m.SuccessfulTransmissions > 0 {
		fmt.Fprintf(w, "Mean Access Delay        : %.6f ms\n", m.MeanAccessDelay()*1e3)
	}
}

// WriteJSON writes the MetricsOutput as indented JSON.
func (m *Metrics) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.Output()); err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}
	return nil
}
