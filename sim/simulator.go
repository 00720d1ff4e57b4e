// sim/simulator.go
package sim

import (
	"fmt"
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/netsim-lab/csmacd-sim/sim/trace"
)

// Simulator is the contention engine. It holds simulation time, the bus, every
// node, and the round loop. One Simulator is one independent trial.
type Simulator struct {
	Clock   float64 // attempt time of the most recent transmitter, seconds
	Horizon float64
	Bus     *Bus
	// Nodes in ID order, which is also bus position order and the order
	// receivers are visited in every round.
	Nodes   []*Node
	Metrics *Metrics
	// Trace is nil unless the trial was configured with TraceLevelRounds.
	Trace *trace.SimulationTrace
	// RoundCount is the number of rounds executed so far.
	RoundCount int
	// RoundLimit bounds RoundCount: every round either delivers the
	// transmitter's head frame or charges it one collision, and a frame is
	// dropped after MaxRetries collisions.
	RoundLimit int

	contenders *ContenderHeap
}

// NewSimulator validates cfg, generates every node's arrival schedule from the
// seed and returns a simulator ready to Run.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	bus := NewBus(cfg.Bus)
	sampler := NewPoissonSampler(cfg.Workload.ArrivalRate)

	nodes := make([]*Node, cfg.Workload.NumNodes)
	for i := range nodes {
		arrivals := GenerateArrivals(sampler, cfg.Horizon, rng.ForSubsystem(SubsystemArrivals(i)))
		nodes[i] = NewNode(i, arrivals, cfg.Protocol, bus.SlotTime(), rng.ForSubsystem(SubsystemBackoff(i)))
	}
	return NewSimulatorFromNodes(cfg, nodes), nil
}

// NewSimulatorFromNodes builds a simulator around caller-supplied nodes.
// cfg.Workload is ignored apart from the arrival rate reported in Metrics.
func NewSimulatorFromNodes(cfg SimConfig, nodes []*Node) *Simulator {
	ordered := make([]*Node, len(nodes))
	copy(ordered, nodes)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	workload := NewWorkloadConfig(len(ordered), cfg.Workload.ArrivalRate)
	s := &Simulator{
		Clock:      0,
		Horizon:    cfg.Horizon,
		Bus:        NewBus(cfg.Bus),
		Nodes:      ordered,
		Metrics:    NewMetrics(workload, cfg.Bus, cfg.Horizon),
		contenders: NewContenderHeap(ordered),
	}
	for _, n := range ordered {
		s.Metrics.GeneratedPackets += n.GeneratedPackets
	}
	s.RoundLimit = roundLimit(s.Metrics.GeneratedPackets, cfg.Protocol.MaxRetries)
	if cfg.TraceLevel == trace.TraceLevelRounds {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel})
	}
	return s
}

// Run executes rounds until every node's queue is empty, then finalizes the
// metrics.
func (sim *Simulator) Run() {
	logrus.Infof("Starting contention run: %d nodes, %d frames, round limit %d",
		len(sim.Nodes), sim.Metrics.GeneratedPackets, sim.RoundLimit)
	for sim.Step() {
	}
	sim.Finalize()
	logrus.Infof("[t=%.9f] Simulation ended after %d rounds", sim.Clock, sim.RoundCount)
}

// Step executes one transmission round. It returns false, without touching
// any state, once no node has a frame left.
func (sim *Simulator) Step() bool {
	tx := sim.contenders.Peek()
	if tx == nil || tx.QueueLen() == 0 {
		return false
	}

	head := tx.FirstPacketTimestamp()
	if head < sim.Clock {
		panic(fmt.Sprintf("clock regression: node %d head %.12f before clock %.12f", tx.ID, head, sim.Clock))
	}
	if sim.RoundCount >= sim.RoundLimit {
		panic(fmt.Sprintf("round limit %d exceeded at t=%.9f", sim.RoundLimit, head))
	}
	sim.Clock = head
	sim.RoundCount++
	sim.Metrics.TransmittedPackets++

	record := trace.RoundRecord{
		Round:       sim.RoundCount,
		Clock:       sim.Clock,
		Transmitter: tx.ID,
		Attempts:    1,
		Colliders:   mapset.NewThreadUnsafeSet[int](),
	}
	success := true
	for _, rx := range sim.Nodes {
		offset := absInt(rx.NodePosition() - tx.NodePosition())
		if offset == 0 {
			continue
		}
		firstBit := sim.Clock + sim.Bus.PropagationDelay(offset)
		lastBit := firstBit + sim.Bus.TransmissionDelay()

		switch {
		case rx.CheckIfBusy(firstBit, lastBit):
			record.Dropped += rx.BufferPackets(firstBit, lastBit)
			sim.Metrics.Deferrals++
			record.Deferred = append(record.Deferred, rx.ID)
		case rx.CheckCollision(firstBit):
			// Each colliding receiver is charged as an extra attempt.
			sim.Metrics.TransmittedPackets++
			record.Attempts++
			record.Colliders.Add(rx.ID)
			success = false
			if rx.WaitExponentialBackoff() {
				record.Dropped++
				// The next frame has not started yet, so it senses the
				// passing frame like any other waiting frame.
				if rx.FirstPacketTimestamp() <= lastBit {
					record.Dropped += rx.BufferPackets(firstBit, lastBit)
				}
			}
		default:
			continue
		}
		sim.contenders.Fix(rx)
	}

	if success {
		f := tx.RemoveFirstPacket()
		sim.Metrics.SuccessfulTransmissions++
		sim.Metrics.TotalAccessDelay += sim.Clock + sim.Bus.TransmissionDelay() - f.Arrival
		logrus.Debugf("[t=%.9f] round %d: node %d delivered frame from %.9f",
			sim.Clock, sim.RoundCount, tx.ID, f.Arrival)
	} else {
		if tx.WaitExponentialBackoff() {
			record.Dropped++
		}
		sim.Metrics.CollisionRounds++
		logrus.Debugf("[t=%.9f] round %d: node %d collided with %v",
			sim.Clock, sim.RoundCount, tx.ID, record.Colliders.ToSlice())
	}
	sim.contenders.Fix(tx)

	if sim.Trace != nil {
		record.Success = success
		sim.Trace.RecordRound(record)
	}
	return true
}

// Finalize copies the per-node drop counters into Metrics and stamps the end
// time. Run calls it; callers driving Step directly may call it themselves.
func (sim *Simulator) Finalize() {
	sim.Metrics.DroppedPackets = sim.totalDropped()
	sim.Metrics.SimEndedTime = sim.Clock
	sim.Metrics.Rounds = sim.RoundCount
}

// Pending returns the number of frames still queued across all nodes.
func (sim *Simulator) Pending() int {
	total := 0
	for _, n := range sim.Nodes {
		total += n.QueueLen()
	}
	return total
}

// roundLimit is frames × (maxRetries + 1), saturating at math.MaxInt.
func roundLimit(frames, maxRetries int) int {
	if frames <= 0 {
		return 0
	}
	if maxRetries >= math.MaxInt/frames {
		return math.MaxInt
	}
	return frames * (maxRetries + 1)
}

func (sim *Simulator) totalDropped() int {
	total := 0
	for _, n := range sim.Nodes {
		total += n.PacketsDropped
	}
	return total
}
