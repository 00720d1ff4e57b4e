package sim

import (
	"math/rand"

	"github.com/netsim-lab/csmacd-sim/sim/trace"
)

// Default bus: 5e-8 s per hop, 1.5e-3 s per frame, 5.12e-4 s per slot.
const (
	testHopDelay   = 5e-8
	testFrameDelay = 1.5e-3
	testSlotTime   = 5.12e-4
)

func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// testConfig returns a 10 s trial on the default bus with tracing enabled.
func testConfig(numNodes int, rate float64) SimConfig {
	cfg := DefaultSimConfig(numNodes, rate)
	cfg.Horizon = 10
	cfg.TraceLevel = trace.TraceLevelRounds
	return cfg
}

// newTestNode creates a node on the default protocol with a fixed schedule.
func newTestNode(id int, arrivals ...float64) *Node {
	return NewNode(id, arrivals, DefaultProtocolConfig(), testSlotTime, newRandFromSeed(int64(id)+1))
}

// newProtocolNode creates a node with a custom protocol and fixed schedule.
func newProtocolNode(id int, protocol ProtocolConfig, arrivals ...float64) *Node {
	return NewNode(id, arrivals, protocol, testSlotTime, newRandFromSeed(int64(id)+1))
}

func attempts(n *Node) []float64 {
	out := make([]float64, 0, n.QueueLen())
	for _, f := range n.Queue().Items() {
		out = append(out, f.Attempt)
	}
	return out
}

func isSorted(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			return false
		}
	}
	return true
}
