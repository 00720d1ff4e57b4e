package sim

import (
	"fmt"

	"github.com/netsim-lab/csmacd-sim/sim/trace"
)

// Persistence selects how a node reacts to a busy carrier.
type Persistence string

const (
	// PersistencePersistent defers every waiting frame to the instant the
	// passing frame's last bit clears the node's tap.
	PersistencePersistent Persistence = "persistent"
	// PersistenceNonPersistent backs off a random number of slots each time
	// the carrier is sensed busy.
	PersistenceNonPersistent Persistence = "non-persistent"
)

// ValidPersistence is the set of recognized persistence modes. The empty
// mode is accepted and behaves as PersistencePersistent.
var ValidPersistence = map[Persistence]bool{"": true, PersistencePersistent: true, PersistenceNonPersistent: true}

// maxBackoffCap keeps 1<<cap inside an int on every platform.
const maxBackoffCap = 30

// maxRetriesCeiling bounds MaxRetries so the engine's round limit stays far
// from integer overflow.
const maxRetriesCeiling = 1 << 20

// BusConfig groups the physical constants of the shared medium.
type BusConfig struct {
	DistanceBetweenNodes float64 // metres between adjacent taps (must be > 0)
	PropagationSpeed     float64 // metres per second (must be > 0)
	TransmissionRate     float64 // bits per second (must be > 0)
	PacketLength         float64 // bits per frame, identical for every frame (must be > 0)
	SlotBits             float64 // backoff slot in bit times (must be > 0)
}

// ProtocolConfig groups the CSMA/CD access parameters.
type ProtocolConfig struct {
	Persistence Persistence // "persistent" or "non-persistent"; "" means persistent
	MaxRetries  int         // collisions tolerated for one frame before it is dropped
	BackoffCap  int         // truncation exponent for the backoff window
}

// WorkloadConfig groups packet-generation parameters.
type WorkloadConfig struct {
	NumNodes    int     // stations on the bus (must be > 0)
	ArrivalRate float64 // mean packets per second per node (>= 0)
}

// SimConfig is everything needed to build one independent trial.
type SimConfig struct {
	Horizon    float64 // simulated seconds of traffic generation
	Seed       int64
	Bus        BusConfig
	Protocol   ProtocolConfig
	Workload   WorkloadConfig
	TraceLevel trace.TraceLevel
}

// NewBusConfig creates a BusConfig. No defaults are injected.
func NewBusConfig(distance, speed, rate, packetLength, slotBits float64) BusConfig {
	return BusConfig{
		DistanceBetweenNodes: distance,
		PropagationSpeed:     speed,
		TransmissionRate:     rate,
		PacketLength:         packetLength,
		SlotBits:             slotBits,
	}
}

// NewProtocolConfig creates a ProtocolConfig. An empty persistence is
// normalized to PersistencePersistent; nothing else is defaulted.
func NewProtocolConfig(persistence Persistence, maxRetries, backoffCap int) ProtocolConfig {
	if persistence == "" {
		persistence = PersistencePersistent
	}
	return ProtocolConfig{
		Persistence: persistence,
		MaxRetries:  maxRetries,
		BackoffCap:  backoffCap,
	}
}

// NewWorkloadConfig creates a WorkloadConfig. No defaults are injected.
func NewWorkloadConfig(numNodes int, arrivalRate float64) WorkloadConfig {
	return WorkloadConfig{NumNodes: numNodes, ArrivalRate: arrivalRate}
}

// DefaultBusConfig returns a 1 Mbps bus with 1500-bit frames, 10 m taps and
// signals travelling at two thirds of the speed of light.
func DefaultBusConfig() BusConfig {
	return NewBusConfig(10, (2.0/3.0)*3e8, 1e6, 1500, 512)
}

// DefaultProtocolConfig returns persistent CSMA/CD with a ceiling of 10
// collisions per frame.
func DefaultProtocolConfig() ProtocolConfig {
	return NewProtocolConfig(PersistencePersistent, 10, 10)
}

// DefaultSimConfig returns a 1000 s trial for the given workload.
func DefaultSimConfig(numNodes int, arrivalRate float64) SimConfig {
	return SimConfig{
		Horizon:    1000,
		Seed:       42,
		Bus:        DefaultBusConfig(),
		Protocol:   DefaultProtocolConfig(),
		Workload:   NewWorkloadConfig(numNodes, arrivalRate),
		TraceLevel: trace.TraceLevelNone,
	}
}

// Validate checks parameter ranges.
func (c BusConfig) Validate() error {
	if c.DistanceBetweenNodes <= 0 {
		return fmt.Errorf("distance between nodes must be positive, got %g", c.DistanceBetweenNodes)
	}
	if c.PropagationSpeed <= 0 {
		return fmt.Errorf("propagation speed must be positive, got %g", c.PropagationSpeed)
	}
	if c.TransmissionRate <= 0 {
		return fmt.Errorf("transmission rate must be positive, got %g", c.TransmissionRate)
	}
	if c.PacketLength <= 0 {
		return fmt.Errorf("packet length must be positive, got %g", c.PacketLength)
	}
	if c.SlotBits <= 0 {
		return fmt.Errorf("slot bits must be positive, got %g", c.SlotBits)
	}
	return nil
}

// Validate checks the persistence mode and backoff ranges.
func (c ProtocolConfig) Validate() error {
	if !ValidPersistence[c.Persistence] {
		return fmt.Errorf("unknown persistence %q", c.Persistence)
	}
	if c.MaxRetries < 0 || c.MaxRetries > maxRetriesCeiling {
		return fmt.Errorf("max retries must be in [0, %d], got %d", maxRetriesCeiling, c.MaxRetries)
	}
	if c.BackoffCap < 0 || c.BackoffCap > maxBackoffCap {
		return fmt.Errorf("backoff cap must be in [0, %d], got %d", maxBackoffCap, c.BackoffCap)
	}
	return nil
}

// Validate checks every section of the trial configuration.
func (c SimConfig) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %g", c.Horizon)
	}
	if c.Workload.NumNodes <= 0 {
		return fmt.Errorf("number of nodes must be positive, got %d", c.Workload.NumNodes)
	}
	if c.Workload.ArrivalRate < 0 {
		return fmt.Errorf("arrival rate must be non-negative, got %g", c.Workload.ArrivalRate)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	if err := c.Bus.Validate(); err != nil {
		return fmt.Errorf("bus: %w", err)
	}
	if err := c.Protocol.Validate(); err != nil {
		return fmt.Errorf("protocol: %w", err)
	}
	return nil
}
