package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/netsim-lab/csmacd-sim/sim/trace"
)

// Scenario is a trial (or sweep) description loadable from a YAML file.
// Nil pointer fields mean "not set in YAML"; they keep the defaults.
type Scenario struct {
	Seed        *int64       `yaml:"seed"`
	HorizonS    *float64     `yaml:"horizon_s"`
	Nodes       *int         `yaml:"nodes"`
	ArrivalRate *float64     `yaml:"arrival_rate"`
	Trace       string       `yaml:"trace"`
	Bus         BusSpec      `yaml:"bus"`
	Protocol    ProtocolSpec `yaml:"protocol"`
	Sweep       *SweepSpec   `yaml:"sweep,omitempty"`
}

// BusSpec holds the physical constants of the medium.
type BusSpec struct {
	DistanceM        *float64 `yaml:"distance_m"`
	PropagationSpeed *float64 `yaml:"propagation_speed_mps"`
	TransmissionRate *float64 `yaml:"transmission_rate_bps"`
	PacketLengthBits *float64 `yaml:"packet_length_bits"`
	SlotBits         *float64 `yaml:"slot_bits"`
}

// ProtocolSpec holds the CSMA/CD access parameters.
type ProtocolSpec struct {
	Persistence string `yaml:"persistence"`
	MaxRetries  *int   `yaml:"max_retries"`
	BackoffCap  *int   `yaml:"backoff_cap"`
}

// SweepSpec lists the grid a sweep iterates over.
type SweepSpec struct {
	NodeCounts   []int     `yaml:"node_counts"`
	ArrivalRates []float64 `yaml:"arrival_rates"`
	Trials       int       `yaml:"trials"`
}

// LoadScenario reads and parses a YAML scenario file.
// Unknown keys are errors so that typos never silently fall back to defaults.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks names and ranges of the fields that are set.
func (sc *Scenario) Validate() error {
	if !ValidPersistence[Persistence(sc.Protocol.Persistence)] {
		return fmt.Errorf("unknown persistence %q", sc.Protocol.Persistence)
	}
	if !trace.IsValidTraceLevel(sc.Trace) {
		return fmt.Errorf("unknown trace level %q", sc.Trace)
	}
	if sc.Nodes != nil && *sc.Nodes <= 0 {
		return fmt.Errorf("nodes must be positive, got %d", *sc.Nodes)
	}
	if sc.ArrivalRate != nil && *sc.ArrivalRate < 0 {
		return fmt.Errorf("arrival_rate must be non-negative, got %g", *sc.ArrivalRate)
	}
	if sc.HorizonS != nil && *sc.HorizonS <= 0 {
		return fmt.Errorf("horizon_s must be positive, got %g", *sc.HorizonS)
	}
	if sc.Sweep != nil {
		for _, n := range sc.Sweep.NodeCounts {
			if n <= 0 {
				return fmt.Errorf("sweep node_counts must be positive, got %d", n)
			}
		}
		for _, r := range sc.Sweep.ArrivalRates {
			if r < 0 {
				return fmt.Errorf("sweep arrival_rates must be non-negative, got %g", r)
			}
		}
		if sc.Sweep.Trials < 0 {
			return fmt.Errorf("sweep trials must be non-negative, got %d", sc.Sweep.Trials)
		}
	}
	return nil
}

// Apply overlays the fields set in the scenario onto cfg and validates the
// result.
func (sc *Scenario) Apply(cfg *SimConfig) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	if sc.Seed != nil {
		cfg.Seed = *sc.Seed
	}
	if sc.HorizonS != nil {
		cfg.Horizon = *sc.HorizonS
	}
	if sc.Nodes != nil {
		cfg.Workload.NumNodes = *sc.Nodes
	}
	if sc.ArrivalRate != nil {
		cfg.Workload.ArrivalRate = *sc.ArrivalRate
	}
	if sc.Trace != "" {
		cfg.TraceLevel = trace.TraceLevel(sc.Trace)
	}
	setFloat(&cfg.Bus.DistanceBetweenNodes, sc.Bus.DistanceM)
	setFloat(&cfg.Bus.PropagationSpeed, sc.Bus.PropagationSpeed)
	setFloat(&cfg.Bus.TransmissionRate, sc.Bus.TransmissionRate)
	setFloat(&cfg.Bus.PacketLength, sc.Bus.PacketLengthBits)
	setFloat(&cfg.Bus.SlotBits, sc.Bus.SlotBits)
	if sc.Protocol.Persistence != "" {
		cfg.Protocol.Persistence = Persistence(sc.Protocol.Persistence)
	}
	if sc.Protocol.MaxRetries != nil {
		cfg.Protocol.MaxRetries = *sc.Protocol.MaxRetries
	}
	if sc.Protocol.BackoffCap != nil {
		cfg.Protocol.BackoffCap = *sc.Protocol.BackoffCap
	}
	return cfg.Validate()
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
