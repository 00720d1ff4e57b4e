package trace

import mapset "github.com/deckarep/golang-set/v2"

// TraceLevel controls the verbosity of round tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelRounds captures one record per contention round.
	TraceLevelRounds TraceLevel = "rounds"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelRounds: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects round records during a simulation.
type SimulationTrace struct {
	Config TraceConfig
	Rounds []RoundRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Rounds: make([]RoundRecord, 0),
	}
}

// RecordRound appends a round record. A nil Colliders set is replaced by an
// empty one so readers never need a nil check.
func (st *SimulationTrace) RecordRound(record RoundRecord) {
	if record.Colliders == nil {
		record.Colliders = mapset.NewThreadUnsafeSet[int]()
	}
	st.Rounds = append(st.Rounds, record)
}
