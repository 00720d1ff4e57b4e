package trace

import mapset "github.com/deckarep/golang-set/v2"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRounds     int
	SuccessRounds   int
	CollisionRounds int
	DeferralEvents  int
	DroppedFrames   int
	// ColliderNodes is the number of distinct nodes that were ever caught
	// transmitting by another node's frame.
	ColliderNodes int
	// MonotonicClock is false if any round started before its predecessor.
	MonotonicClock bool
	// TransmitterDistribution maps node ID → rounds it transmitted in.
	TransmitterDistribution map[int]int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		MonotonicClock:          true,
		TransmitterDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	colliders := mapset.NewThreadUnsafeSet[int]()
	prevClock := 0.0
	for i, r := range st.Rounds {
		summary.TotalRounds++
		if r.Success {
			summary.SuccessRounds++
		} else {
			summary.CollisionRounds++
		}
		summary.DeferralEvents += len(r.Deferred)
		summary.DroppedFrames += r.Dropped
		summary.TransmitterDistribution[r.Transmitter]++
		if r.Colliders != nil {
			colliders.Append(r.Colliders.ToSlice()...)
		}
		if i > 0 && r.Clock < prevClock {
			summary.MonotonicClock = false
		}
		prevClock = r.Clock
	}
	summary.ColliderNodes = colliders.Cardinality()

	return summary
}
