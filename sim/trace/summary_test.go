package trace

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.TotalRounds)
	assert.True(t, summary.MonotonicClock)
	assert.Empty(t, summary.TransmitterDistribution)
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelRounds})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalRounds != 0 || summary.SuccessRounds != 0 || summary.CollisionRounds != 0 {
		t.Errorf("expected zero rounds, got %+v", summary)
	}
	if summary.ColliderNodes != 0 {
		t.Errorf("expected 0 collider nodes, got %d", summary.ColliderNodes)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with one collision round followed by two clean rounds
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelRounds})
	st.RecordRound(RoundRecord{Round: 1, Clock: 1.0, Transmitter: 0, Success: false,
		Colliders: mapset.NewThreadUnsafeSet(1, 2), Attempts: 3})
	st.RecordRound(RoundRecord{Round: 2, Clock: 1.5, Transmitter: 1, Success: true,
		Deferred: []int{0, 2}, Colliders: mapset.NewSet(2)})
	st.RecordRound(RoundRecord{Round: 3, Clock: 2.0, Transmitter: 1, Success: true, Dropped: 1})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	assert.Equal(t, 3, summary.TotalRounds)
	assert.Equal(t, 2, summary.SuccessRounds)
	assert.Equal(t, 1, summary.CollisionRounds)
	assert.Equal(t, 2, summary.DeferralEvents)
	assert.Equal(t, 1, summary.DroppedFrames)
	assert.Equal(t, 2, summary.ColliderNodes, "nodes 1 and 2 collided; 2 counted once")
	assert.Equal(t, map[int]int{0: 1, 1: 2}, summary.TransmitterDistribution)
	assert.True(t, summary.MonotonicClock)
}

func TestSummarize_ClockRegression_Detected(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelRounds})
	st.RecordRound(RoundRecord{Round: 1, Clock: 2.0, Success: true})
	st.RecordRound(RoundRecord{Round: 2, Clock: 1.0, Success: true})

	assert.False(t, Summarize(st).MonotonicClock)
}
