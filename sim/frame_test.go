package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFrame_StartsIdleAtArrival(t *testing.T) {
	f := NewFrame(2.5)
	assert.Equal(t, FrameIdle, f.State)
	assert.Equal(t, 2.5, f.Arrival)
	assert.Equal(t, 2.5, f.Attempt)
}

func TestFrame_LiveTransitions(t *testing.T) {
	f := NewFrame(1)
	f.transition(FrameDeferred)
	f.transition(FrameBackoff)
	f.transition(FrameBackoff)
	f.transition(FrameDeferred)
	f.transition(FrameDelivered)
	assert.Equal(t, FrameDelivered, f.State)
	assert.True(t, f.State.IsTerminal())
}

func TestFrame_TerminalStates_RejectTransitions(t *testing.T) {
	tests := []struct {
		name     string
		terminal FrameState
		next     FrameState
	}{
		{"delivered to backoff", FrameDelivered, FrameBackoff},
		{"dropped to deferred", FrameDropped, FrameDeferred},
		{"delivered to dropped", FrameDelivered, FrameDropped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Frame{State: tt.terminal}
			assert.Panics(t, func() { f.transition(tt.next) })
		})
	}
}

func TestFrame_CannotReturnToIdle(t *testing.T) {
	f := NewFrame(1)
	f.transition(FrameBackoff)
	assert.Panics(t, func() { f.transition(FrameIdle) })
}
