// Defines the Frame struct that models one packet waiting at a node.
// Tracks the original arrival time, the currently scheduled attempt time and
// the lifecycle state as the frame is deferred, backed off, delivered or dropped.

package sim

import "fmt"

// FrameState represents the lifecycle state of a frame.
// idle, deferred and backoff may move to one another; delivered and
// dropped are terminal.
type FrameState string

const (
	FrameIdle      FrameState = "idle"      // waiting for its first attempt
	FrameDeferred  FrameState = "deferred"  // carrier sensed busy, attempt moved behind a passing frame
	FrameBackoff   FrameState = "backoff"   // collided, waiting out a backoff window
	FrameDelivered FrameState = "delivered" // left the queue after a clean round
	FrameDropped   FrameState = "dropped"   // left the queue after exceeding the retry ceiling
)

// IsTerminal reports whether no further transitions are allowed.
func (s FrameState) IsTerminal() bool {
	return s == FrameDelivered || s == FrameDropped
}

// validFrameTransitions lists the allowed moves out of each live state.
var validFrameTransitions = map[FrameState]map[FrameState]bool{
	FrameIdle:     {FrameDeferred: true, FrameBackoff: true, FrameDelivered: true, FrameDropped: true},
	FrameDeferred: {FrameDeferred: true, FrameBackoff: true, FrameDelivered: true, FrameDropped: true},
	FrameBackoff:  {FrameDeferred: true, FrameBackoff: true, FrameDelivered: true, FrameDropped: true},
}

// Frame is a single packet owned by a node.
type Frame struct {
	Arrival float64    // generation time in seconds, never changes
	Attempt float64    // time of the next transmission attempt; the queue ordering key
	State   FrameState // lifecycle tag
}

// NewFrame creates an idle frame whose first attempt is its arrival time.
func NewFrame(arrival float64) *Frame {
	return &Frame{Arrival: arrival, Attempt: arrival, State: FrameIdle}
}

// transition moves the frame to next, panicking on a move the state machine
// does not allow. Terminal states accept nothing.
func (f *Frame) transition(next FrameState) {
	if !validFrameTransitions[f.State][next] {
		panic(fmt.Sprintf("frame %v: illegal transition %s -> %s", f.Arrival, f.State, next))
	}
	f.State = next
}

func (f *Frame) String() string {
	return fmt.Sprintf("{arrival=%.9f attempt=%.9f %s}", f.Arrival, f.Attempt, f.State)
}
