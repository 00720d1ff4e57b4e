// Implements the FrameQueue, which holds every frame a node still has to send.
// Frames are generated up front for the whole horizon and consumed from the front.

package sim

import (
	"fmt"
	"strings"
)

// FrameQueue is a FIFO of frames ordered by non-decreasing Attempt time.
// Every mutation keeps that order, so the head is always the node's next
// candidate transmission.
type FrameQueue struct {
	queue []*Frame
}

// NewFrameQueue builds a queue from arrival timestamps, which must already
// be sorted.
func NewFrameQueue(arrivals []float64) *FrameQueue {
	fq := &FrameQueue{queue: make([]*Frame, 0, len(arrivals))}
	for _, ts := range arrivals {
		fq.Enqueue(NewFrame(ts))
	}
	return fq
}

// Enqueue adds a frame to the back of the queue. A frame earlier than the
// current tail would break the ordering and panics.
func (fq *FrameQueue) Enqueue(f *Frame) {
	if n := len(fq.queue); n > 0 && f.Attempt < fq.queue[n-1].Attempt {
		panic(fmt.Sprintf("Enqueue: attempt %v precedes tail %v", f.Attempt, fq.queue[n-1].Attempt))
	}
	fq.queue = append(fq.queue, f)
}

func (fq *FrameQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, f := range fq.queue {
		sb.WriteString(f.String())
		if i < len(fq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of frames in the queue.
func (fq *FrameQueue) Len() int {
	return len(fq.queue)
}

// Peek returns the frame at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (fq *FrameQueue) Peek() *Frame {
	if len(fq.queue) == 0 {
		return nil
	}
	return fq.queue[0]
}

// Dequeue removes and returns the front frame, or nil if the queue is empty.
func (fq *FrameQueue) Dequeue() *Frame {
	if len(fq.queue) == 0 {
		return nil
	}
	f := fq.queue[0]
	fq.queue[0] = nil
	fq.queue = fq.queue[1:]
	return f
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers within the
// sim package may iterate over it but MUST NOT append to or reslice it.
func (fq *FrameQueue) Items() []*Frame {
	return fq.queue
}

// DeferUntil raises every frame scheduled before t to t, tagging it with
// state. Frames already at or after t are untouched. Returns how many
// frames moved.
func (fq *FrameQueue) DeferUntil(t float64, state FrameState) int {
	moved := 0
	for _, f := range fq.queue {
		if f.Attempt >= t {
			break
		}
		f.Attempt = t
		f.transition(state)
		moved++
	}
	return moved
}

// Resort restores ordering after the head's attempt time was pushed later:
// every following frame scheduled before the head is raised to it.
// Those frames keep their own state; they were never attempted.
func (fq *FrameQueue) Resort() {
	if len(fq.queue) < 2 {
		return
	}
	head := fq.queue[0].Attempt
	for _, f := range fq.queue[1:] {
		if f.Attempt >= head {
			break
		}
		f.Attempt = head
	}
}
