package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Node is one station on the bus. It owns its frame queue and backoff state;
// the engine only asks it questions and tells it what happened.
type Node struct {
	ID               int // also the node's position index on the bus
	GeneratedPackets int // frames produced for the whole horizon, fixed at creation
	PacketsDropped   int // frames discarded after exceeding the retry ceiling

	queue    *FrameQueue
	protocol ProtocolConfig
	slotTime float64
	rng      *rand.Rand

	collisions int // collisions suffered by the current head frame
	busySenses int // busy-carrier backoffs by the current head frame (non-persistent only)

	heapIndex int // position in the ContenderHeap
}

// NewNode creates a node with a pre-generated, sorted arrival schedule.
// rng drives backoff draws only.
func NewNode(id int, arrivals []float64, protocol ProtocolConfig, slotTime float64, rng *rand.Rand) *Node {
	return &Node{
		ID:               id,
		GeneratedPackets: len(arrivals),
		queue:            NewFrameQueue(arrivals),
		protocol:         protocol,
		slotTime:         slotTime,
		rng:              rng,
	}
}

// FirstPacketTimestamp returns the head frame's attempt time, or +Inf when
// the queue is empty.
func (n *Node) FirstPacketTimestamp() float64 {
	head := n.queue.Peek()
	if head == nil {
		return math.Inf(1)
	}
	return head.Attempt
}

// NodePosition returns the node's index on the bus.
func (n *Node) NodePosition() int {
	return n.ID
}

// QueueLen returns the number of frames still waiting.
func (n *Node) QueueLen() int {
	return n.queue.Len()
}

// Queue exposes the node's frames for inspection.
func (n *Node) Queue() *FrameQueue {
	return n.queue
}

// Collisions returns the collision count of the current head frame.
func (n *Node) Collisions() int {
	return n.collisions
}

// CheckIfBusy reports whether the node's next attempt falls while a frame
// occupying [firstBit, lastBit] is passing its tap, so it would sense the
// carrier busy.
func (n *Node) CheckIfBusy(firstBit, lastBit float64) bool {
	head := n.queue.Peek()
	return head != nil && head.Attempt >= firstBit && head.Attempt <= lastBit
}

// BufferPackets holds back the node's waiting frames until the frame
// occupying [firstBit, lastBit] has passed. It returns the number of frames
// dropped while waiting, which is only ever non-zero for non-persistent
// nodes.
func (n *Node) BufferPackets(firstBit, lastBit float64) int {
	if n.queue.Len() == 0 {
		return 0
	}
	if n.protocol.Persistence == PersistenceNonPersistent {
		return n.senseBusyNonPersistent(lastBit)
	}
	moved := n.queue.DeferUntil(lastBit, FrameDeferred)
	logrus.Tracef("node %d: carrier busy until %.9f, deferred %d frame(s)", n.ID, lastBit, moved)
	return 0
}

// senseBusyNonPersistent backs the head frame off in random slot multiples
// until it lands after lastBit, dropping it once the busy count exceeds the
// retry ceiling. A frame promoted to head by a drop senses the same carrier
// and goes through the same loop.
func (n *Node) senseBusyNonPersistent(lastBit float64) int {
	dropped := 0
	for head := n.queue.Peek(); head != nil && head.Attempt <= lastBit; head = n.queue.Peek() {
		n.busySenses++
		if n.busySenses > n.protocol.MaxRetries {
			n.drop("carrier busy")
			dropped++
			continue
		}
		head.Attempt += n.backoffDelay(n.busySenses)
		head.transition(FrameDeferred)
	}
	n.queue.Resort()
	return dropped
}

// CheckCollision reports whether the node is already transmitting when a
// frame's first bit reaches it.
func (n *Node) CheckCollision(firstBit float64) bool {
	head := n.queue.Peek()
	return head != nil && head.Attempt < firstBit
}

// WaitExponentialBackoff applies truncated binary exponential backoff to the
// head frame after a collision. Once the frame has collided more than
// MaxRetries times it is dropped instead. Returns true if a frame was dropped.
func (n *Node) WaitExponentialBackoff() bool {
	head := n.queue.Peek()
	if head == nil {
		return false
	}
	n.collisions++
	if n.collisions > n.protocol.MaxRetries {
		n.drop("retry ceiling")
		return true
	}
	head.Attempt += n.backoffDelay(n.collisions)
	head.transition(FrameBackoff)
	n.queue.Resort()
	return false
}

// RemoveFirstPacket pops the head frame after a clean round and resets the
// backoff state for the next one. Returns nil if the queue is empty.
func (n *Node) RemoveFirstPacket() *Frame {
	f := n.queue.Dequeue()
	if f == nil {
		return nil
	}
	f.transition(FrameDelivered)
	n.resetBackoff()
	return f
}

// backoffDelay draws uniformly from [0, 2^min(k, cap) - 1] slots.
func (n *Node) backoffDelay(k int) float64 {
	exp := min(k, n.protocol.BackoffCap)
	return float64(n.rng.Intn(1<<exp)) * n.slotTime
}

func (n *Node) drop(reason string) {
	f := n.queue.Dequeue()
	f.transition(FrameDropped)
	n.PacketsDropped++
	logrus.Debugf("node %d: dropped frame arrived at %.9f (%s)", n.ID, f.Arrival, reason)
	n.resetBackoff()
}

func (n *Node) resetBackoff() {
	n.collisions = 0
	n.busySenses = 0
}
