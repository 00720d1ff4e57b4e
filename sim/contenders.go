package sim

import "container/heap"

// ContenderHeap orders nodes by their next attempt time so the engine can
// pick the transmitter without scanning every node.
// Ordering: head timestamp → node ID (lowest wins exact ties).
// Nodes with empty queues sort last because their timestamp is +Inf.
type ContenderHeap struct {
	nodes []*Node
}

// NewContenderHeap builds a heap over nodes. The slice is copied.
func NewContenderHeap(nodes []*Node) *ContenderHeap {
	h := &ContenderHeap{nodes: make([]*Node, len(nodes))}
	copy(h.nodes, nodes)
	for i, n := range h.nodes {
		n.heapIndex = i
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *ContenderHeap) Len() int {
	return len(h.nodes)
}

// Less implements heap.Interface with deterministic ordering
func (h *ContenderHeap) Less(i, j int) bool {
	ni, nj := h.nodes[i], h.nodes[j]
	ti, tj := ni.FirstPacketTimestamp(), nj.FirstPacketTimestamp()
	if ti != tj {
		return ti < tj
	}
	return ni.ID < nj.ID
}

// Swap implements heap.Interface
func (h *ContenderHeap) Swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
	h.nodes[i].heapIndex = i
	h.nodes[j].heapIndex = j
}

// Push implements heap.Interface
func (h *ContenderHeap) Push(x interface{}) {
	n := x.(*Node)
	n.heapIndex = len(h.nodes)
	h.nodes = append(h.nodes, n)
}

// Pop implements heap.Interface
func (h *ContenderHeap) Pop() interface{} {
	old := h.nodes
	k := len(old)
	item := old[k-1]
	h.nodes = old[0 : k-1]
	item.heapIndex = -1
	return item
}

// Peek returns the node with the earliest head frame without removing it.
func (h *ContenderHeap) Peek() *Node {
	if h.Len() == 0 {
		return nil
	}
	return h.nodes[0]
}

// Fix restores heap order after n's head timestamp changed.
func (h *ContenderHeap) Fix(n *Node) {
	heap.Fix(h, n.heapIndex)
}
