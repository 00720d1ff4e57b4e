package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContenderHeap_EarliestHeadFirst(t *testing.T) {
	h := NewContenderHeap([]*Node{
		newTestNode(0, 3.0),
		newTestNode(1, 1.0),
		newTestNode(2, 2.0),
	})
	assert.Equal(t, 1, h.Peek().ID)
}

func TestContenderHeap_ExactTie_LowestIDWins(t *testing.T) {
	// GIVEN three nodes with identical heads, supplied in reverse order
	h := NewContenderHeap([]*Node{
		newTestNode(2, 1.0),
		newTestNode(1, 1.0),
		newTestNode(0, 1.0),
	})

	// THEN the lowest id is selected
	assert.Equal(t, 0, h.Peek().ID)
}

func TestContenderHeap_EmptyNodesSortLast(t *testing.T) {
	h := NewContenderHeap([]*Node{
		newTestNode(0),
		newTestNode(1, 9.0),
	})
	assert.Equal(t, 1, h.Peek().ID)
}

func TestContenderHeap_Fix_AfterMutation(t *testing.T) {
	// GIVEN node 0 at the top
	n0 := newTestNode(0, 1.0, 5.0)
	n1 := newTestNode(1, 2.0)
	h := NewContenderHeap([]*Node{n0, n1})
	assert.Equal(t, 0, h.Peek().ID)

	// WHEN node 0 delivers its head and is fixed in place
	n0.RemoveFirstPacket()
	h.Fix(n0)

	// THEN node 1 is next
	assert.Equal(t, 1, h.Peek().ID)
}

func TestContenderHeap_Empty_PeekNil(t *testing.T) {
	assert.Nil(t, NewContenderHeap(nil).Peek())
}
